// Package domain defines the persistence model for adoptable pets. The Pet
// type is mapped with GORM and is the only entity of the application.
package domain

import "time"

// Species values accepted for a Pet. The set is closed; both the add form
// and the database CHECK constraint enforce it.
const (
	SpeciesCat       = "cat"
	SpeciesDog       = "dog"
	SpeciesPorcupine = "porcupine"
)

// AllSpecies lists the accepted species in display order.
var AllSpecies = []string{SpeciesCat, SpeciesDog, SpeciesPorcupine}

// ValidSpecies reports whether s is one of AllSpecies (case-sensitive).
func ValidSpecies(s string) bool {
	for _, sp := range AllSpecies {
		if s == sp {
			return true
		}
	}
	return false
}

// Pet represents an animal listed for adoption.
//
// Fields:
//   - ID: auto-increment primary key, assigned on insert and never changed.
//   - Name, Species, Age: set once by the add flow.
//   - PhotoURL, Notes, Available: the only columns the edit flow mutates.
//     Available defaults to true on the application side (see NewPetDefaults);
//     it carries no column default so an explicit false is never replaced.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type Pet struct {
	ID        uint      `json:"id"        gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name"      gorm:"type:varchar(50);not null"`
	Species   string    `json:"species"   gorm:"type:varchar(30);not null;check:species IN ('cat','dog','porcupine')"`
	PhotoURL  string    `json:"photo_url" gorm:"column:photo_url;type:varchar(255)"`
	Age       *int      `json:"age,omitempty"`
	Notes     string    `json:"notes"     gorm:"type:text"`
	Available bool      `json:"available" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Pet.
func (Pet) TableName() string { return "pets" }

// NewPet carries the validated fields of an add submission.
type NewPet struct {
	Name      string
	Species   string
	PhotoURL  string
	Age       *int
	Notes     string
	Available bool
}

// NewPetDefaults returns the values a fresh add form starts from.
func NewPetDefaults() NewPet {
	return NewPet{Available: true}
}

// EditPet carries the validated fields of an edit submission. Only these
// three attributes may change after a Pet is created.
type EditPet struct {
	PhotoURL  string
	Notes     string
	Available bool
}

// Apply copies the mutable attributes of e onto p.
func (e EditPet) Apply(p *Pet) {
	p.PhotoURL = e.PhotoURL
	p.Notes = e.Notes
	p.Available = e.Available
}
