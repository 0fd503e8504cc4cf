package domain

import (
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:domain_models_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Pet{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestTableName(t *testing.T) {
	if (Pet{}).TableName() != "pets" {
		t.Fatalf("Pet.TableName() = %q; want %q", (Pet{}).TableName(), "pets")
	}
}

func TestValidSpecies(t *testing.T) {
	for _, s := range []string{"cat", "dog", "porcupine"} {
		if !ValidSpecies(s) {
			t.Fatalf("ValidSpecies(%q) = false; want true", s)
		}
	}
	for _, s := range []string{"", "bird", "Cat", "DOG", " cat"} {
		if ValidSpecies(s) {
			t.Fatalf("ValidSpecies(%q) = true; want false", s)
		}
	}
}

func TestNewPetDefaults_AvailableTrue(t *testing.T) {
	d := NewPetDefaults()
	if !d.Available {
		t.Fatalf("fresh defaults must be available")
	}
	if d.Name != "" || d.Species != "" || d.Age != nil {
		t.Fatalf("unexpected defaults: %+v", d)
	}
}

func TestEditPet_Apply_OnlyMutableFields(t *testing.T) {
	age := 4
	p := &Pet{ID: 7, Name: "Rex", Species: SpeciesDog, Age: &age, PhotoURL: "http://a/b.png", Notes: "old", Available: true}

	EditPet{PhotoURL: "", Notes: "new", Available: false}.Apply(p)

	if p.PhotoURL != "" || p.Notes != "new" || p.Available {
		t.Fatalf("mutable fields not applied: %+v", p)
	}
	if p.ID != 7 || p.Name != "Rex" || p.Species != SpeciesDog || p.Age == nil || *p.Age != 4 {
		t.Fatalf("immutable fields changed: %+v", p)
	}
}

func TestMigration_SpeciesCheckConstraint(t *testing.T) {
	db := newDomainDB(t)

	if !db.Migrator().HasTable(&Pet{}) {
		t.Fatalf("expected pets table")
	}

	ok := &Pet{Name: "Spike", Species: SpeciesPorcupine, Available: true}
	if err := db.Create(ok).Error; err != nil {
		t.Fatalf("insert valid pet: %v", err)
	}
	if ok.ID == 0 {
		t.Fatalf("expected auto-assigned id")
	}

	bad := &Pet{Name: "Tweety", Species: "bird", Available: true}
	if err := db.Create(bad).Error; err == nil {
		t.Fatalf("expected CHECK constraint violation for species=bird")
	}
}

func TestMigration_AvailableFalsePersists(t *testing.T) {
	db := newDomainDB(t)

	p := &Pet{Name: "Shy", Species: SpeciesCat, Available: false}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("insert: %v", err)
	}
	var got Pet
	if err := db.First(&got, p.ID).Error; err != nil {
		t.Fatalf("readback: %v", err)
	}
	if got.Available {
		t.Fatalf("available=false was not persisted")
	}
	if got.Age != nil {
		t.Fatalf("expected NULL age, got %v", *got.Age)
	}
}
