// Package forms validates the two HTML form submissions of the application:
// adding a pet and editing a pet. Validation is a pure function of the
// submitted values; it never touches storage or the HTTP framework, so the
// handlers bind raw input and hand it here.
//
// Field rules are expressed as go-playground/validator struct tags and
// translated into human-readable, per-field messages. A failed submission
// yields FieldErrors and no data; a successful one yields the typed values
// ready for persistence.
package forms

import (
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/tbourn/go-pet-adoption/internal/domain"
)

// Form field names, shared by templates, handlers and error maps.
const (
	FieldName      = "name"
	FieldSpecies   = "species"
	FieldPhotoURL  = "photo_url"
	FieldAge       = "age"
	FieldNotes     = "notes"
	FieldAvailable = "available"
	FieldCSRF      = "csrf_token"
)

// Age bounds (inclusive).
const (
	MinAge = 0
	MaxAge = 30
)

// FieldErrors maps a form field name to one or more messages.
type FieldErrors map[string][]string

// Add appends msg to the messages of field.
func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// Has reports whether field has at least one error.
func (fe FieldErrors) Has(field string) bool { return len(fe[field]) > 0 }

// Empty reports whether no field has errors.
func (fe FieldErrors) Empty() bool { return len(fe) == 0 }

// AddPetInput is the raw add-form submission. Every value is kept as text
// so it can be echoed back verbatim when validation fails.
type AddPetInput struct {
	Name      string `form:"name"`
	Species   string `form:"species"`
	PhotoURL  string `form:"photo_url"`
	Age       string `form:"age"`
	Notes     string `form:"notes"`
	Available string `form:"available"`
	// AvailableSet is true when the checkbox was part of the submission.
	AvailableSet bool `form:"-"`
}

// EditPetInput is the raw edit-form submission.
type EditPetInput struct {
	PhotoURL     string `form:"photo_url"`
	Notes        string `form:"notes"`
	Available    string `form:"available"`
	AvailableSet bool   `form:"-"`
}

// AvailableChecked reports whether the checkbox renders ticked.
func (in AddPetInput) AvailableChecked() bool { return checked(in.Available, in.AvailableSet) }

// AvailableChecked reports whether the checkbox renders ticked.
func (in EditPetInput) AvailableChecked() bool { return checked(in.Available, in.AvailableSet) }

// FormResult carries the submitted (or prefilled) values and any errors back
// to the view. Values are never mutated by validation.
type FormResult[T any] struct {
	Values T
	Errors FieldErrors
}

// NewAddForm returns the state of a fresh add form: empty fields, the
// available checkbox ticked.
func NewAddForm() FormResult[AddPetInput] {
	d := domain.NewPetDefaults()
	in := AddPetInput{}
	if d.Available {
		in.Available, in.AvailableSet = "y", true
	}
	return FormResult[AddPetInput]{Values: in, Errors: FieldErrors{}}
}

// EditFormFromPet prefills an edit form from a stored record.
func EditFormFromPet(p *domain.Pet) FormResult[EditPetInput] {
	in := EditPetInput{PhotoURL: p.PhotoURL, Notes: p.Notes}
	if p.Available {
		in.Available, in.AvailableSet = "y", true
	}
	return FormResult[EditPetInput]{Values: in, Errors: FieldErrors{}}
}

// addRules is the tag-annotated view of an add submission after type
// coercion. Age is a pointer so "absent" and "0" differ.
type addRules struct {
	Name     string `validate:"required,max=50"`
	Species  string `validate:"required,species"`
	PhotoURL string `validate:"omitempty,max=255,absurl"`
	Age      *int   `validate:"omitempty,min=0,max=30"`
}

type editRules struct {
	PhotoURL string `validate:"omitempty,max=255,absurl"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// engine returns the shared validator with custom rules registered.
func engine() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("absurl", isAbsoluteURL)
		_ = v.RegisterValidation("species", func(fl validator.FieldLevel) bool {
			return domain.ValidSpecies(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// isAbsoluteURL accepts values that parse as URLs with both a scheme and a
// host, e.g. https://example.com/p.jpg.
func isAbsoluteURL(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// ValidateAdd checks an add submission. On success it returns the typed
// values and nil; otherwise a zero NewPet and the per-field errors.
func ValidateAdd(in AddPetInput) (domain.NewPet, FieldErrors) {
	errs := FieldErrors{}

	rules := addRules{
		Name:     in.Name,
		Species:  in.Species,
		PhotoURL: strings.TrimSpace(in.PhotoURL),
	}

	// Integer coercion happens before rule evaluation; a value that is not an
	// integer gets its own message and skips the range check.
	if raw := strings.TrimSpace(in.Age); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs.Add(FieldAge, "Not a valid integer value.")
		} else {
			rules.Age = &n
		}
	}

	collect(engine().Struct(rules), errs)

	if !errs.Empty() {
		return domain.NewPet{}, errs
	}
	return domain.NewPet{
		Name:      in.Name,
		Species:   in.Species,
		PhotoURL:  rules.PhotoURL,
		Age:       rules.Age,
		Notes:     in.Notes,
		Available: checked(in.Available, in.AvailableSet),
	}, nil
}

// ValidateEdit checks an edit submission. Only photo_url, notes and
// available are part of this schema.
func ValidateEdit(in EditPetInput) (domain.EditPet, FieldErrors) {
	errs := FieldErrors{}
	rules := editRules{PhotoURL: strings.TrimSpace(in.PhotoURL)}

	collect(engine().Struct(rules), errs)

	if !errs.Empty() {
		return domain.EditPet{}, errs
	}
	return domain.EditPet{
		PhotoURL:  rules.PhotoURL,
		Notes:     in.Notes,
		Available: checked(in.Available, in.AvailableSet),
	}, nil
}

// checked implements checkbox semantics: a missing field is false, and so
// are the literal values "" and "false"; anything else submitted is true.
func checked(v string, present bool) bool {
	if !present {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "false":
		return false
	}
	return true
}

// collect converts validator errors into FieldErrors.
func collect(err error, errs FieldErrors) {
	if err == nil {
		return
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// InvalidValidationError means a programming error; surface it on a
		// pseudo-field rather than pretending the input is valid.
		errs.Add("_form", err.Error())
		return
	}
	for _, fe := range verrs {
		field := fieldName(fe.StructField())
		errs.Add(field, message(fe))
	}
}

func fieldName(structField string) string {
	switch structField {
	case "Name":
		return FieldName
	case "Species":
		return FieldSpecies
	case "PhotoURL":
		return FieldPhotoURL
	case "Age":
		return FieldAge
	}
	return strings.ToLower(structField)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "species":
		return "Invalid value, must be one of: " + strings.Join(domain.AllSpecies, ", ") + "."
	case "absurl":
		return "Invalid URL."
	case "min", "max":
		if fe.Kind() == reflect.String {
			return "Field cannot be longer than " + fe.Param() + " characters."
		}
		return "Number must be between " + strconv.Itoa(MinAge) + " and " + strconv.Itoa(MaxAge) + "."
	}
	return "Invalid value."
}
