// Pet HTML handlers.
//
// Routes:
//   - GET  /            listing of available and unavailable pets
//   - GET  /add         empty add form
//   - POST /add         create a pet, or re-render the form with errors
//   - GET  /list_pets   write every pet to the server log
//   - GET  /:id         detail page with the edit form
//   - POST /:id         apply an edit, or re-render with errors
//
// Successful submissions redirect to / with a flash message (post/redirect/
// get). Validation failures answer 200 with the submitted values and
// per-field messages; nothing is persisted.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-pet-adoption/internal/domain"
	"github.com/tbourn/go-pet-adoption/internal/forms"
	"github.com/tbourn/go-pet-adoption/internal/http/middleware"
	"github.com/tbourn/go-pet-adoption/internal/repo"
	"github.com/tbourn/go-pet-adoption/internal/services"
	"github.com/tbourn/go-pet-adoption/internal/utils"
)

// Flash messages shown after a successful submission.
const (
	MsgPetAdded   = "Pet added successfully!"
	MsgPetUpdated = "Pet updated successfully!"
	MsgListLogged = "Check your terminal for the pet list"
)

// PetService defines the pet use-cases consumed by the handlers.
//
// Implementations must be safe for concurrent use and honor ctx.
type PetService interface {
	// Listing returns available and unavailable pets.
	Listing(ctx context.Context) (available, unavailable []domain.Pet, err error)
	// All returns every pet with availability counts.
	All(ctx context.Context) ([]domain.Pet, repo.PetCounts, error)
	// Get returns a pet or services.ErrPetNotFound.
	Get(ctx context.Context, id uint) (*domain.Pet, error)
	// Add persists a validated new pet.
	Add(ctx context.Context, in domain.NewPet) (*domain.Pet, error)
	// Edit applies a validated edit or returns services.ErrPetNotFound.
	Edit(ctx context.Context, id uint, in domain.EditPet) (*domain.Pet, error)
}

// Handlers groups the HTML endpoints of the site.
type Handlers struct {
	petSvc PetService
}

// New constructs Handlers bound to the given service.
func New(petSvc PetService) *Handlers {
	return &Handlers{petSvc: petSvc}
}

// Home renders the listing page.
func (h *Handlers) Home(c *gin.Context) {
	available, unavailable, err := h.petSvc.Listing(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "Could not load pets.")
		return
	}
	render(c, http.StatusOK, "home.html", gin.H{
		"Available":   available,
		"Unavailable": unavailable,
	})
}

// AddForm renders an empty add form with the available box ticked.
func (h *Handlers) AddForm(c *gin.Context) {
	renderAdd(c, http.StatusOK, forms.NewAddForm())
}

// AddPet validates and persists an add submission.
func (h *Handlers) AddPet(c *gin.Context) {
	var in forms.AddPetInput
	if err := c.ShouldBind(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "The submitted form could not be read.")
		return
	}
	_, in.AvailableSet = c.GetPostForm(forms.FieldAvailable)

	pet, errs := forms.ValidateAdd(in)
	errs = withCSRF(c, errs)
	if !errs.Empty() {
		observeRejected("add", errs)
		renderAdd(c, http.StatusOK, forms.FormResult[forms.AddPetInput]{Values: in, Errors: errs})
		return
	}

	created, err := h.petSvc.Add(c.Request.Context(), pet)
	if err != nil {
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "Could not save the pet.")
		return
	}
	middleware.LoggerFrom(c).Info().
		Uint("pet_id", created.ID).
		Str("species", created.Species).
		Msg("pet added")

	middleware.AddFlash(c, middleware.FlashSuccess, MsgPetAdded)
	redirect(c, "/")
}

// ListPets logs "name - species - available" for every pet and answers
// with a plain acknowledgement.
func (h *Handlers) ListPets(c *gin.Context) {
	pets, counts, err := h.petSvc.All(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "Could not load pets.")
		return
	}

	lg := middleware.LoggerFrom(c)
	for _, p := range pets {
		lg.Info().Uint("pet_id", p.ID).Msgf("%s - %s - %t", p.Name, p.Species, p.Available)
	}
	lg.Info().
		Int64("total", counts.Total).
		Int64("available", counts.Available).
		Int64("unavailable", counts.Unavailable).
		Msg("pet list")

	c.String(http.StatusOK, MsgListLogged)
}

// ShowPet renders the detail page with the edit form prefilled.
func (h *Handlers) ShowPet(c *gin.Context) {
	pet, ok := h.loadPet(c)
	if !ok {
		return
	}
	renderDetail(c, http.StatusOK, pet, forms.EditFormFromPet(pet))
}

// EditPet validates an edit submission and applies it.
func (h *Handlers) EditPet(c *gin.Context) {
	pet, ok := h.loadPet(c)
	if !ok {
		return
	}

	var in forms.EditPetInput
	if err := c.ShouldBind(&in); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "The submitted form could not be read.")
		return
	}
	_, in.AvailableSet = c.GetPostForm(forms.FieldAvailable)

	edit, errs := forms.ValidateEdit(in)
	errs = withCSRF(c, errs)
	if !errs.Empty() {
		observeRejected("edit", errs)
		renderDetail(c, http.StatusOK, pet, forms.FormResult[forms.EditPetInput]{Values: in, Errors: errs})
		return
	}

	if _, err := h.petSvc.Edit(c.Request.Context(), pet.ID, edit); err != nil {
		if errors.Is(err, services.ErrPetNotFound) {
			notFound(c)
			return
		}
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, "Could not save the pet.")
		return
	}
	middleware.LoggerFrom(c).Info().Uint("pet_id", pet.ID).Msg("pet updated")

	middleware.AddFlash(c, middleware.FlashSuccess, MsgPetUpdated)
	redirect(c, "/")
}

// loadPet resolves the :id parameter. It renders 404 for malformed or
// unknown ids and 500 for storage errors; ok is false in all those cases.
func (h *Handlers) loadPet(c *gin.Context) (*domain.Pet, bool) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		notFound(c)
		return nil, false
	}
	pet, err := h.petSvc.Get(c.Request.Context(), id)
	switch {
	case errors.Is(err, services.ErrPetNotFound):
		notFound(c)
		return nil, false
	case err != nil:
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeLoadFailed, "Could not load the pet.")
		return nil, false
	}
	return pet, true
}

// withCSRF adds the CSRF middleware's verdict to errs as a field error.
func withCSRF(c *gin.Context, errs forms.FieldErrors) forms.FieldErrors {
	msg := middleware.CSRFError(c)
	if msg == "" {
		return errs
	}
	if errs == nil {
		errs = forms.FieldErrors{}
	}
	errs.Add(forms.FieldCSRF, msg)
	return errs
}

func observeRejected(form string, errs forms.FieldErrors) {
	for field := range errs {
		formRejections.WithLabelValues(form, field).Inc()
	}
}

func renderAdd(c *gin.Context, status int, form forms.FormResult[forms.AddPetInput]) {
	render(c, status, "add_pet.html", gin.H{
		"Title": "Add a pet",
		"Form":  form,
	})
}

func renderDetail(c *gin.Context, status int, pet *domain.Pet, form forms.FormResult[forms.EditPetInput]) {
	render(c, status, "pet_detail.html", gin.H{
		"Title": pet.Name,
		"Pet":   pet,
		"Form":  form,
	})
}
