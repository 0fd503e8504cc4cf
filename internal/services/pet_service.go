// Package services – PetService
//
// This file implements the PetService, which owns the unit of work around
// every pet operation. Input arrives already validated (see package forms);
// the service opens a transaction per mutation, delegates persistence to the
// repository, and maps repository sentinels to service-level errors so
// handlers can translate them into HTTP results consistently.
package services

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/tbourn/go-pet-adoption/internal/domain"
	"github.com/tbourn/go-pet-adoption/internal/observability"
	"github.com/tbourn/go-pet-adoption/internal/repo"
)

// PetRepo defines the repository contract required by PetService.
// Every method receives the handle to run on, which may be a transaction.
type PetRepo interface {
	// CreatePet inserts a new pet and returns it with its assigned id.
	CreatePet(ctx context.Context, db *gorm.DB, in domain.NewPet) (*domain.Pet, error)

	// GetPet fetches a pet by id.
	GetPet(ctx context.Context, db *gorm.DB, id uint) (*domain.Pet, error)

	// ListPets returns every pet.
	ListPets(ctx context.Context, db *gorm.DB) ([]domain.Pet, error)

	// ListPetsByAvailability returns the pets with the given flag.
	ListPetsByAvailability(ctx context.Context, db *gorm.DB, available bool) ([]domain.Pet, error)

	// UpdatePet persists the mutable columns of p.
	UpdatePet(ctx context.Context, db *gorm.DB, p *domain.Pet) error

	// PetStats returns counts per availability bucket.
	PetStats(ctx context.Context, db *gorm.DB) (repo.PetCounts, error)
}

// PetService provides the listing, add and edit use-cases.
type PetService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the pet repository used by this service.
	Repo PetRepo
}

// NewPetService constructs a PetService.
func NewPetService(db *gorm.DB, r PetRepo) *PetService {
	return &PetService{DB: db, Repo: r}
}

// Listing returns the available and unavailable pets, each in
// storage-native order.
func (s *PetService) Listing(ctx context.Context) (available, unavailable []domain.Pet, err error) {
	available, err = s.Repo.ListPetsByAvailability(ctx, s.DB, true)
	if err != nil {
		return nil, nil, err
	}
	unavailable, err = s.Repo.ListPetsByAvailability(ctx, s.DB, false)
	if err != nil {
		return nil, nil, err
	}
	return available, unavailable, nil
}

// All returns every pet together with availability counts.
func (s *PetService) All(ctx context.Context) ([]domain.Pet, repo.PetCounts, error) {
	pets, err := s.Repo.ListPets(ctx, s.DB)
	if err != nil {
		return nil, repo.PetCounts{}, err
	}
	counts, err := s.Repo.PetStats(ctx, s.DB)
	if err != nil {
		return nil, repo.PetCounts{}, err
	}
	return pets, counts, nil
}

// Get returns the pet with the given id, or ErrPetNotFound.
func (s *PetService) Get(ctx context.Context, id uint) (*domain.Pet, error) {
	p, err := s.Repo.GetPet(ctx, s.DB, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrPetNotFound
		}
		return nil, err
	}
	return p, nil
}

// Add persists a new pet built from validated input. Two identical calls
// create two distinct pets.
func (s *PetService) Add(ctx context.Context, in domain.NewPet) (*domain.Pet, error) {
	ctx, span := observability.StartSpan(ctx, "pets.add", attribute.String("pet.species", in.Species))
	defer span.End()

	var out *domain.Pet
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.Repo.CreatePet(ctx, tx, in)
		if err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, observability.RecordError(span, err)
	}
	span.SetAttributes(attribute.Int64("pet.id", int64(out.ID)))
	petsCreated.WithLabelValues(in.Species).Inc()
	return out, nil
}

// Edit applies validated edit input to the pet with the given id inside one
// transaction. Only photo_url, notes and available change. Concurrent edits
// are not coordinated; the last commit wins.
func (s *PetService) Edit(ctx context.Context, id uint, in domain.EditPet) (*domain.Pet, error) {
	ctx, span := observability.StartSpan(ctx, "pets.edit", attribute.Int64("pet.id", int64(id)))
	defer span.End()

	var out *domain.Pet
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.Repo.GetPet(ctx, tx, id)
		if err != nil {
			return err
		}
		in.Apply(p)
		if err := s.Repo.UpdatePet(ctx, tx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrPetNotFound
		}
		return nil, observability.RecordError(span, err)
	}
	petsUpdated.Inc()
	return out, nil
}

// isNotFound treats repo-level not found sentinels as "not found" in a
// driver-agnostic way.
func isNotFound(err error) bool {
	return errors.Is(err, repo.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
