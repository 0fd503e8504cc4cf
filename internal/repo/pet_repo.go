// Package repo implements the data persistence layer for the Pet entity,
// backed by GORM. This file provides repository functions for the Pet model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions. They follow the "thin repository"
// approach: no validation and no business rules, only persistence and query
// composition. Validation is the caller's responsibility.
//
// Error semantics:
//   - When a pet is not found, functions return ErrNotFound
//     (an alias of gorm.ErrRecordNotFound).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// Functions:
//
//   - CreatePet(ctx, db, in) -> *domain.Pet, error
//   - GetPet(ctx, db, id) -> *domain.Pet, error
//   - ListPets(ctx, db) -> []domain.Pet, error
//   - ListPetsByAvailability(ctx, db, available) -> []domain.Pet, error
//   - UpdatePet(ctx, db, pet) -> error
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-pet-adoption/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreatePet inserts a new Pet row built from in. The database assigns the
// id; the returned Pet carries it.
func CreatePet(ctx context.Context, db *gorm.DB, in domain.NewPet) (*domain.Pet, error) {
	p := &domain.Pet{
		Name:      in.Name,
		Species:   in.Species,
		PhotoURL:  in.PhotoURL,
		Age:       in.Age,
		Notes:     in.Notes,
		Available: in.Available,
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// GetPet fetches a single pet by primary key, or ErrNotFound if missing.
func GetPet(ctx context.Context, db *gorm.DB, id uint) (*domain.Pet, error) {
	var p domain.Pet
	err := db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPets returns every pet in storage-native order.
func ListPets(ctx context.Context, db *gorm.DB) ([]domain.Pet, error) {
	var out []domain.Pet
	err := db.WithContext(ctx).Find(&out).Error
	return out, err
}

// ListPetsByAvailability returns the pets whose available flag equals
// available. No ordering is applied.
func ListPetsByAvailability(ctx context.Context, db *gorm.DB, available bool) ([]domain.Pet, error) {
	var out []domain.Pet
	err := db.WithContext(ctx).
		Where("available = ?", available).
		Find(&out).Error
	return out, err
}

// UpdatePet persists the mutable columns (photo_url, notes, available) of an
// already-fetched pet. Columns are selected explicitly so zero values
// (empty notes, available=false) are written. Returns ErrNotFound when the
// row no longer exists.
func UpdatePet(ctx context.Context, db *gorm.DB, p *domain.Pet) error {
	res := db.WithContext(ctx).
		Model(&domain.Pet{}).
		Where("id = ?", p.ID).
		Select("photo_url", "notes", "available", "updated_at").
		Updates(map[string]any{
			"photo_url":  p.PhotoURL,
			"notes":      p.Notes,
			"available":  p.Available,
			"updated_at": db.NowFunc(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
