// Package repo implements the data persistence layer for the Pet entity,
// backed by GORM. This file provides small aggregate queries used by the
// diagnostic pet listing.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-pet-adoption/internal/domain"
)

// PetCounts summarizes the pets table by availability.
type PetCounts struct {
	Total       int64
	Available   int64
	Unavailable int64
}

// PetStats returns row counts for the whole table and per availability
// bucket. It executes one grouped query.
func PetStats(ctx context.Context, db *gorm.DB) (PetCounts, error) {
	var rows []struct {
		Available bool
		N         int64
	}
	err := db.WithContext(ctx).
		Model(&domain.Pet{}).
		Select("available, COUNT(*) AS n").
		Group("available").
		Scan(&rows).Error
	if err != nil {
		return PetCounts{}, err
	}

	var out PetCounts
	for _, r := range rows {
		if r.Available {
			out.Available += r.N
		} else {
			out.Unavailable += r.N
		}
		out.Total += r.N
	}
	return out, nil
}
