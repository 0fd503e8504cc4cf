// Package services defines the business logic for pet listings. This file
// centralizes service-level error values so that they can be consistently
// returned by service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import "errors"

// ErrPetNotFound indicates that the requested pet does not exist.
var ErrPetNotFound = errors.New("pet not found")
