// Package handlers defines the error codes shown on error pages and logged
// with failed requests. Codes are lowercase snake_case and stable, so log
// queries can branch on them.
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"

	// Domain-specific:
	ErrCodeListFailed   = "list_failed"
	ErrCodeLoadFailed   = "load_failed"
	ErrCodeCreateFailed = "create_failed"
	ErrCodeUpdateFailed = "update_failed"
)
