package viewresolver

import "errors"

var (
	// Configuration errors
	ErrInvalidFallbackChain = errors.New("invalid fallback chain")
	ErrNilStore             = errors.New("store is nil")
	ErrInvalidSearchPath    = errors.New("invalid search path")

	// Lookup errors
	ErrNoFormats        = errors.New("lookup has no formats")
	ErrTemplateNotFound = errors.New("template not found")

	// Backing store errors, wrapped around the underlying cause
	ErrSearchFailed     = errors.New("template search failed")
	ErrOpenFailed       = errors.New("failed to open template")
	ErrAccessDenied     = errors.New("access denied")
	ErrBucketNotFound   = errors.New("bucket not found")
	ErrStoreUnavailable = errors.New("template store temporarily unavailable")
)
