package chainsource

import "errors"

var (
	ErrNilSource     = errors.New("chain source is nil")
	ErrEmptySource   = errors.New("chain source holds no chains")
	ErrInvalidChains = errors.New("invalid fallback chains document")
	ErrLoadFailed    = errors.New("failed to load fallback chains")
)
