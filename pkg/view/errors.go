package view

import "errors"

var (
	ErrNilResolver  = errors.New("view resolver is nil")
	ErrNilOpener    = errors.New("view opener is nil")
	ErrParseFailed  = errors.New("failed to parse template")
	ErrRenderFailed = errors.New("failed to render template")
	ErrPartialDepth = errors.New("partials nested too deeply")
)
