package apperr

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrNoProfiles = errors.New("no profiles found")
)
