package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the root of every caller error. Handlers map it to 400.
var ErrInvalidInput = errors.New("invalid input")

var (
	ErrInvalidCoordinate = fmt.Errorf("%w: invalid coordinate", ErrInvalidInput)
	ErrInvalidDistance   = fmt.Errorf("%w: invalid distance", ErrInvalidInput)
	ErrInvalidSpeed      = fmt.Errorf("%w: invalid speed", ErrInvalidInput)
)

// ErrNotFound marks lookups that legitimately produced nothing. Handlers map
// it to 404.
var ErrNotFound = errors.New("not found")

var (
	ErrRegionUnsupported = fmt.Errorf("%w: region has no library directory code", ErrNotFound)
	ErrNoFacilities      = fmt.Errorf("%w: no library with usable coordinates", ErrNotFound)
)

// ErrSearchTimeout marks a path search cut off by its own time budget rather
// than by the caller or an upstream deadline.
var ErrSearchTimeout = errors.New("route search timed out")
