package field

import "errors"

var (
	// ErrSurfaceUnavailable is logged when the drawing surface cannot be
	// created. The renderer keeps running and draws nothing.
	ErrSurfaceUnavailable = errors.New("field: drawing surface unavailable")

	// ErrMounted is returned by Mount on a renderer that is already mounted.
	ErrMounted = errors.New("field: renderer already mounted")
)
