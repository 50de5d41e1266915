// Package fits provides a pure Go implementation for reading FITS files.
package fits

import "errors"

// Common errors
var (
	ErrNotFound          = errors.New("hdu not found")
	ErrClosed            = errors.New("archive is closed")
	ErrMissingKeyword    = errors.New("missing required header keyword")
	ErrUnsupportedBitpix = errors.New("unsupported BITPIX value")
)
