package decode

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode is the parent of every decoding failure.
	ErrDecode = errors.New("decode resource")
	// ErrDecompress indicates gzip content that could not be inflated.
	ErrDecompress = fmt.Errorf("%w: decompress", ErrDecode)
	// ErrMalformed indicates text that is not valid JSON.
	ErrMalformed = fmt.Errorf("%w: malformed content", ErrDecode)
)
