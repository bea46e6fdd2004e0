// Package decode turns downloaded resource blobs into structured data.
// Blobs may be gzip-compressed or plain UTF-8 JSON, optionally prefixed
// with a byte-order mark.
package decode

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	utf8BOM   = []byte{0xef, 0xbb, 0xbf}
)

// IsGzip reports whether data starts with the gzip magic number.
func IsGzip(data []byte) bool {
	return bytes.HasPrefix(data, gzipMagic)
}

// Text returns the UTF-8 payload of data, decompressing gzip content
// and stripping a leading byte-order mark.
func Text(data []byte) ([]byte, error) {
	if IsGzip(data) {
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecompress, err)
		}
		defer zr.Close()

		raw, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecompress, err)
		}
		data = raw
	}

	return bytes.TrimPrefix(data, utf8BOM), nil
}

// Into decodes data into v.
func Into(data []byte, v any) error {
	text, err := Text(data)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(text, v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return nil
}

// Decode returns the generic structured form of data.
func Decode(data []byte) (any, error) {
	var v any
	if err := Into(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
