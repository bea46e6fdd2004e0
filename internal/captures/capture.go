// Package captures stores viewer screenshots of clashes as PNG blobs keyed
// by clash id.
package captures

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ContentType is the media type of every stored capture.
const ContentType = "image/png"

// DefaultMaxSize bounds a decoded capture when no limit is configured.
const DefaultMaxSize = 10 * 1024 * 1024

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

var validate = validator.New()

// Capture describes a stored clash screenshot.
type Capture struct {
	ClashID     string    `json:"clash_id"`
	Key         string    `json:"key"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	SavedAt     time.Time `json:"saved_at"`
}

// SaveCommand carries a screenshot encoded as a data URL
// ("data:image/png;base64,...") or as bare base64.
type SaveCommand struct {
	ClashID      string `json:"clash_id" validate:"required,max=128,excludesall=/\\"`
	ImageDataURL string `json:"image_data_url" validate:"required"`
}

// Key returns the storage key for a clash capture.
func Key(clashID string) string {
	return fmt.Sprintf("captures/%s.png", clashID)
}

// DecodeDataURL extracts the PNG bytes from a data URL or bare base64 text.
func DecodeDataURL(s string) ([]byte, error) {
	payload := strings.TrimSpace(s)
	if _, after, ok := strings.Cut(payload, "base64,"); ok {
		payload = after
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: image is not valid base64: %v", ErrInvalid, err)
	}
	if !bytes.HasPrefix(data, pngSignature) {
		return nil, fmt.Errorf("%w: image is not a PNG", ErrInvalid)
	}
	return data, nil
}

func validateClashID(clashID string) error {
	if err := validate.Var(clashID, "required,max=128,excludesall=/\\"); err != nil {
		return fmt.Errorf("%w: clash_id: %v", ErrInvalid, err)
	}
	if strings.Contains(clashID, "..") {
		return fmt.Errorf("%w: clash_id contains a path segment", ErrInvalid)
	}
	return nil
}
