package advisor

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageBytes bounds a decoded photo. Gemini rejects larger inline requests.
const MaxImageBytes = 8 << 20

// ErrInvalidImage is wrapped by every photo decoding failure.
var ErrInvalidImage = errors.New("advisor: invalid image")

// Image is a photo sent inline with a prompt.
type Image struct {
	MIMEType string
	Data     []byte
}

// ParseDataURI decodes "data:<mimetype>;base64,<data>". The declared type must
// be an image type, and so must the type sniffed from the decoded bytes. The
// sniffed type is the one kept.
func ParseDataURI(uri string) (Image, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(uri), "data:")
	if !ok {
		return Image{}, fmt.Errorf("%w: not a data URI", ErrInvalidImage)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Image{}, fmt.Errorf("%w: missing data", ErrInvalidImage)
	}

	declared, encoding, _ := strings.Cut(meta, ";")
	if !strings.EqualFold(encoding, "base64") {
		return Image{}, fmt.Errorf("%w: data must be base64 encoded", ErrInvalidImage)
	}
	if !strings.HasPrefix(strings.ToLower(declared), "image/") {
		return Image{}, fmt.Errorf("%w: unsupported type %q", ErrInvalidImage, declared)
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageBytes {
		return Image{}, fmt.Errorf("%w: larger than %d bytes", ErrInvalidImage, MaxImageBytes)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return Image{}, fmt.Errorf("%w: empty image", ErrInvalidImage)
	}

	detected := mimetype.Detect(data)
	if !strings.HasPrefix(detected.String(), "image/") {
		return Image{}, fmt.Errorf("%w: content is %s", ErrInvalidImage, detected.String())
	}
	return Image{MIMEType: detected.String(), Data: data}, nil
}
