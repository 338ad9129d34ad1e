package vision

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidImage = errors.New("invalid image data URI")

// DataURI is a parsed "data:<mimetype>;base64,<data>" image.
type DataURI struct {
	MIMEType string
	Data     []byte
	// Raw is the original string, passed through untouched to providers that
	// accept data URIs directly and to stored scans.
	Raw string
}

func ParseDataURI(s string) (*DataURI, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, fmt.Errorf("%w: missing data: prefix", ErrInvalidImage)
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("%w: missing payload separator", ErrInvalidImage)
	}

	params := strings.Split(header, ";")
	mimeType := strings.TrimSpace(params[0])
	if len(params) < 2 || params[len(params)-1] != "base64" {
		return nil, fmt.Errorf("%w: payload must be base64 encoded", ErrInvalidImage)
	}
	if !strings.Contains(mimeType, "/") {
		return nil, fmt.Errorf("%w: bad mime type %q", ErrInvalidImage, mimeType)
	}
	if payload == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	return &DataURI{
		MIMEType: strings.ToLower(mimeType),
		Data:     data,
		Raw:      s,
	}, nil
}

func EncodeDataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
