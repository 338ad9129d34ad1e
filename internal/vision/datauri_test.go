package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDataURI(t *testing.T) {
	raw := EncodeDataURI("image/jpeg", []byte{0xff, 0xd8, 0xff})

	img, err := ParseDataURI(raw)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.MIMEType)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, img.Data)
	assert.Equal(t, raw, img.Raw)
}

func TestParseDataURIWithParams(t *testing.T) {
	img, err := ParseDataURI("data:image/PNG;name=lunch.png;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIMEType)
	assert.Equal(t, "hello", string(img.Data))
}

func TestParseDataURIRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":       "",
		"no prefix":   "image/png;base64,aGVsbG8=",
		"no comma":    "data:image/png;base64",
		"not base64":  "data:image/png,hello",
		"no mime":     "data:;base64,aGVsbG8=",
		"bad payload": "data:image/png;base64,***",
		"no payload":  "data:image/png;base64,",
		"http url":    "https://example.com/pizza.jpg",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDataURI(in)
			assert.ErrorIs(t, err, ErrInvalidImage)
		})
	}
}
