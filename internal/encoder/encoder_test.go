package encoder

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m2tx/kinchat/internal/model"
)

func TestEncode_RoundTrip(t *testing.T) {
	random := make([]byte, 4096)
	_, err := rand.Read(random)
	require.NoError(t, err)

	payloads := map[string][]byte{
		"empty":  {},
		"ascii":  []byte("hello world"),
		"binary": {0x00, 0xff, 0x10, 0x80, 0x7f},
		"random": random,
	}

	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			part := Encode(payload, "application/octet-stream")

			require.True(t, part.IsBinary())
			assert.Empty(t, part.Text)
			assert.Equal(t, "application/octet-stream", part.InlineData.MimeType)

			decoded, err := part.Bytes()
			require.NoError(t, err)
			assert.Equal(t, len(payload), len(decoded))
			assert.Equal(t, string(payload), string(decoded))
		})
	}
}

func TestEncode_SameForEveryModality(t *testing.T) {
	payload := []byte{1, 2, 3}

	image := Encode(payload, "image/png")
	audio := Encode(payload, "audio/mpeg")

	assert.Equal(t, image.InlineData.Data, audio.InlineData.Data)
	assert.Equal(t, "AQID", image.InlineData.Data)
}

func TestEncodeText(t *testing.T) {
	part := EncodeText("  Describe the image\n")

	assert.False(t, part.IsBinary())
	assert.Equal(t, "  Describe the image\n", part.Text)

	parts := []model.Part{part, Encode([]byte("x"), "image/jpeg")}
	assert.NoError(t, model.ValidateParts(parts))
}
