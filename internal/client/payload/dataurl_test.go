package payload

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDataURL(t *testing.T) {
	assert.Equal(t, "data:application/pdf;base64,JVBERg==", EncodeDataURL("application/pdf", []byte("%PDF")))
	assert.Equal(t, "data:application/octet-stream;base64,", EncodeDataURL("", nil))
}

func TestDataURL_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for _, size := range []int{0, 1, 2, 3, 4, 255, 1024, 64*1024 + 1} {
		content := make([]byte, size)
		_, _ = rng.Read(content)

		encoded := EncodeDataURL("image/png", content)
		mimeType, decoded, err := DecodeDataURL(encoded)

		require.NoError(t, err, "size %d", size)
		assert.Equal(t, "image/png", mimeType)
		assert.Equal(t, len(content), len(decoded))
		assert.True(t, string(content) == string(decoded), "size %d differs after round trip", size)
	}
}

func TestDecodeDataURL_Malformed(t *testing.T) {
	for _, in := range []string{
		"",
		"JVBERg==",
		"data:application/pdf;base64",
		"data:text/plain,hello",
		"data:application/pdf;base64,***",
	} {
		_, _, err := DecodeDataURL(in)
		require.ErrorIs(t, err, ErrMalformedDataURL, "input %q", in)
	}
}
