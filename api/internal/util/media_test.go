package util

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBase64MaybeDataURL(t *testing.T) {
	payload := []byte("\x00\x00\x00\x18ftypmp42")
	std := base64.StdEncoding.EncodeToString(payload)

	t.Run("plain", func(t *testing.T) {
		b, hint, err := DecodeBase64MaybeDataURL(std)
		require.NoError(t, err)
		assert.Equal(t, payload, b)
		assert.Empty(t, hint)
	})

	t.Run("data_uri", func(t *testing.T) {
		b, hint, err := DecodeBase64MaybeDataURL("data:video/webm;base64," + std)
		require.NoError(t, err)
		assert.Equal(t, payload, b)
		assert.Equal(t, "video/webm", hint)
	})

	t.Run("url_safe_unpadded", func(t *testing.T) {
		b, _, err := DecodeBase64MaybeDataURL(base64.RawURLEncoding.EncodeToString([]byte{0xfb, 0xff}))
		require.NoError(t, err)
		assert.Equal(t, []byte{0xfb, 0xff}, b)
	})

	t.Run("empty", func(t *testing.T) {
		_, _, err := DecodeBase64MaybeDataURL("   ")
		assert.ErrorIs(t, err, ErrEmptyMedia)

		_, _, err = DecodeBase64MaybeDataURL("data:video/mp4;base64,")
		assert.ErrorIs(t, err, ErrEmptyMedia)
	})

	t.Run("garbage", func(t *testing.T) {
		_, _, err := DecodeBase64MaybeDataURL("not base64 at all!")
		assert.Error(t, err)
	})
}

func TestPickMIME(t *testing.T) {
	assert.Equal(t, "audio/mp3", PickMIME(" audio/mp3 ", "video/webm", "video/mp4"))
	assert.Equal(t, "video/webm", PickMIME("", "video/webm", "video/mp4"))
	assert.Equal(t, "video/mp4", PickMIME("", "", "video/mp4"))
}
