package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCodeFences(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}\n```\n":   `{"a":1}`,
		"  {\"a\":1}  ":           `{"a":1}`,
		"no fences":               "no fences",
	}
	for in, want := range cases {
		assert.Equal(t, want, StripCodeFences(in), "input %q", in)
	}
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "****", MaskSecret("abc"))
	assert.Equal(t, "****wxyz", MaskSecret("AIzaSy-secret-wxyz"))
}

func TestClampRunes(t *testing.T) {
	assert.Equal(t, "héll", ClampRunes("héllo", 4))
	assert.Equal(t, "hi", ClampRunes("hi", 4))
}
