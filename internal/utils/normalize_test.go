package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"squash-courts/backend/internal/utils"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "Omar Hassan", utils.NormalizeName("  Omar \t  Hassan \n"))
	// "e" + combining acute composes to a single rune.
	assert.Equal(t, "Jos\u00e9", utils.NormalizeName("Jose\u0301"))
}

func TestNormalizePhone(t *testing.T) {
	tests := map[string]string{
		"0100 123 4567":    "01001234567",
		"+20 (100) 123-45": "+2010012345",
		"٠١٠٠١٢٣٤٥٦٧":      "01001234567",
		"۰۱۲":              "012",
		"０１２":              "012",
		"12+34":            "1234",
		"":                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, utils.NormalizePhone(in), in)
	}
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "cafe-racket-png", utils.Slugify("Café  Racket.png"))
	assert.Equal(t, "", utils.Slugify("   "))
	assert.Equal(t, "winter-open-2024", utils.Slugify("--Winter_Open 2024--"))
}

func TestTrimMax(t *testing.T) {
	assert.Equal(t, "abc", utils.TrimMax("  abcdef ", 3))
	assert.Equal(t, "مرح", utils.TrimMax("مرحبا", 3))
	assert.Equal(t, "ok", utils.TrimMax("ok", 10))
}
