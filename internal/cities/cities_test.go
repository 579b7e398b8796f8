package cities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByCode(t *testing.T) {
	c, ok := ByCode("THR")
	require.True(t, ok)
	assert.Equal(t, "Tehran", c.NameEN)

	c, ok = ByCode(" syz ")
	require.True(t, ok, "codes are case-insensitive and trimmed")
	assert.Equal(t, "SYZ", c.Code)

	_, ok = ByCode("XXX")
	assert.False(t, ok)
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name  string
		query string
		code  string
		ok    bool
	}{
		{"exact code", "MHD", "MHD", true},
		{"lowercase code", "kih", "KIH", true},
		{"exact english name", "Mashhad", "MHD", true},
		{"exact farsi name", "تهران", "THR", true},
		{"typo in english name", "tehrn", "THR", true},
		{"typo in farsi name", "تهرا", "THR", true},
		{"missing letter", "shirz", "SYZ", true},
		{"padded input", "  Yazd  ", "YZD", true},
		{"unknown city", "london", "", false},
		{"gibberish", "qqqq", "", false},
		{"empty", "", "", false},
		{"whitespace only", "   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := Match(tt.query)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.code, c.Code)
			}
		})
	}
}

func TestName(t *testing.T) {
	c, ok := ByCode("SYZ")
	require.True(t, ok)

	assert.Equal(t, "Shiraz", c.Name("en"))
	assert.Equal(t, "شیراز", c.Name("fa"))
	assert.Equal(t, "شیراز", c.Name("de"), "unknown locales fall back to Farsi")
}

func TestAllIsACopy(t *testing.T) {
	first := All()
	first[0].Code = "ZZZ"

	again := All()
	assert.Equal(t, "THR", again[0].Code, "mutating the returned slice must not touch the directory")
	assert.Len(t, again, 10)
}
