package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Locale
	}{
		{"ro", RO},
		{"EN", EN},
		{" en ", EN},
		{"ru", RU},
		{"", RU},
		{"de", RU},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.in))
		})
	}
}

func TestSecondary(t *testing.T) {
	assert.False(t, RU.Secondary())
	assert.True(t, RO.Secondary())
	assert.True(t, EN.Secondary())
}

func TestT(t *testing.T) {
	assert.Equal(t, "Blog", T(EN, "nav.blog"))
	assert.Equal(t, "Блог", T(RU, "nav.blog"))
	assert.Equal(t, "missing.key", T(EN, "missing.key"))
	assert.Equal(t, "Главная", T(Locale("xx"), "nav.home"))
}
