package naming_test

import (
	"errors"
	"testing"

	"github.com/sgaunet/tilefill/pkg/naming"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	vars := naming.Vars{
		Level:     3,
		FileID:    "0f8e2a",
		Width:     8000,
		Height:    3500,
		Timestamp: 1700000000123,
	}
	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"escape and placeholder", "a%%b%(level)d.tile", "a%b3.tile"},
		{"default template", "k%(level)d-%(file_id)s.tile", "k3-0f8e2a.tile"},
		{"all variables", "%(level)d_%(file_id)s_%(width)dx%(height)d_%(timestamp)d", "3_0f8e2a_8000x3500_1700000000123"},
		{"no placeholder", "plain.bin", "plain.bin"},
		{"empty", "", ""},
		{"only escape", "%%", "%"},
		{"double escape", "%%%%(level)d", "%%(level)d"},
		{"escape before placeholder", "%%%(level)d", "%3"},
		{"integer as string", "%(width)s", "8000"},
		{"i verb", "%(height)i", "3500"},
		{"zero padding", "k%(level)03d", "k003"},
		{"space padding", "[%(level)4d]", "[   3]"},
		{"left align", "[%(level)-4d]", "[3   ]"},
		{"zero flag ignored for strings", "[%(file_id)08s]", "[  0f8e2a]"},
		{"width smaller than value", "%(width)2d", "8000"},
		{"repeated variable", "%(level)d-%(level)d", "3-3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := naming.Render(tt.template, vars)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderNegativeZeroPad(t *testing.T) {
	got, err := naming.Render("%(level)04d", naming.Vars{Level: -7})
	require.NoError(t, err)
	assert.Equal(t, "-007", got)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		template string
	}{
		{"unknown variable", "k%(depth)d.tile"},
		{"trailing percent", "file%"},
		{"positional format", "file%d"},
		{"unterminated name", "k%(level"},
		{"missing verb", "k%(level)"},
		{"missing verb after width", "k%(level)03"},
		{"unsupported verb", "k%(level)x"},
		{"number format on file id", "%(file_id)d"},
		{"empty name", "%()s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := naming.Parse(tt.template)
			require.Error(t, err)
			assert.ErrorIs(t, err, naming.ErrTemplate)
			var terr *naming.TemplateError
			require.True(t, errors.As(err, &terr))
			assert.Equal(t, tt.template, terr.Template)
		})
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	tmpl := naming.MustParse("k%(level)d-%(file_id)s-%(timestamp)d.tile")
	vars := naming.Vars{Level: 1, FileID: "abc", Timestamp: 5}
	first := tmpl.Render(vars)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, tmpl.Render(vars))
	}
}

func TestVariables(t *testing.T) {
	tmpl := naming.MustParse("k%(level)d-%(file_id)s-%(width)d.tile")
	assert.Equal(t, []string{"level", "file_id", "width"}, tmpl.Variables())
	assert.True(t, tmpl.UsesFileID())
	assert.False(t, naming.MustParse("k%(level)d.tile").UsesFileID())
	assert.Equal(t, "k%(level)d.tile", naming.MustParse("k%(level)d.tile").String())
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { naming.MustParse("%(nope)s") })
}
