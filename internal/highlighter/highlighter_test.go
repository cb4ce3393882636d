package highlighter

import (
	"testing"

	"github.com/gdamore/tcell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	h := New("kobi")

	lexer, ok := h.Lookup("main.go", "")
	require.True(t, ok)
	assert.Equal(t, "Go", lexer.Name())

	_, ok = h.Lookup("notes.zzz", "")
	assert.False(t, ok)
}

func TestColorizeOneColorPerRune(t *testing.T) {
	h := New("kobi")
	lexer, ok := h.Lookup("main.go", "")
	require.True(t, ok)

	colors := lexer.Colorize("package main\n\nfunc main() {}\n")
	require.GreaterOrEqual(t, len(colors), 3)
	assert.Len(t, colors[0], len("package main"))
	assert.Len(t, colors[1], 0)
	assert.Len(t, colors[2], len("func main() {}"))

	keyword := tcell.GetColor("#ff69b4")
	for i := 0; i < len("package"); i++ {
		assert.Equal(t, keyword, colors[0][i])
	}
}

func TestColorizeEmpty(t *testing.T) {
	h := New("kobi")
	lexer, _ := h.Lookup("main.go", "")
	assert.Equal(t, [][]tcell.Color{nil}, lexer.Colorize(""))
}

func TestSetTheme(t *testing.T) {
	h := New("kobi")
	assert.Equal(t, "kobi", h.Theme())
	assert.Equal(t, tcell.GetColor("#ff69b4"), h.Accent())

	h.SetTheme("kobi-light")
	assert.Equal(t, "kobi-light", h.Theme())

	h.SetTheme("no-such-theme")
	assert.NotEmpty(t, h.Theme())
}
