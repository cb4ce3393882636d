package highlighter

import (
	"time"

	. "kobi/internal/logger"

	"github.com/alecthomas/chroma"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/styles"
	"github.com/gdamore/tcell"
)

// Highlighter maps chroma tokens to terminal colors for one theme.
type Highlighter struct {
	style *chroma.Style
}

func New(theme string) *Highlighter {
	h := &Highlighter{}
	h.SetTheme(theme)
	return h
}

// SetTheme switches to a registered chroma style; unknown names fall back
// to chroma's default style.
func (h *Highlighter) SetTheme(name string) {
	h.style = styles.Get(name)
	Log.Info("theme", h.style.Name)
}

func (h *Highlighter) Theme() string { return h.style.Name }

// Accent is the keyword color of the theme, used for the editor chrome.
func (h *Highlighter) Accent() tcell.Color { return h.color(chroma.Keyword) }

func (h *Highlighter) color(t chroma.TokenType) tcell.Color {
	colour := h.style.Get(t).Colour
	if !colour.IsSet() { return tcell.ColorDefault }
	return tcell.GetColor(colour.String())
}

// Lexer colors documents of one language.
type Lexer struct {
	lexer chroma.Lexer
	h     *Highlighter
}

// Lookup picks a lexer by file name, then by content. No lexer is not an
// error; the document is shown without colors.
func (h *Highlighter) Lookup(filename, content string) (*Lexer, bool) {
	lexer := lexers.Match(filename)
	if lexer == nil { lexer = lexers.Analyse(content) }
	if lexer == nil { return nil, false }
	return &Lexer{lexer: chroma.Coalesce(lexer), h: h}, true
}

func (l *Lexer) Name() string {
	config := l.lexer.Config()
	if config == nil { return "" }
	return config.Name
}

// Colorize returns one color per rune for every line of code. Lines may be
// shorter than the text when the lexer fails; callers treat missing entries
// as the default color.
func (l *Lexer) Colorize(code string) [][]tcell.Color {
	if code == "" { return [][]tcell.Color{nil} }

	start := time.Now()
	iterator, err := l.lexer.Tokenise(nil, code)
	if err != nil {
		Log.Error("tokenization error:", err.Error())
		return [][]tcell.Color{nil}
	}

	tokensIntoLines := chroma.SplitTokensIntoLines(iterator.Tokens())
	textColors := make([][]tcell.Color, 0, len(tokensIntoLines))
	for _, tokens := range tokensIntoLines {
		lineColors := []tcell.Color{}
		for _, token := range tokens {
			color := l.h.color(token.Type)
			for _, ch := range token.Value {
				if ch == '\n' { continue }
				lineColors = append(lineColors, color)
			}
		}
		textColors = append(textColors, lineColors)
	}

	Log.Info("colorize", l.Name(), "elapsed:", time.Since(start).String())
	return textColors
}
