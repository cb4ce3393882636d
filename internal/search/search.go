package search

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"kobi/internal/buffer"
	. "kobi/internal/logger"
)

/*  strings.Index() in Go's standard library is optimized well enough
    that a plain scan over the whole document is fast for files an
    interactive editor opens; matches are recomputed instead of patched.
*/

// Source is the text being searched. Version must change whenever Text does.
type Source interface {
	Text() string
	Version() uint64
}

type SearchResult struct {
	Offset   int             // rune offset, line breaks count as one
	Position buffer.Position // same location as row/col
}

// Search returns every occurrence of pattern in text, overlapping ones
// included, ordered by ascending offset. Matching is case-sensitive.
func Search(text string, pattern string) []SearchResult {
	results := []SearchResult{}
	if len(pattern) == 0 || len(text) == 0 { return results }

	var offset, row, col int
	at, from := 0, 0
	for {
		i := strings.Index(text[from:], pattern)
		if i == -1 { break }
		pos := from + i

		for _, r := range text[at:pos] {
			offset++
			if r == '\n' { row++; col = 0 } else { col++ }
		}
		at = pos

		results = append(results, SearchResult{Offset: offset, Position: buffer.Position{Row: row, Col: col}})
		_, size := utf8.DecodeRuneInString(text[pos:])
		from = pos + size
	}
	return results
}

// Engine keeps the match list for one query and recomputes it whenever the
// source changes, so results from an older text are never handed out.
type Engine struct {
	src     Source
	query   string
	results []SearchResult
	current int
	version uint64
	fresh   bool
}

func NewEngine(src Source) *Engine {
	return &Engine{src: src, current: -1}
}

func (e *Engine) SetQuery(query string) {
	e.query = query
	e.fresh = false
	e.refresh()
}

func (e *Engine) Query() string { return e.query }

func (e *Engine) Clear() { e.SetQuery("") }

func (e *Engine) refresh() {
	if e.fresh && e.version == e.src.Version() { return }

	start := time.Now()
	e.results = Search(e.src.Text(), e.query)
	e.version = e.src.Version()
	e.current = -1
	e.fresh = true
	if e.query != "" {
		Log.Info("search", e.query, "done, elapsed:", time.Since(start).String())
	}
}

// Next moves to the first match past cursorOffset, wrapping to the first
// match of the document when none is left.
func (e *Engine) Next(cursorOffset int) (buffer.Position, bool) {
	return e.seek(cursorOffset + 1)
}

// NextFrom is like Next but accepts a match starting exactly at offset.
func (e *Engine) NextFrom(offset int) (buffer.Position, bool) {
	return e.seek(offset)
}

func (e *Engine) seek(offset int) (buffer.Position, bool) {
	e.refresh()
	if len(e.results) == 0 { return buffer.Position{}, false }

	i := sort.Search(len(e.results), func(i int) bool { return e.results[i].Offset >= offset })
	if i == len(e.results) { i = 0 }
	e.current = i
	return e.results[i].Position, true
}

// Current returns the match selected by the last Next, if it is still valid.
func (e *Engine) Current() (buffer.Position, bool) {
	e.refresh()
	if e.current < 0 { return buffer.Position{}, false }
	return e.results[e.current].Position, true
}

// Index is the 1-based number of the current match, 0 when there is none.
func (e *Engine) Index() int {
	e.refresh()
	return e.current + 1
}

func (e *Engine) Count() int {
	e.refresh()
	return len(e.results)
}

func (e *Engine) Matches() []SearchResult {
	e.refresh()
	return append([]SearchResult(nil), e.results...)
}

// MatchesInLine returns the columns of matches that start on row.
func (e *Engine) MatchesInLine(row int) []int {
	e.refresh()
	i := sort.Search(len(e.results), func(i int) bool { return e.results[i].Position.Row >= row })
	cols := []int{}
	for ; i < len(e.results) && e.results[i].Position.Row == row; i++ {
		cols = append(cols, e.results[i].Position.Col)
	}
	return cols
}

// QueryLength is the query length in runes.
func (e *Engine) QueryLength() int { return utf8.RuneCountInString(e.query) }
