package buffer

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrInvalidPosition = errors.New("invalid position")
	ErrInvalidRange    = errors.New("invalid range")
)

// Buffer holds document text as lines of runes. There is always at least
// one line and no line contains a line terminator.
type Buffer struct {
	lines   [][]rune
	version uint64
}

func New(text string) *Buffer {
	return &Buffer{lines: splitLines(text)}
}

// NormalizeNewlines turns "\r\n" and lone "\r" into "\n".
func NormalizeNewlines(text string) string {
	if !strings.Contains(text, "\r") { return text }
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

func splitLines(text string) [][]rune {
	parts := strings.Split(NormalizeNewlines(text), "\n")
	lines := make([][]rune, len(parts))
	for i, part := range parts {
		lines[i] = []rune(part)
	}
	return lines
}

func (b *Buffer) Text() string {
	var sb strings.Builder
	for i, line := range b.lines {
		if i > 0 { sb.WriteByte('\n') }
		sb.WriteString(string(line))
	}
	return sb.String()
}

// Version increases on every mutation.
func (b *Buffer) Version() uint64 { return b.version }

func (b *Buffer) LineCount() int { return len(b.lines) }

// LineLength returns the rune length of row, or 0 when row does not exist.
func (b *Buffer) LineLength(row int) int {
	if row < 0 || row >= len(b.lines) { return 0 }
	return len(b.lines[row])
}

// Line returns the text of row, or "" when row does not exist.
func (b *Buffer) Line(row int) string {
	if row < 0 || row >= len(b.lines) { return "" }
	return string(b.lines[row])
}

// Runes returns a copy of row.
func (b *Buffer) Runes(row int) []rune {
	if row < 0 || row >= len(b.lines) { return nil }
	return append([]rune(nil), b.lines[row]...)
}

// Len is the document length in offset units: runes plus one per line break.
func (b *Buffer) Len() int {
	n := len(b.lines) - 1
	for _, line := range b.lines {
		n += len(line)
	}
	return n
}

func (b *Buffer) Valid(p Position) bool {
	return p.Row >= 0 && p.Row < len(b.lines) && p.Col >= 0 && p.Col <= len(b.lines[p.Row])
}

// Clamp moves p to the nearest valid position.
func (b *Buffer) Clamp(p Position) Position {
	if p.Row < 0 { return Position{} }
	if p.Row >= len(b.lines) { return b.End() }
	if p.Col < 0 { p.Col = 0 }
	if p.Col > len(b.lines[p.Row]) { p.Col = len(b.lines[p.Row]) }
	return p
}

// End is the position after the last rune of the document.
func (b *Buffer) End() Position {
	last := len(b.lines) - 1
	return Position{Row: last, Col: len(b.lines[last])}
}

func (b *Buffer) checkRange(r Range) error {
	if !b.Valid(r.Start) || !b.Valid(r.End) || r.End.Less(r.Start) {
		return fmt.Errorf("%w: %v", ErrInvalidRange, r)
	}
	return nil
}

// Insert puts text at p and returns the position right after it.
func (b *Buffer) Insert(p Position, text string) (Position, error) {
	if !b.Valid(p) {
		return p, fmt.Errorf("%w: %v", ErrInvalidPosition, p)
	}
	if text == "" { return p, nil }

	parts := splitLines(text)
	line := b.lines[p.Row]
	last := len(parts) - 1
	end := Position{Row: p.Row + last, Col: len(parts[last])}
	if last == 0 { end.Col += p.Col }

	parts[0] = append(append([]rune(nil), line[:p.Col]...), parts[0]...)
	parts[last] = append(append([]rune(nil), parts[last]...), line[p.Col:]...)

	lines := make([][]rune, 0, len(b.lines)+last)
	lines = append(lines, b.lines[:p.Row]...)
	lines = append(lines, parts...)
	lines = append(lines, b.lines[p.Row+1:]...)
	b.lines = lines
	b.version++
	return end, nil
}

// Delete removes the half-open range r and returns the removed text.
func (b *Buffer) Delete(r Range) (string, error) {
	if err := b.checkRange(r); err != nil { return "", err }
	if r.IsEmpty() { return "", nil }

	removed := b.textOf(r)

	s, e := r.Start, r.End
	joined := make([]rune, 0, s.Col+len(b.lines[e.Row])-e.Col)
	joined = append(joined, b.lines[s.Row][:s.Col]...)
	joined = append(joined, b.lines[e.Row][e.Col:]...)

	lines := make([][]rune, 0, len(b.lines)-(e.Row-s.Row))
	lines = append(lines, b.lines[:s.Row]...)
	lines = append(lines, joined)
	lines = append(lines, b.lines[e.Row+1:]...)
	b.lines = lines
	b.version++
	return removed, nil
}

// TextOf returns the text inside r without modifying the buffer.
func (b *Buffer) TextOf(r Range) (string, error) {
	if err := b.checkRange(r); err != nil { return "", err }
	return b.textOf(r), nil
}

func (b *Buffer) textOf(r Range) string {
	s, e := r.Start, r.End
	if s.Row == e.Row {
		return string(b.lines[s.Row][s.Col:e.Col])
	}
	var sb strings.Builder
	sb.WriteString(string(b.lines[s.Row][s.Col:]))
	for row := s.Row + 1; row < e.Row; row++ {
		sb.WriteByte('\n')
		sb.WriteString(string(b.lines[row]))
	}
	sb.WriteByte('\n')
	sb.WriteString(string(b.lines[e.Row][:e.Col]))
	return sb.String()
}

// Offset maps p to a linear offset. A line break counts as one unit.
func (b *Buffer) Offset(p Position) (int, error) {
	if !b.Valid(p) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPosition, p)
	}
	offset := p.Col
	for row := 0; row < p.Row; row++ {
		offset += len(b.lines[row]) + 1
	}
	return offset, nil
}

// PositionAt is the inverse of Offset.
func (b *Buffer) PositionAt(offset int) (Position, error) {
	if offset < 0 {
		return Position{}, fmt.Errorf("%w: offset %d", ErrInvalidPosition, offset)
	}
	rest := offset
	for row, line := range b.lines {
		if rest <= len(line) {
			return Position{Row: row, Col: rest}, nil
		}
		rest -= len(line) + 1
	}
	return Position{}, fmt.Errorf("%w: offset %d beyond %d", ErrInvalidPosition, offset, b.Len())
}

// PositionAfter returns the position reached by walking text from p,
// without touching the buffer.
func PositionAfter(p Position, text string) Position {
	text = NormalizeNewlines(text)
	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		return Position{Row: p.Row + strings.Count(text, "\n"), Col: utf8.RuneCountInString(text[i+1:])}
	}
	return Position{Row: p.Row, Col: p.Col + utf8.RuneCountInString(text)}
}
