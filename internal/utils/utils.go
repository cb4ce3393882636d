package utils

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

func Max(x, y int) int {
	if x < y {
		return y
	}
	return x
}

func Min(x, y int) int {
	if x <= y {
		return x
	}
	return y
}

// Clamp bounds v to [lo, hi]. hi wins when lo > hi.
func Clamp(v, lo, hi int) int {
	if v < lo { v = lo }
	if v > hi { v = hi }
	return v
}

// InsertAt inserts values into a at index, growing the slice as needed.
func InsertAt[T any](a []T, index int, values ...T) []T {
	if len(values) == 0 { return a }
	out := make([]T, 0, len(a)+len(values))
	out = append(out, a[:index]...)
	out = append(out, values...)
	out = append(out, a[index:]...)
	return out
}

// RemoveRange removes a[from:to] and returns the shortened slice.
func RemoveRange[T any](a []T, from, to int) []T {
	if from == to { return a }
	return append(a[:from], a[to:]...)
}

var matched = []rune{
	' ', '.', ',', '=', '+', '-', '[', '(', '{', ']', ')', '}', '"', ':', '&', '?', '!', ';', '\t',
	'/', '<', '>', '\'', '*',
}

func IsWordSeparator(ch rune) bool { return Contains(matched, ch) }

// FindNextWord returns the index of the next word boundary at or after from.
// Separators directly under from are skipped first so repeated calls advance.
func FindNextWord(chars []rune, from int) int {
	i := from
	for i < len(chars) && IsWordSeparator(chars[i]) { i++ }
	for i < len(chars) && !IsWordSeparator(chars[i]) { i++ }
	return i
}

// FindPrevWord returns the start of the word before from.
func FindPrevWord(chars []rune, from int) int {
	i := from
	for i > 0 && IsWordSeparator(chars[i-1]) { i-- }
	for i > 0 && !IsWordSeparator(chars[i-1]) { i-- }
	return i
}

func Contains[T comparable](slice []T, e T) bool {
	for _, val := range slice {
		if val == e {
			return true
		}
	}
	return false
}

// LeadingWhitespace returns the run of spaces and tabs that starts line.
func LeadingWhitespace(line []rune) []rune {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') { n++ }
	return line[:n]
}

func PadLeft(str string, length int) string {
	format := fmt.Sprintf("%%%ds", length)
	return fmt.Sprintf(format, str)
}

// Digits returns how many decimal digits n has.
func Digits(n int) int {
	d := 1
	for n >= 10 {
		n /= 10
		d++
	}
	return d
}

// CellWidth is how many terminal cells ch takes when drawn at display
// column at. Tabs stop every tabWidth cells, unprintable runes take one.
func CellWidth(ch rune, at int, tabWidth int) int {
	if ch == '\t' {
		if tabWidth <= 0 { tabWidth = 1 }
		return tabWidth - at%tabWidth
	}
	if w := runewidth.RuneWidth(ch); w > 0 { return w }
	return 1
}

// DisplayWidth is the number of cells chars takes from column 0.
func DisplayWidth(chars []rune, tabWidth int) int {
	w := 0
	for _, ch := range chars {
		w += CellWidth(ch, w, tabWidth)
	}
	return w
}
