package buffer

import "fmt"

// Position is a row/column coordinate into a Buffer. Columns count runes.
type Position struct {
	Row int
	Col int
}

func (p Position) Less(o Position) bool {
	if p.Row != o.Row { return p.Row < o.Row }
	return p.Col < o.Col
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Row, p.Col) }

// Range is a half-open span [Start, End).
type Range struct {
	Start Position
	End   Position
}

// Normalized returns r with Start <= End.
func (r Range) Normalized() Range {
	if r.End.Less(r.Start) {
		return Range{Start: r.End, End: r.Start}
	}
	return r
}

func (r Range) IsEmpty() bool { return r.Start == r.End }

// Contains reports whether p lies inside the normalized range.
func (r Range) Contains(p Position) bool {
	n := r.Normalized()
	return !p.Less(n.Start) && p.Less(n.End)
}

func (r Range) String() string { return fmt.Sprintf("[%v, %v)", r.Start, r.End) }
