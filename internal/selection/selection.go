package selection

import "kobi/internal/buffer"

// Selection is an anchor/active pair. The pair is kept in the order the user
// made it; Range normalizes on demand so the anchor survives reversal.
type Selection struct {
	Anchor     buffer.Position // where the selection started
	Active     buffer.Position // moving end, follows the cursor
	IsSelected bool            // true if selection is active
}

func (this *Selection) Start(at buffer.Position) {
	this.Anchor, this.Active = at, at
	this.IsSelected = true
}

func (this *Selection) Extend(to buffer.Position) {
	if !this.IsSelected { this.Start(to); return }
	this.Active = to
}

func (this *Selection) CleanSelection() {
	this.IsSelected = false
	this.Anchor, this.Active = buffer.Position{}, buffer.Position{}
}

// Range returns the normalized span, ok is false when nothing is selected.
func (this *Selection) Range() (buffer.Range, bool) {
	if !this.IsSelectionNonEmpty() { return buffer.Range{}, false }
	return buffer.Range{Start: this.Anchor, End: this.Active}.Normalized(), true
}

func (this *Selection) IsSelectionNonEmpty() bool {
	return this.IsSelected && this.Anchor != this.Active
}

func (this *Selection) IsUnderSelection(x, y int) bool {
	r, ok := this.Range()
	if !ok { return false }
	return r.Contains(buffer.Position{Row: y, Col: x})
}

// Clamp re-validates both ends against b after a mutation.
func (this *Selection) Clamp(b *buffer.Buffer) {
	if !this.IsSelected { return }
	this.Anchor = b.Clamp(this.Anchor)
	this.Active = b.Clamp(this.Active)
}

// GetSelectedLines returns the rows touched by the selection, in order.
func (this *Selection) GetSelectedLines() []int {
	r, ok := this.Range()
	if !ok { return []int{} }
	lines := make([]int, 0, r.End.Row-r.Start.Row+1)
	for row := r.Start.Row; row <= r.End.Row; row++ {
		if row == r.End.Row && r.End.Col == 0 && row != r.Start.Row { break }
		lines = append(lines, row)
	}
	return lines
}
