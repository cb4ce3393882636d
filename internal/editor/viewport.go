package editor

import . "kobi/internal/utils"

// Viewport is the visible window onto the document: Top is the first row
// shown, Left the first display column.
type Viewport struct {
	Top    int
	Left   int
	Width  int
	Height int
}

// Follow scrolls the least amount needed to show row at display column col.
func (v *Viewport) Follow(row, col int) {
	if v.Height > 0 {
		if row < v.Top { v.Top = row }
		if row >= v.Top+v.Height { v.Top = row - v.Height + 1 }
	}
	if v.Width > 0 {
		if col < v.Left { v.Left = col }
		if col >= v.Left+v.Width { v.Left = col - v.Width + 1 }
	}
	v.Top = Max(v.Top, 0)
	v.Left = Max(v.Left, 0)
}

// Scroll moves the view by delta rows without moving the cursor.
func (v *Viewport) Scroll(delta, lineCount int) {
	v.Top = Clamp(v.Top+delta, 0, Max(lineCount-1, 0))
}

func (v *Viewport) Visible(row int) bool {
	return row >= v.Top && row < v.Top+v.Height
}
