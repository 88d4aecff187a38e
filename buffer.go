package canvasform

import "strings"

// Buffer is a 2D grid of cells representing a drawable surface.
// Rows written since the last ClearDirtyFlags are tracked so a Screen
// only has to diff the rows that changed.
type Buffer struct {
	cells  []Cell
	dirty  []bool
	width  int
	height int
}

// NewBuffer creates a new buffer with the given dimensions.
func NewBuffer(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	b := &Buffer{
		cells:  make([]Cell, width*height),
		dirty:  make([]bool, height),
		width:  width,
		height: height,
	}
	b.Clear()
	return b
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() (width, height int) {
	return b.width, b.height
}

// InBounds returns true if the given coordinates are within the buffer.
func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

func (b *Buffer) index(x, y int) int {
	return y*b.width + x
}

// Get returns the cell at the given coordinates.
// Returns an empty cell if out of bounds.
func (b *Buffer) Get(x, y int) Cell {
	if !b.InBounds(x, y) {
		return EmptyCell()
	}
	return b.cells[b.index(x, y)]
}

// Set sets the cell at the given coordinates.
// Does nothing if out of bounds.
func (b *Buffer) Set(x, y int, c Cell) {
	if !b.InBounds(x, y) {
		return
	}
	b.cells[b.index(x, y)] = c
	b.dirty[y] = true
}

// Fill fills the entire buffer with the given cell.
func (b *Buffer) Fill(c Cell) {
	for i := range b.cells {
		b.cells[i] = c
	}
	for y := range b.dirty {
		b.dirty[y] = true
	}
}

// Clear clears the buffer to empty cells with default style.
func (b *Buffer) Clear() {
	b.Fill(EmptyCell())
}

// FillRect fills a rectangular region with the given cell.
func (b *Buffer) FillRect(x, y, width, height int, c Cell) {
	for dy := 0; dy < height; dy++ {
		for dx := 0; dx < width; dx++ {
			b.Set(x+dx, y+dy, c)
		}
	}
}

// HLine draws a horizontal line of the given rune.
func (b *Buffer) HLine(x, y, length int, r rune, style Style) {
	for i := 0; i < length; i++ {
		b.Set(x+i, y, NewCell(r, style))
	}
}

// VLine draws a vertical line of the given rune.
func (b *Buffer) VLine(x, y, length int, r rune, style Style) {
	for i := 0; i < length; i++ {
		b.Set(x, y+i, NewCell(r, style))
	}
}

// Box drawing characters for borders.
const (
	BoxHorizontal  = '─'
	BoxVertical    = '│'
	BoxTopLeft     = '┌'
	BoxTopRight    = '┐'
	BoxBottomLeft  = '└'
	BoxBottomRight = '┘'
)

// DrawBorder draws a single-line border around the given rectangle.
// Rectangles narrower or shorter than two cells degrade to lines.
func (b *Buffer) DrawBorder(x, y, width, height int, style Style) {
	switch {
	case width <= 0 || height <= 0:
		return
	case height == 1:
		b.HLine(x, y, width, BoxHorizontal, style)
		return
	case width == 1:
		b.VLine(x, y, height, BoxVertical, style)
		return
	}

	b.Set(x, y, NewCell(BoxTopLeft, style))
	b.Set(x+width-1, y, NewCell(BoxTopRight, style))
	b.Set(x, y+height-1, NewCell(BoxBottomLeft, style))
	b.Set(x+width-1, y+height-1, NewCell(BoxBottomRight, style))

	b.HLine(x+1, y, width-2, BoxHorizontal, style)
	b.HLine(x+1, y+height-1, width-2, BoxHorizontal, style)
	b.VLine(x, y+1, height-2, BoxVertical, style)
	b.VLine(x+width-1, y+1, height-2, BoxVertical, style)
}

// RowDirty reports whether row y was written since the last ClearDirtyFlags.
func (b *Buffer) RowDirty(y int) bool {
	if y < 0 || y >= b.height {
		return false
	}
	return b.dirty[y]
}

// ClearDirtyFlags marks every row clean.
func (b *Buffer) ClearDirtyFlags() {
	for y := range b.dirty {
		b.dirty[y] = false
	}
}

// GetLine returns the content of a single line as a string (trimmed).
func (b *Buffer) GetLine(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	var line strings.Builder
	for x := 0; x < b.width; x++ {
		r := b.Get(x, y).Rune
		if r == 0 {
			r = ' '
		}
		line.WriteRune(r)
	}
	return strings.TrimRight(line.String(), " ")
}

// String returns the buffer contents as a string (for testing/debugging).
// Each row is separated by a newline. Trailing spaces are preserved.
func (b *Buffer) String() string {
	var sb strings.Builder
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			r := b.Get(x, y).Rune
			if r == 0 {
				r = ' '
			}
			sb.WriteRune(r)
		}
		if y < b.height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// StringTrimmed returns the buffer contents with trailing spaces removed per
// line and trailing empty lines dropped.
func (b *Buffer) StringTrimmed() string {
	lines := make([]string, b.height)
	for y := range lines {
		lines[y] = b.GetLine(y)
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// Resize resizes the buffer to new dimensions.
// Existing content is preserved where it fits.
func (b *Buffer) Resize(width, height int) {
	if width == b.width && height == b.height {
		return
	}

	newCells := make([]Cell, width*height)
	empty := EmptyCell()
	for i := range newCells {
		newCells[i] = empty
	}

	minWidth := min(b.width, width)
	minHeight := min(b.height, height)
	for y := 0; y < minHeight; y++ {
		copy(newCells[y*width:y*width+minWidth], b.cells[y*b.width:y*b.width+minWidth])
	}

	b.cells = newCells
	b.width = width
	b.height = height
	b.dirty = make([]bool, height)
	for y := range b.dirty {
		b.dirty[y] = true
	}
}
