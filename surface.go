package canvasform

import "github.com/mattn/go-runewidth"

// Rect is a rectangle in surface coordinates.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Contains reports whether (x, y) lies inside the rectangle.
// The right and bottom edges are exclusive.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Empty reports whether the rectangle covers no cells.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Surface is the drawing target a Form renders onto. All calls share one
// configured font whose line height sizes the fields.
type Surface interface {
	Size() (width, height int)
	LineHeight() int
	ClearRect(r Rect)
	StrokeRect(r Rect)
	FillRect(r Rect)
	DrawText(x, y int, s string)
	MeasureText(s string) int
}

// BufferSurface draws onto a cell Buffer. One cell is one unit, so the line
// height is always 1 and text width is the display width of its runes.
type BufferSurface struct {
	buf        *Buffer
	textStyle  Style
	frameStyle Style
}

// NewBufferSurface wraps buf as a Surface.
func NewBufferSurface(buf *Buffer) *BufferSurface {
	return &BufferSurface{
		buf:        buf,
		textStyle:  DefaultStyle(),
		frameStyle: DefaultStyle(),
	}
}

// TextStyle sets the style used for DrawText.
func (s *BufferSurface) TextStyle(st Style) *BufferSurface {
	s.textStyle = st
	return s
}

// FrameStyle sets the style used for StrokeRect.
func (s *BufferSurface) FrameStyle(st Style) *BufferSurface {
	s.frameStyle = st
	return s
}

// Buffer returns the underlying cell buffer.
func (s *BufferSurface) Buffer() *Buffer {
	return s.buf
}

func (s *BufferSurface) Size() (width, height int) {
	return s.buf.Size()
}

func (s *BufferSurface) LineHeight() int {
	return 1
}

func (s *BufferSurface) ClearRect(r Rect) {
	s.buf.FillRect(r.X, r.Y, r.Width, r.Height, EmptyCell())
}

func (s *BufferSurface) StrokeRect(r Rect) {
	s.buf.DrawBorder(r.X, r.Y, r.Width, r.Height, s.frameStyle)
}

// FillRect paints the rectangle in reverse video, keeping the runes
// underneath visible. A one-cell fill is a block caret.
func (s *BufferSurface) FillRect(r Rect) {
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			if !s.buf.InBounds(x, y) {
				continue
			}
			c := s.buf.Get(x, y)
			c.Style = c.Style.Inverse()
			s.buf.Set(x, y, c)
		}
	}
}

// DrawText writes s starting at (x, y). Wide runes take two cells; the
// second holds a zero rune so a Screen skips it.
func (s *BufferSurface) DrawText(x, y int, str string) {
	for _, r := range str {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		s.buf.Set(x, y, NewCell(r, s.textStyle))
		if w == 2 {
			s.buf.Set(x+1, y, NewCell(0, s.textStyle))
		}
		x += w
	}
}

func (s *BufferSurface) MeasureText(str string) int {
	return runewidth.StringWidth(str)
}
