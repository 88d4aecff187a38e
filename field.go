package canvasform

// Default box size in cells: a one-cell border around a single text row.
const (
	DefaultFieldWidth  = 20
	DefaultFieldHeight = 3

	// MinFieldSize is the smallest box side that still has a border and
	// one inner cell for text and the caret.
	MinFieldSize = 3
)

// InputField is a single-line text box with a label drawn above it.
// The field owns its text and cursor; the Form that owns the field decides
// where it is drawn and whether it has focus.
type InputField struct {
	label  string
	text   []rune
	cursor int

	width  int
	height int

	// set by the owning form
	surface Surface
	form    *Form
	focused bool

	// last render
	originX, originY int
	rendered         bool
	bounds           Rect
	footprint        Rect
}

// FieldOption configures an InputField at construction.
type FieldOption func(*InputField)

// Size sets the box size. Values below 1 keep the default; smaller
// positive values are raised to MinFieldSize.
func Size(width, height int) FieldOption {
	return func(f *InputField) {
		if width > 0 {
			f.width = max(width, MinFieldSize)
		}
		if height > 0 {
			f.height = max(height, MinFieldSize)
		}
	}
}

// Value sets the initial text with the cursor after the last character.
func Value(v string) FieldOption {
	return func(f *InputField) {
		f.text = []rune(v)
		f.cursor = len(f.text)
	}
}

// NewInputField creates a field captioned with label.
func NewInputField(label string, opts ...FieldOption) *InputField {
	f := &InputField{
		label:  label,
		width:  DefaultFieldWidth,
		height: DefaultFieldHeight,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Label returns the field's caption.
func (f *InputField) Label() string { return f.label }

// Text returns the current contents.
func (f *InputField) Text() string { return string(f.text) }

// Cursor returns the cursor index into Text, in runes.
func (f *InputField) Cursor() int { return f.cursor }

// Focused reports whether the field currently has focus.
func (f *InputField) Focused() bool { return f.focused }

// Bounds returns the box drawn by the last render.
func (f *InputField) Bounds() Rect { return f.bounds }

// Render draws the field with its label row at (x, y) and returns the
// height it occupies, so the caller can stack the next field beneath it.
// Whatever the previous render drew is erased first. A field that has not
// been added to a form has nothing to draw on and returns 0.
func (f *InputField) Render(x, y int) int {
	if f.surface == nil {
		return 0
	}
	s := f.surface
	lh := s.LineHeight()

	if f.rendered {
		s.ClearRect(f.footprint)
	}

	f.originX, f.originY = x, y
	f.rendered = true

	box := Rect{X: x, Y: y + lh, Width: f.width, Height: f.height}
	f.bounds = box
	f.footprint = Rect{X: x, Y: y, Width: max(f.width, s.MeasureText(f.label)), Height: lh + f.height}
	s.ClearRect(f.footprint)

	s.DrawText(x, y, f.label)
	s.StrokeRect(box)

	inner := box.Width - 2
	if inner > 0 {
		row := box.Y + box.Height/2
		s.DrawText(box.X+1, row, f.visibleText(inner))

		if f.focused {
			caretX := box.X + 1 + s.MeasureText(string(f.text[:f.cursor]))
			caretX = min(caretX, box.X+inner)
			caret := Rect{X: caretX, Y: box.Y + 1, Width: 1, Height: box.Height - 2}
			if caret.Height < 1 {
				caret.Y, caret.Height = row, 1
			}
			s.FillRect(caret)
		}
	}

	return lh + f.height
}

// Redraw renders the field again where it was last drawn.
func (f *InputField) Redraw() {
	if !f.rendered {
		return
	}
	f.Render(f.originX, f.originY)
}

// visibleText returns the longest prefix of the text that fits in width.
func (f *InputField) visibleText(width int) string {
	s := f.surface
	full := string(f.text)
	if s.MeasureText(full) <= width {
		return full
	}
	n := 0
	for n < len(f.text) && s.MeasureText(string(f.text[:n+1])) <= width {
		n++
	}
	return string(f.text[:n])
}

func (f *InputField) focus() {
	f.focused = true
	f.Redraw()
}

func (f *InputField) unfocus() {
	f.focused = false
	f.Redraw()
}

// InsertCharacter inserts r at the cursor and advances the cursor.
func (f *InputField) InsertCharacter(r rune) {
	f.text = append(f.text, 0)
	copy(f.text[f.cursor+1:], f.text[f.cursor:])
	f.text[f.cursor] = r
	f.cursor++
}

// DeleteBeforeCursor removes the character left of the cursor (backspace).
func (f *InputField) DeleteBeforeCursor() {
	if f.cursor == 0 {
		return
	}
	f.text = append(f.text[:f.cursor-1], f.text[f.cursor:]...)
	f.cursor--
}

// DeleteAfterCursor removes the character under the cursor (forward delete).
func (f *InputField) DeleteAfterCursor() {
	if f.cursor >= len(f.text) {
		return
	}
	f.text = append(f.text[:f.cursor], f.text[f.cursor+1:]...)
}

// MoveCursor moves the cursor by delta, clamped to the text.
func (f *InputField) MoveCursor(delta int) {
	f.cursor = max(0, min(f.cursor+delta, len(f.text)))
}

// MoveCursorHome moves the cursor before the first character.
func (f *InputField) MoveCursorHome() { f.cursor = 0 }

// MoveCursorEnd moves the cursor after the last character.
func (f *InputField) MoveCursorEnd() { f.cursor = len(f.text) }

// HandleKey applies one key press to the text. Editing keys win over
// character keys; keys that neither edit nor type are ignored.
// Returns false if the key was ignored.
func (f *InputField) HandleKey(k Key, shifted bool) bool {
	switch k {
	case KeyDelete:
		f.DeleteAfterCursor()
	case KeyBackspace:
		f.DeleteBeforeCursor()
	case KeyLeft:
		f.MoveCursor(-1)
	case KeyRight:
		f.MoveCursor(1)
	case KeyHome:
		f.MoveCursorHome()
	case KeyEnd:
		f.MoveCursorEnd()
	default:
		r, ok := Translate(k, shifted)
		if !ok {
			return false
		}
		f.InsertCharacter(r)
	}
	return true
}
