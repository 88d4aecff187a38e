package canvasform

import (
	"errors"

	"github.com/rs/zerolog"
)

var (
	ErrNilSurface   = errors.New("canvasform: nil surface")
	ErrNoLineHeight = errors.New("canvasform: surface has no line height")
	ErrNilField     = errors.New("canvasform: nil field")
	ErrFieldOwned   = errors.New("canvasform: field already belongs to a form")
)

// DefaultPadding is the number of blank rows between stacked fields.
const DefaultPadding = 1

// Form stacks input fields vertically on a surface and routes pointer and
// keyboard events to them. Insertion order is both layout order and tab
// order. At most one field has focus; initially none does.
//
// usage:
//
//	form, err := NewForm(NewBufferSurface(buf), Padding(1))
//	form.AddField(NewInputField("name"))
//	form.AddField(NewInputField("age", Size(5, 3)))
//	form.LayoutAndRender(1, 1)
//	form.HandlePointer(3, 3)
//	form.HandleKeyboard(KeyA, true)
type Form struct {
	surface Surface
	fields  []*InputField
	current int // -1 when nothing is focused
	padding int

	log      zerolog.Logger
	onChange func(index int)
	onSubmit func(*Form)
}

// Option configures a Form at construction.
type Option func(*Form)

// Padding sets the vertical gap between fields.
func Padding(n int) Option {
	return func(f *Form) {
		if n >= 0 {
			f.padding = n
		}
	}
}

// WithLogger sets the logger for focus and input tracing. The default
// discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(f *Form) {
		f.log = l
	}
}

// OnFocusChange sets a callback that fires after focus moves to a
// different field.
func OnFocusChange(fn func(index int)) Option {
	return func(f *Form) {
		f.onChange = fn
	}
}

// OnSubmit sets a callback that fires when Enter is pressed in a field.
func OnSubmit(fn func(*Form)) Option {
	return func(f *Form) {
		f.onSubmit = fn
	}
}

// NewForm creates an empty form drawing on s.
func NewForm(s Surface, opts ...Option) (*Form, error) {
	if s == nil {
		return nil, ErrNilSurface
	}
	if s.LineHeight() <= 0 {
		return nil, ErrNoLineHeight
	}
	f := &Form{
		surface: s,
		current: -1,
		padding: DefaultPadding,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// AddField appends field to the form. The order fields are added in is
// permanent.
func (f *Form) AddField(field *InputField) error {
	if field == nil {
		return ErrNilField
	}
	if field.form != nil {
		return ErrFieldOwned
	}
	field.form = f
	field.surface = f.surface
	f.fields = append(f.fields, field)
	f.log.Debug().Str("field", field.label).Int("index", len(f.fields)-1).Msg("field added")
	return nil
}

// Len returns the number of fields.
func (f *Form) Len() int { return len(f.fields) }

// Fields returns the fields in tab order. The slice is a copy.
func (f *Form) Fields() []*InputField {
	out := make([]*InputField, len(f.fields))
	copy(out, f.fields)
	return out
}

// Field returns the first field with the given label.
func (f *Form) Field(label string) (*InputField, bool) {
	for _, field := range f.fields {
		if field.label == label {
			return field, true
		}
	}
	return nil, false
}

// Focused returns the focused field, if any.
func (f *Form) Focused() (*InputField, bool) {
	if f.current < 0 {
		return nil, false
	}
	return f.fields[f.current], true
}

// FocusedIndex returns the tab-order index of the focused field, or -1.
func (f *Form) FocusedIndex() int { return f.current }

// Values returns every field's text keyed by label.
func (f *Form) Values() map[string]string {
	out := make(map[string]string, len(f.fields))
	for _, field := range f.fields {
		out[field.label] = field.Text()
	}
	return out
}

// LayoutAndRender clears the surface and draws every field, stacking them
// downwards from (x, y).
func (f *Form) LayoutAndRender(x, y int) {
	w, h := f.surface.Size()
	f.surface.ClearRect(Rect{Width: w, Height: h})
	for _, field := range f.fields {
		// the surface was just cleared; nothing stale to erase
		field.rendered = false
		y += field.Render(x, y)
		y += f.padding
	}
}

// HandlePointer focuses the first field whose box contains (x, y).
// A click that hits no field leaves focus where it was.
func (f *Form) HandlePointer(x, y int) {
	for i, field := range f.fields {
		if field.rendered && field.bounds.Contains(x, y) {
			f.focus(i)
			return
		}
	}
	f.log.Debug().Int("x", x).Int("y", y).Msg("pointer missed all fields")
}

// HandleKeyboard routes a key press. Tab cycles focus (Shift-Tab
// backwards); Enter submits; everything else edits the focused field.
// It reports whether the host should suppress the key's default action.
func (f *Form) HandleKeyboard(k Key, shifted bool) bool {
	if f.current < 0 {
		return false
	}

	switch k {
	case KeyTab:
		if shifted {
			f.moveFocus(-1)
		} else {
			f.moveFocus(1)
		}
		return true
	case KeyEnter:
		if f.onSubmit != nil {
			f.log.Debug().Msg("submit")
			f.onSubmit(f)
		}
		return true
	}

	field := f.fields[f.current]
	if !field.HandleKey(k, shifted) {
		f.log.Debug().Stringer("key", k).Bool("shift", shifted).Msg("unmapped key")
		return false
	}
	field.Redraw()
	return k == KeySpace
}

func (f *Form) moveFocus(delta int) {
	n := len(f.fields)
	f.focus((f.current + n + delta%n) % n)
}

// focus moves focus to index. Focusing the focused field only redraws it.
func (f *Form) focus(index int) {
	if index < 0 || index >= len(f.fields) {
		return
	}
	if f.current == index {
		f.fields[index].focus()
		return
	}
	prev := f.current
	if prev >= 0 {
		f.fields[prev].unfocus()
	}
	f.current = index
	f.fields[index].focus()
	f.log.Debug().Int("from", prev).Int("to", index).Str("field", f.fields[index].label).Msg("focus changed")
	if f.onChange != nil {
		f.onChange(index)
	}
}
