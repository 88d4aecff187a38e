package canvasform_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	. "github.com/kungfusheep/canvasform"
)

// newForm builds a name/year/age form laid out at (1, 1) on a 30x16 buffer.
func newForm(t *testing.T, opts ...Option) (*Form, *Buffer) {
	t.Helper()
	buf := NewBuffer(30, 16)
	form, err := NewForm(NewBufferSurface(buf), opts...)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range []*InputField{
		NewInputField("name"),
		NewInputField("year"),
		NewInputField("age", Size(5, 3)),
	} {
		if err := form.AddField(f); err != nil {
			t.Fatal(err)
		}
	}
	form.LayoutAndRender(1, 1)
	return form, buf
}

// click presses the pointer inside the named field's box.
func click(t *testing.T, form *Form, label string) {
	t.Helper()
	f, ok := form.Field(label)
	if !ok {
		t.Fatalf("no field %q", label)
	}
	b := f.Bounds()
	form.HandlePointer(b.X+1, b.Y+1)
}

func focusedLabel(form *Form) string {
	f, ok := form.Focused()
	if !ok {
		return ""
	}
	return f.Label()
}

func checkFocusInvariant(t *testing.T, form *Form) {
	t.Helper()
	idx := form.FocusedIndex()
	for i, f := range form.Fields() {
		if f.Focused() != (i == idx) {
			t.Errorf("field %d (%s) focused=%v with focused index %d", i, f.Label(), f.Focused(), idx)
		}
	}
}

func TestNewFormErrors(t *testing.T) {
	if _, err := NewForm(nil); !errors.Is(err, ErrNilSurface) {
		t.Errorf("NewForm(nil) error = %v, want ErrNilSurface", err)
	}
	if _, err := NewForm(noFontSurface{NewBufferSurface(NewBuffer(1, 1))}); !errors.Is(err, ErrNoLineHeight) {
		t.Errorf("NewForm(no font) error = %v, want ErrNoLineHeight", err)
	}
}

type noFontSurface struct{ *BufferSurface }

func (noFontSurface) LineHeight() int { return 0 }

func TestAddField(t *testing.T) {
	form, _ := newForm(t)
	if err := form.AddField(nil); !errors.Is(err, ErrNilField) {
		t.Errorf("AddField(nil) = %v", err)
	}

	name, _ := form.Field("name")
	if err := form.AddField(name); !errors.Is(err, ErrFieldOwned) {
		t.Errorf("re-adding a field = %v, want ErrFieldOwned", err)
	}

	other, err := NewForm(NewBufferSurface(NewBuffer(10, 10)))
	if err != nil {
		t.Fatal(err)
	}
	if err := other.AddField(name); !errors.Is(err, ErrFieldOwned) {
		t.Errorf("adding to a second form = %v, want ErrFieldOwned", err)
	}

	var labels []string
	for _, f := range form.Fields() {
		labels = append(labels, f.Label())
	}
	if diff := cmp.Diff([]string{"name", "year", "age"}, labels); diff != "" {
		t.Errorf("field order (-want +got):\n%s", diff)
	}
}

func TestLayoutAndRender(t *testing.T) {
	_, buf := newForm(t, Padding(1))
	want := strings.Join([]string{
		"",
		" name",
		" ┌──────────────────┐",
		" │                  │",
		" └──────────────────┘",
		"",
		" year",
		" ┌──────────────────┐",
		" │                  │",
		" └──────────────────┘",
		"",
		" age",
		" ┌───┐",
		" │   │",
		" └───┘",
	}, "\n")
	if diff := cmp.Diff(want, buf.StringTrimmed()); diff != "" {
		t.Errorf("layout (-want +got):\n%s", diff)
	}
}

func TestLayoutPadding(t *testing.T) {
	form, _ := newForm(t, Padding(0))
	var ys []int
	for _, f := range form.Fields() {
		ys = append(ys, f.Bounds().Y)
	}
	if diff := cmp.Diff([]int{2, 6, 10}, ys); diff != "" {
		t.Errorf("box rows (-want +got):\n%s", diff)
	}
}

func TestHandlePointer(t *testing.T) {
	t.Run("FocusesHitField", func(t *testing.T) {
		form, _ := newForm(t)
		if form.FocusedIndex() != -1 {
			t.Fatalf("initial focus = %d, want none", form.FocusedIndex())
		}
		click(t, form, "year")
		if got := focusedLabel(form); got != "year" {
			t.Errorf("focused = %q, want year", got)
		}
		checkFocusInvariant(t, form)
	})

	t.Run("MissKeepsFocus", func(t *testing.T) {
		form, _ := newForm(t)
		click(t, form, "name")
		form.HandlePointer(28, 0)
		form.HandlePointer(1, 1) // the label row is not part of the box
		if got := focusedLabel(form); got != "name" {
			t.Errorf("focused = %q after misses, want name", got)
		}
	})

	t.Run("MissWithNoFocus", func(t *testing.T) {
		form, _ := newForm(t)
		form.HandlePointer(29, 15)
		if form.FocusedIndex() != -1 {
			t.Errorf("focus = %d, want none", form.FocusedIndex())
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		form, _ := newForm(t)
		click(t, form, "age")
		click(t, form, "age")
		click(t, form, "age")
		if got := focusedLabel(form); got != "age" {
			t.Errorf("focused = %q, want age", got)
		}
		checkFocusInvariant(t, form)
	})

	t.Run("EdgesOfBox", func(t *testing.T) {
		form, _ := newForm(t)
		age, _ := form.Field("age")
		b := age.Bounds()
		form.HandlePointer(b.X, b.Y)
		if focusedLabel(form) != "age" {
			t.Fatal("top-left corner should hit")
		}
		form.HandlePointer(b.X+b.Width, b.Y)
		form.HandlePointer(b.X, b.Y+b.Height)
		if focusedLabel(form) != "age" {
			t.Error("cells just outside the box changed focus")
		}
	})

	t.Run("CaretFollowsFocus", func(t *testing.T) {
		form, buf := newForm(t)
		click(t, form, "name")
		name, _ := form.Field("name")
		nb := name.Bounds()
		if !buf.Get(nb.X+1, nb.Y+1).Style.Attr.Has(AttrInverse) {
			t.Fatal("no caret in focused field")
		}
		click(t, form, "year")
		if buf.Get(nb.X+1, nb.Y+1).Style.Attr.Has(AttrInverse) {
			t.Error("caret left behind in unfocused field")
		}
	})
}

func TestHandleKeyboard(t *testing.T) {
	t.Run("NoFocusIsNoop", func(t *testing.T) {
		form, buf := newForm(t)
		before := buf.String()
		if form.HandleKeyboard(KeyA, false) {
			t.Error("key without focus should not be suppressed")
		}
		if form.HandleKeyboard(KeyTab, false) {
			t.Error("tab without focus should not be suppressed")
		}
		if form.FocusedIndex() != -1 || buf.String() != before {
			t.Error("state changed without focus")
		}
	})

	t.Run("TabScenario", func(t *testing.T) {
		form, _ := newForm(t)
		click(t, form, "name")
		got := []string{focusedLabel(form)}
		for i := 0; i < 3; i++ {
			if !form.HandleKeyboard(KeyTab, false) {
				t.Error("tab should be suppressed")
			}
			got = append(got, focusedLabel(form))
			checkFocusInvariant(t, form)
		}
		if diff := cmp.Diff([]string{"name", "year", "age", "name"}, got); diff != "" {
			t.Errorf("focus sequence (-want +got):\n%s", diff)
		}
	})

	t.Run("ShiftTabReverses", func(t *testing.T) {
		form, _ := newForm(t)
		click(t, form, "name")
		var got []string
		for i := 0; i < 3; i++ {
			form.HandleKeyboard(KeyTab, true)
			got = append(got, focusedLabel(form))
		}
		if diff := cmp.Diff([]string{"age", "year", "name"}, got); diff != "" {
			t.Errorf("focus sequence (-want +got):\n%s", diff)
		}
	})

	t.Run("TabCycleReturns", func(t *testing.T) {
		for _, shifted := range []bool{false, true} {
			form, _ := newForm(t)
			click(t, form, "year")
			start := form.FocusedIndex()
			for i := 0; i < form.Len(); i++ {
				form.HandleKeyboard(KeyTab, shifted)
				if i < form.Len()-1 && form.FocusedIndex() == start {
					t.Errorf("shift=%v: back at start after %d presses", shifted, i+1)
				}
			}
			if form.FocusedIndex() != start {
				t.Errorf("shift=%v: focus = %d after full cycle, want %d", shifted, form.FocusedIndex(), start)
			}
		}
	})

	t.Run("TypingGoesToFocusedField", func(t *testing.T) {
		form, buf := newForm(t)
		click(t, form, "year")
		for _, k := range []Key{Key2, Key0, Key2, Key5} {
			form.HandleKeyboard(k, false)
		}
		form.HandleKeyboard(KeyBackspace, false)
		form.HandleKeyboard(Key4, false)

		if diff := cmp.Diff(map[string]string{"name": "", "year": "2024", "age": ""}, form.Values()); diff != "" {
			t.Errorf("values (-want +got):\n%s", diff)
		}
		year, _ := form.Field("year")
		b := year.Bounds()
		if got := buf.GetLine(b.Y + 1); got != " │2024              │" {
			t.Errorf("year row = %q", got)
		}
	})

	t.Run("SpaceInsertsAndSuppresses", func(t *testing.T) {
		form, _ := newForm(t)
		click(t, form, "name")
		form.HandleKeyboard(KeyA, false)
		if !form.HandleKeyboard(KeySpace, false) {
			t.Error("space should be suppressed")
		}
		form.HandleKeyboard(KeyB, true)
		name, _ := form.Field("name")
		if name.Text() != "a B" {
			t.Errorf("text = %q, want \"a B\"", name.Text())
		}
	})

	t.Run("OrdinaryKeysNotSuppressed", func(t *testing.T) {
		form, _ := newForm(t)
		click(t, form, "name")
		for _, k := range []Key{KeyA, KeyLeft, KeyBackspace, KeyUp} {
			if form.HandleKeyboard(k, false) {
				t.Errorf("%v should not be suppressed", k)
			}
		}
	})

	t.Run("EditOnlyRedrawsFocusedField", func(t *testing.T) {
		form, buf := newForm(t)
		click(t, form, "age")
		buf.ClearDirtyFlags()
		form.HandleKeyboard(Key9, false)

		age, _ := form.Field("age")
		b := age.Bounds()
		_, height := buf.Size()
		for y := 0; y < height; y++ {
			inside := y >= b.Y-1 && y < b.Y+b.Height
			if buf.RowDirty(y) != inside {
				t.Errorf("row %d dirty=%v, want %v", y, buf.RowDirty(y), inside)
			}
		}
	})

	t.Run("Submit", func(t *testing.T) {
		var submitted map[string]string
		form, _ := newForm(t, OnSubmit(func(f *Form) { submitted = f.Values() }))
		click(t, form, "name")
		form.HandleKeyboard(KeyH, true)
		form.HandleKeyboard(KeyI, false)
		if !form.HandleKeyboard(KeyEnter, false) {
			t.Error("enter should be suppressed")
		}
		if submitted["name"] != "Hi" {
			t.Errorf("submitted = %v", submitted)
		}
	})
}

func TestOnFocusChange(t *testing.T) {
	var changes []int
	form, _ := newForm(t, OnFocusChange(func(i int) { changes = append(changes, i) }))
	click(t, form, "name")
	click(t, form, "name")
	form.HandleKeyboard(KeyTab, false)
	form.HandleKeyboard(KeyTab, true)
	if diff := cmp.Diff([]int{0, 1, 0}, changes); diff != "" {
		t.Errorf("focus changes (-want +got):\n%s", diff)
	}
}

func TestFormLogging(t *testing.T) {
	var out strings.Builder
	logger := zerolog.New(&out).Level(zerolog.TraceLevel)
	form, _ := newForm(t, WithLogger(logger))
	click(t, form, "year")
	form.HandleKeyboard(KeyUp, false)

	logs := out.String()
	for _, want := range []string{`"message":"focus changed"`, `"field":"year"`, `"message":"unmapped key"`, `"key":"Up"`} {
		if !strings.Contains(logs, want) {
			t.Errorf("logs missing %s:\n%s", want, logs)
		}
	}
}
