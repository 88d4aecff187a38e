package canvasform

import "testing"

func TestBuffer(t *testing.T) {
	t.Run("NewBuffer", func(t *testing.T) {
		buf := NewBuffer(80, 24)
		w, h := buf.Size()
		if w != 80 || h != 24 {
			t.Errorf("expected 80x24, got %dx%d", w, h)
		}

		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := buf.Get(x, y)
				if c.Rune != ' ' {
					t.Errorf("expected space at (%d,%d), got %q", x, y, c.Rune)
				}
			}
		}
	})

	t.Run("NegativeSize", func(t *testing.T) {
		buf := NewBuffer(-3, -1)
		if w, h := buf.Size(); w != 0 || h != 0 {
			t.Errorf("expected 0x0, got %dx%d", w, h)
		}
	})

	t.Run("InBounds", func(t *testing.T) {
		buf := NewBuffer(10, 10)

		tests := []struct {
			x, y   int
			expect bool
		}{
			{0, 0, true},
			{9, 9, true},
			{-1, 0, false},
			{0, -1, false},
			{10, 0, false},
			{0, 10, false},
		}

		for _, tt := range tests {
			got := buf.InBounds(tt.x, tt.y)
			if got != tt.expect {
				t.Errorf("InBounds(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.expect)
			}
		}
	})

	t.Run("SetGet", func(t *testing.T) {
		buf := NewBuffer(10, 10)
		cell := NewCell('X', DefaultStyle().Foreground(Red))

		buf.Set(5, 5, cell)
		if got := buf.Get(5, 5); got != cell {
			t.Errorf("got %+v, want %+v", got, cell)
		}

		// out of bounds is ignored on write and empty on read
		buf.Set(-1, -1, cell)
		if oob := buf.Get(-1, -1); oob.Rune != ' ' {
			t.Error("expected empty cell for out of bounds")
		}
	})

	t.Run("Lines", func(t *testing.T) {
		buf := NewBuffer(8, 3)
		buf.HLine(1, 0, 3, '=', DefaultStyle().Foreground(Red))
		buf.VLine(7, 0, 5, '|', DefaultStyle())

		if got := buf.GetLine(0); got != " ===   |" {
			t.Errorf("line = %q", got)
		}
		if c := buf.Get(2, 0); c.Style.FG != Red {
			t.Errorf("style not applied: %+v", c)
		}
		// lines stop at the buffer edge
		if got := buf.GetLine(2); got != "       |" {
			t.Errorf("line = %q", got)
		}
	})

	t.Run("FillRect", func(t *testing.T) {
		buf := NewBuffer(20, 10)
		buf.FillRect(5, 5, 3, 2, NewCell('#', DefaultStyle()))

		for y := 5; y < 7; y++ {
			for x := 5; x < 8; x++ {
				if buf.Get(x, y).Rune != '#' {
					t.Errorf("expected '#' at (%d,%d)", x, y)
				}
			}
		}
		if buf.Get(4, 5).Rune != ' ' || buf.Get(8, 6).Rune != ' ' {
			t.Error("expected space outside filled area")
		}
	})

	t.Run("DrawBorder", func(t *testing.T) {
		buf := NewBuffer(20, 10)
		buf.DrawBorder(0, 0, 5, 3, DefaultStyle())

		want := "┌───┐\n│   │\n└───┘"
		if got := buf.StringTrimmed(); got != want {
			t.Errorf("border:\n%s\nwant:\n%s", got, want)
		}
	})

	t.Run("DrawBorderDegenerate", func(t *testing.T) {
		buf := NewBuffer(10, 4)
		buf.DrawBorder(0, 0, 4, 1, DefaultStyle())
		buf.DrawBorder(6, 0, 1, 3, DefaultStyle())
		buf.DrawBorder(8, 0, 0, 3, DefaultStyle())

		want := "────  │\n      │\n      │"
		if got := buf.StringTrimmed(); got != want {
			t.Errorf("border:\n%s\nwant:\n%s", got, want)
		}
	})

	t.Run("DirtyRows", func(t *testing.T) {
		buf := NewBuffer(10, 4)
		if !buf.RowDirty(0) || !buf.RowDirty(3) {
			t.Error("new buffer should be dirty")
		}
		buf.ClearDirtyFlags()
		buf.Set(1, 2, NewCell('x', DefaultStyle()))
		for y := 0; y < 4; y++ {
			if buf.RowDirty(y) != (y == 2) {
				t.Errorf("row %d dirty = %v", y, buf.RowDirty(y))
			}
		}
		if buf.RowDirty(-1) || buf.RowDirty(4) {
			t.Error("out of range rows should report clean")
		}
	})

	t.Run("Resize", func(t *testing.T) {
		buf := NewBuffer(10, 10)
		NewBufferSurface(buf).DrawText(0, 0, "Test")

		buf.Resize(20, 5)

		if w, h := buf.Size(); w != 20 || h != 5 {
			t.Errorf("expected 20x5, got %dx%d", w, h)
		}
		if buf.GetLine(0) != "Test" {
			t.Error("expected content to be preserved")
		}

		buf.Resize(2, 1)
		if buf.String() != "Te" {
			t.Errorf("shrunk buffer = %q", buf.String())
		}
	})

	t.Run("String", func(t *testing.T) {
		buf := NewBuffer(3, 2)
		NewBufferSurface(buf).DrawText(0, 1, "ab")
		if got := buf.String(); got != "   \nab " {
			t.Errorf("String() = %q", got)
		}
		if got := buf.StringTrimmed(); got != "\nab" {
			t.Errorf("StringTrimmed() = %q", got)
		}
	})
}
