package canvasform

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/mattn/go-runewidth"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

var ErrNotTerminal = errors.New("canvasform: not a terminal")

// Screen shows a Buffer on a terminal with diff-based updates. Forms draw
// into the back buffer (see Surface); Flush writes only what changed.
type Screen struct {
	front  *Buffer   // what's currently displayed
	back   *Buffer   // what we're drawing to
	writer io.Writer // output destination (usually os.Stdout)
	fd     int       // file descriptor for terminal operations

	width  int
	height int

	origState *term.State
	inRawMode bool

	resizeChan chan TermSize
	sigChan    chan os.Signal

	lastStyle Style
	buf       bytes.Buffer

	// protects buffer access during resize
	mu sync.Mutex
}

// TermSize is a terminal size in cells.
type TermSize struct {
	Width  int
	Height int
}

// NewScreen creates a screen for the terminal on fd, writing to w.
// Pass nil to use os.Stdout.
func NewScreen(w io.Writer, fd int) (*Screen, error) {
	if w == nil {
		w = os.Stdout
	}
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}

	width, height, err := getTerminalSize(fd)
	if err != nil {
		width, height = 80, 24
	}

	return newScreen(w, fd, width, height), nil
}

func newScreen(w io.Writer, fd, width, height int) *Screen {
	return &Screen{
		front:      NewBuffer(width, height),
		back:       NewBuffer(width, height),
		writer:     w,
		fd:         fd,
		width:      width,
		height:     height,
		resizeChan: make(chan TermSize, 1),
		lastStyle:  DefaultStyle(),
	}
}

// getTerminalSize returns the current terminal dimensions.
func getTerminalSize(fd int) (int, int, error) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, err
	}
	return int(ws.Col), int(ws.Row), nil
}

// Size returns the current screen dimensions.
func (s *Screen) Size() TermSize {
	s.mu.Lock()
	defer s.mu.Unlock()
	return TermSize{Width: s.width, Height: s.height}
}

// Buffer returns the back buffer for drawing.
func (s *Screen) Buffer() *Buffer {
	return s.back
}

// ResizeChan returns a channel that receives size updates on terminal resize.
func (s *Screen) ResizeChan() <-chan TermSize {
	return s.resizeChan
}

// EnterRawMode puts the terminal into raw mode on the alternate screen with
// mouse reporting enabled.
func (s *Screen) EnterRawMode() error {
	if s.inRawMode {
		return nil
	}

	state, err := term.MakeRaw(s.fd)
	if err != nil {
		return fmt.Errorf("failed to set raw mode: %w", err)
	}
	s.origState = state
	s.inRawMode = true

	s.sigChan = make(chan os.Signal, 1)
	signal.Notify(s.sigChan, syscall.SIGWINCH)
	go s.handleSignals(s.sigChan)

	s.writeString("\x1b[?1049h") // enter alternate screen
	s.writeString("\x1b[2J")     // clear so the front buffer matches
	s.writeString("\x1b[H")
	s.writeString("\x1b[?25l")   // hide cursor
	s.writeString("\x1b[?1000h") // report button presses
	s.writeString("\x1b[?1006h") // SGR mouse encoding

	return nil
}

// ExitRawMode restores the terminal to its original state.
func (s *Screen) ExitRawMode() error {
	if !s.inRawMode {
		return nil
	}

	s.writeString("\x1b[?1006l")
	s.writeString("\x1b[?1000l")
	s.writeString("\x1b[0m")
	s.writeString("\x1b[?25h")
	s.writeString("\x1b[?1049l")

	signal.Stop(s.sigChan)
	close(s.sigChan)

	s.inRawMode = false
	if err := term.Restore(s.fd, s.origState); err != nil {
		return fmt.Errorf("failed to restore terminal: %w", err)
	}
	return nil
}

// handleSignals reports new terminal sizes. The buffers are left alone;
// the goroutine that draws applies the size with Resize.
func (s *Screen) handleSignals(sigs <-chan os.Signal) {
	for range sigs {
		width, height, err := getTerminalSize(s.fd)
		if err != nil {
			continue
		}
		select {
		case s.resizeChan <- TermSize{Width: width, Height: height}:
		default:
		}
	}
}

// Resize changes the screen size, clearing both buffers and the terminal.
func (s *Screen) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if width == s.width && height == s.height {
		return
	}
	s.width = width
	s.height = height
	s.front.Resize(width, height)
	s.back.Resize(width, height)
	s.front.Clear()
	s.back.Clear()
	s.writeString("\x1b[2J")
}

// Flush writes the cells of the back buffer that differ from what is on
// the terminal. Only rows marked dirty are compared.
func (s *Screen) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buf.Reset()
	cursorX, cursorY := -1, -1
	changed := false

	for y := 0; y < s.height; y++ {
		if !s.back.RowDirty(y) {
			continue
		}
		for x := 0; x < s.width; x++ {
			backCell := s.back.Get(x, y)
			if backCell == s.front.Get(x, y) {
				continue
			}
			s.front.Set(x, y, backCell)

			// second half of a double-width rune
			if backCell.Rune == 0 {
				continue
			}

			if cursorX != x || cursorY != y {
				s.buf.WriteString("\x1b[")
				s.buf.WriteString(strconv.Itoa(y + 1))
				s.buf.WriteByte(';')
				s.buf.WriteString(strconv.Itoa(x + 1))
				s.buf.WriteByte('H')
			}

			s.writeCell(backCell)
			changed = true
			cursorX = x + max(runewidth.RuneWidth(backCell.Rune), 1)
			cursorY = y
		}
	}

	if changed {
		s.buf.WriteString("\x1b[0m")
		s.lastStyle = DefaultStyle()
	}
	s.back.ClearDirtyFlags()

	if s.buf.Len() == 0 {
		return nil
	}
	_, err := s.writer.Write(s.buf.Bytes())
	return err
}

// writeCell writes a cell's style and rune to the output buffer.
func (s *Screen) writeCell(cell Cell) {
	if cell.Style != s.lastStyle {
		s.writeStyle(cell.Style)
		s.lastStyle = cell.Style
	}
	s.buf.WriteRune(cell.Rune)
}

// writeStyle writes the SGR sequence for style, resetting first.
func (s *Screen) writeStyle(style Style) {
	s.buf.WriteString("\x1b[0")

	if style.Attr.Has(AttrBold) {
		s.buf.WriteString(";1")
	}
	if style.Attr.Has(AttrDim) {
		s.buf.WriteString(";2")
	}
	if style.Attr.Has(AttrUnderline) {
		s.buf.WriteString(";4")
	}
	if style.Attr.Has(AttrInverse) {
		s.buf.WriteString(";7")
	}
	s.writeColor(style.FG, 30)
	s.writeColor(style.BG, 40)

	s.buf.WriteByte('m')
}

func (s *Screen) writeColor(c Color, base int) {
	if c.Mode != Color16 {
		return
	}
	if c.Index >= 8 {
		base += 60
		c.Index -= 8
	}
	s.buf.WriteByte(';')
	s.buf.WriteString(strconv.Itoa(base + int(c.Index)))
}

// writeString is a helper to write a string directly to the terminal.
func (s *Screen) writeString(str string) {
	io.WriteString(s.writer, str)
}
