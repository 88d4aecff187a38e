package canvasform

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// EventKind distinguishes the events a host delivers to a form.
type EventKind uint8

const (
	EventNone EventKind = iota
	EventKey
	EventPointer
	EventQuit
)

// Event is one decoded input event. Pointer coordinates are 0-based cells.
type Event struct {
	Kind  EventKind
	Key   Key
	Shift bool
	X, Y  int
}

// InputDecoder turns raw terminal input into events. It understands plain
// ASCII, the common CSI/SS3 sequences for editing keys and SGR mouse
// reports (ESC [ < b ; x ; y M).
type InputDecoder struct {
	r *bufio.Reader
}

// NewInputDecoder reads terminal input from r.
func NewInputDecoder(r io.Reader) *InputDecoder {
	return &InputDecoder{r: bufio.NewReaderSize(r, 256)}
}

// Next blocks until the next event is decoded. Byte sequences that mean
// nothing to a form decode to an EventNone event.
func (d *InputDecoder) Next() (Event, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return Event{}, err
	}

	switch {
	case b == 0x1b:
		return d.escape()
	case b == 0x03, b == 0x04: // Ctrl-C, Ctrl-D
		return Event{Kind: EventQuit}, nil
	case b == 0x7f, b == 0x08:
		return keyEvent(KeyBackspace, false), nil
	case b == '\t':
		return keyEvent(KeyTab, false), nil
	case b == '\r', b == '\n':
		return keyEvent(KeyEnter, false), nil
	case b >= 0x20 && b < 0x7f:
		k, shifted, _ := KeyForRune(rune(b))
		return keyEvent(k, shifted), nil
	case b >= utf8.RuneSelf:
		// ASCII-only input: consume the rest of the rune and drop it
		if err := d.r.UnreadByte(); err != nil {
			return Event{}, err
		}
		if _, _, err := d.r.ReadRune(); err != nil {
			return Event{}, err
		}
	}
	return Event{}, nil
}

func keyEvent(k Key, shifted bool) Event {
	if k == KeyNone {
		return Event{}
	}
	return Event{Kind: EventKey, Key: k, Shift: shifted}
}

// escape decodes what follows an ESC byte. A lone ESC, with nothing else
// already buffered, is the Escape key.
func (d *InputDecoder) escape() (Event, error) {
	if d.r.Buffered() == 0 {
		return keyEvent(KeyEscape, false), nil
	}
	b, err := d.r.ReadByte()
	if err != nil {
		return Event{}, err
	}
	switch b {
	case '[':
		return d.csi()
	case 'O':
		f, err := d.r.ReadByte()
		if err != nil {
			return Event{}, err
		}
		return keyEvent(finalKey(f), false), nil
	}
	return Event{}, nil
}

// csi decodes a control sequence after ESC [. Parameter bytes are
// 0x30-0x3f and intermediates 0x20-0x2f; anything else before the final
// byte makes the sequence malformed, and it is consumed up to its end and
// dropped. SGR mouse reports always run through to M or m.
func (d *InputDecoder) csi() (Event, error) {
	var params strings.Builder
	mouse, malformed := false, false
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			return Event{}, err
		}
		if params.Len() == 0 && b == '<' {
			mouse = true
		}

		switch {
		case mouse && (b == 'M' || b == 'm'):
			if malformed {
				return Event{}, nil
			}
			return decodeCSI(params.String(), b), nil
		case mouse:
			if b < 0x30 || b > 0x3f {
				malformed = true
			}
		case b >= 0x40 && b <= 0x7e:
			if malformed {
				return Event{}, nil
			}
			return decodeCSI(params.String(), b), nil
		case b < 0x20 || b > 0x3f:
			// not part of any sequence; keep reading to the final byte
			malformed = true
		}
		params.WriteByte(b)
	}
}

func decodeCSI(params string, final byte) Event {
	if strings.HasPrefix(params, "<") {
		return decodeSGRMouse(params[1:], final)
	}

	fields := strings.Split(params, ";")
	shifted := false
	if len(fields) == 2 {
		// modifier is 1 + bitmask, shift is bit 0
		if mod, err := strconv.Atoi(fields[1]); err == nil && (mod-1)&1 != 0 {
			shifted = true
		}
	}

	switch final {
	case 'Z':
		return keyEvent(KeyTab, true)
	case '~':
		switch fields[0] {
		case "1", "7":
			return keyEvent(KeyHome, shifted)
		case "3":
			return keyEvent(KeyDelete, shifted)
		case "4", "8":
			return keyEvent(KeyEnd, shifted)
		}
		return Event{}
	}
	return keyEvent(finalKey(final), shifted)
}

// finalKey maps the final byte shared by CSI and SS3 cursor sequences.
func finalKey(b byte) Key {
	switch b {
	case 'A':
		return KeyUp
	case 'B':
		return KeyDown
	case 'C':
		return KeyRight
	case 'D':
		return KeyLeft
	case 'H':
		return KeyHome
	case 'F':
		return KeyEnd
	}
	return KeyNone
}

// decodeSGRMouse decodes "b;x;y" with final M (press) or m (release).
// Only left-button presses become pointer events.
func decodeSGRMouse(params string, final byte) Event {
	fields := strings.Split(params, ";")
	if len(fields) != 3 || final != 'M' {
		return Event{}
	}
	nums := make([]int, 3)
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return Event{}
		}
		nums[i] = n
	}
	// low two bits are the button; motion and wheel set higher bits
	if nums[0]&0b11 != 0 || nums[0]&(32|64) != 0 {
		return Event{}
	}
	return Event{Kind: EventPointer, X: nums[1] - 1, Y: nums[2] - 1}
}
