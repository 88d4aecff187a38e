package canvasform

import "fmt"

// Key identifies a physical key independent of the platform's numeric
// keycodes. Hosts map their native codes onto these values.
type Key uint8

const (
	KeyNone Key = iota

	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9

	KeyPad0
	KeyPad1
	KeyPad2
	KeyPad3
	KeyPad4
	KeyPad5
	KeyPad6
	KeyPad7
	KeyPad8
	KeyPad9
	KeyPadMultiply
	KeyPadAdd
	KeyPadSubtract
	KeyPadDecimal
	KeyPadDivide

	KeySpace
	KeySemicolon
	KeyEqual
	KeyComma
	KeyMinus
	KeyPeriod
	KeySlash
	KeyBackquote
	KeyBracketLeft
	KeyBackslash
	KeyBracketRight
	KeyQuote

	KeyBackspace
	KeyDelete
	KeyTab
	KeyEnter
	KeyEscape
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd

	keyCount
)

// keyChars holds the printable character for each key, indexed by
// [key][shifted]. Zero means the key produces no character.
var keyChars [keyCount][2]rune

// runeKeys is the inverse of keyChars: which key and shift state types r.
var runeKeys = map[rune]keyStroke{}

type keyStroke struct {
	key     Key
	shifted bool
}

var keyNames [keyCount]string

func init() {
	for k := KeyA; k <= KeyZ; k++ {
		lower := 'a' + rune(k-KeyA)
		keyChars[k] = [2]rune{lower, lower - 'a' + 'A'}
		keyNames[k] = string(lower - 'a' + 'A')
	}

	digitSymbols := [10]rune{')', '!', '@', '#', '$', '%', '^', '&', '*', '('}
	for i := 0; i < 10; i++ {
		d := '0' + rune(i)
		keyChars[Key0+Key(i)] = [2]rune{d, digitSymbols[i]}
		keyChars[KeyPad0+Key(i)] = [2]rune{d, digitSymbols[i]}
		keyNames[Key0+Key(i)] = string(d)
		keyNames[KeyPad0+Key(i)] = "Pad" + string(d)
	}

	same := func(k Key, r rune, name string) {
		keyChars[k] = [2]rune{r, r}
		keyNames[k] = name
	}
	same(KeyPadMultiply, '*', "PadMultiply")
	same(KeyPadAdd, '+', "PadAdd")
	same(KeyPadSubtract, '-', "PadSubtract")
	same(KeyPadDecimal, '.', "PadDecimal")
	same(KeyPadDivide, '/', "PadDivide")
	same(KeySpace, ' ', "Space")

	punct := []struct {
		key          Key
		plain, shift rune
		name         string
	}{
		{KeySemicolon, ';', ':', "Semicolon"},
		{KeyEqual, '=', '+', "Equal"},
		{KeyComma, ',', '<', "Comma"},
		{KeyMinus, '-', '_', "Minus"},
		{KeyPeriod, '.', '>', "Period"},
		{KeySlash, '/', '?', "Slash"},
		{KeyBackquote, '`', '~', "Backquote"},
		{KeyBracketLeft, '[', '{', "BracketLeft"},
		{KeyBackslash, '\\', '|', "Backslash"},
		{KeyBracketRight, ']', '}', "BracketRight"},
		{KeyQuote, '\'', '"', "Quote"},
	}
	for _, p := range punct {
		keyChars[p.key] = [2]rune{p.plain, p.shift}
		keyNames[p.key] = p.name
	}

	for k, name := range map[Key]string{
		KeyNone:      "None",
		KeyBackspace: "Backspace",
		KeyDelete:    "Delete",
		KeyTab:       "Tab",
		KeyEnter:     "Enter",
		KeyEscape:    "Escape",
		KeyLeft:      "Left",
		KeyRight:     "Right",
		KeyUp:        "Up",
		KeyDown:      "Down",
		KeyHome:      "Home",
		KeyEnd:       "End",
	} {
		keyNames[k] = name
	}

	// Keypad keys type the same characters as the main row; the main row
	// owns the reverse mapping.
	for k := Key(0); k < keyCount; k++ {
		if k >= KeyPad0 && k <= KeyPadDivide {
			continue
		}
		for s, r := range keyChars[k] {
			if r == 0 {
				continue
			}
			if _, ok := runeKeys[r]; !ok {
				runeKeys[r] = keyStroke{key: k, shifted: s == 1}
			}
		}
	}
}

// Translate returns the character key produces with the given shift state,
// or false if the key is not a printable-character key.
func Translate(k Key, shifted bool) (rune, bool) {
	if k >= keyCount {
		return 0, false
	}
	s := 0
	if shifted {
		s = 1
	}
	r := keyChars[k][s]
	return r, r != 0
}

// KeyForRune returns the key and shift state that type r on a US layout.
// Hosts that only see translated characters use it to recover key presses.
func KeyForRune(r rune) (k Key, shifted bool, ok bool) {
	ks, ok := runeKeys[r]
	return ks.key, ks.shifted, ok
}

// Printable reports whether the key produces a character in either shift state.
func (k Key) Printable() bool {
	_, ok := Translate(k, false)
	return ok
}

func (k Key) String() string {
	if k < keyCount && keyNames[k] != "" {
		return keyNames[k]
	}
	return fmt.Sprintf("Key(%d)", uint8(k))
}
