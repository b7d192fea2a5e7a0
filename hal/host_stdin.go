package hal

import (
	"bufio"
	"io"
	"unicode/utf8"
)

// stdinKeys feeds keys typed on a console into q until r is exhausted.
// In cooked terminal mode keys arrive after Enter.
func stdinKeys(r io.Reader, q *KeyQueue) {
	br := bufio.NewReader(r)
	for {
		c, size, err := br.ReadRune()
		if err != nil {
			return
		}
		if c == utf8.RuneError && size == 1 {
			continue
		}
		q.Push(keyFromRune(c))
	}
}

func keyFromRune(c rune) KeyEvent {
	switch c {
	case 0x1b:
		return KeyEvent{Code: KeyEscape, Press: true}
	case '\r', '\n':
		return KeyEvent{Code: KeyEnter, Press: true}
	case ' ':
		return KeyEvent{Code: KeySpace, Press: true, Rune: ' '}
	}
	return KeyEvent{Press: true, Rune: c}
}
