package input

import (
	"bufio"
	"time"
	"unicode"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals only report key repeats, never releases.
const keyHoldDuration = 30 * time.Millisecond

// Input represents the current frame's input state.
type Input struct {
	Quit      bool
	Left      bool
	Right     bool
	Up        bool
	Down      bool
	Space     bool
	Pause     bool
	Enter     bool
	Backspace bool
	Escape    bool

	// ArrowLeft and ArrowRight are set only by the arrow keys, so menus can
	// move a cursor while letters are being typed.
	ArrowLeft  bool
	ArrowRight bool

	Number int
	// Typed holds the ASCII letters and digits received this frame, in order.
	Typed []rune
}

// keyState tracks the last time each key was pressed.
type keyState struct {
	quit       time.Time
	left       time.Time
	right      time.Time
	up         time.Time
	down       time.Time
	space      time.Time
	pause      time.Time
	enter      time.Time
	backspace  time.Time
	escape     time.Time
	arrowLeft  time.Time
	arrowRight time.Time
	number     time.Time
	numberVal  int
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch     chan byte
	state  keyState
	closed bool
	now    func() time.Time
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := newStream()
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

func newStream() *Stream {
	return &Stream{
		ch:    make(chan byte, 128),
		state: keyState{numberVal: -1},
		now:   time.Now,
	}
}

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool {
	return s.closed
}

// ResetKeyInput forgets every held key, so a key held on one screen does not
// act on the next.
func ResetKeyInput(s *Stream) {
	s.state = keyState{numberVal: -1}
}

// ReadInput drains all available bytes from the stream (non-blocking).
// Handles escape sequences for arrow keys and accumulates all pressed keys.
// Uses key state persistence to allow detecting simultaneous key combinations.
func ReadInput(s *Stream) Input {
	now := s.now()
	var buf []byte

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	var typed []rune
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI (ESC [) and SS3 (ESC O) arrow sequences.
		if b == '\x1b' && i+2 < len(buf) && (buf[i+1] == '[' || buf[i+1] == 'O') {
			handled := true
			switch buf[i+2] {
			case 'A':
				s.state.up = now
			case 'B':
				s.state.down = now
			case 'C':
				s.state.right = now
				s.state.arrowRight = now
			case 'D':
				s.state.left = now
				s.state.arrowLeft = now
			default:
				handled = false
			}
			if handled {
				i += 2
				continue
			}
		}

		applyByteToState(&s.state, b, now)
		if b < unicode.MaxASCII && (unicode.IsLetter(rune(b)) || unicode.IsDigit(rune(b))) {
			typed = append(typed, rune(b))
		}
	}

	held := func(t time.Time) bool { return now.Sub(t) < keyHoldDuration }
	input := Input{
		Quit:       held(s.state.quit),
		Left:       held(s.state.left),
		Right:      held(s.state.right),
		Up:         held(s.state.up),
		Down:       held(s.state.down),
		Space:      held(s.state.space),
		Pause:      held(s.state.pause),
		Enter:      held(s.state.enter),
		Backspace:  held(s.state.backspace),
		Escape:     held(s.state.escape),
		ArrowLeft:  held(s.state.arrowLeft),
		ArrowRight: held(s.state.arrowRight),
		Number:     -1,
		Typed:      typed,
	}

	// Number is only set if recently pressed
	if held(s.state.number) {
		input.Number = s.state.numberVal
	}

	return input
}

// applyByteToState updates the key state timestamps based on the pressed byte.
func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q':
		state.quit = now
	case 'a', 'A', 'j', 'J':
		state.left = now
	case 'd', 'D', 'l', 'L':
		state.right = now
	case 'w', 'W', 'i', 'I':
		state.up = now
	case 's', 'S', 'k', 'K':
		state.down = now
	case 'p', 'P':
		state.pause = now
	case ' ':
		state.space = now
	case '\n', '\r':
		state.enter = now
	case '\b', '\x7f':
		state.backspace = now
	case '\x1b':
		state.escape = now
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		state.number = now
		state.numberVal = int(b - '0')
	}
}
