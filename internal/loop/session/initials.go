package session

import (
	"unicode"

	"github.com/tomz197/sheeraroids/internal/highscore"
)

// Initials is the three-letter name editor shown after a game over.
type Initials struct {
	letters [highscore.NameLength]rune
	cursor  int
	done    bool
}

func newInitials() *Initials {
	in := &Initials{}
	for i := range in.letters {
		in.letters[i] = 'A'
	}
	return in
}

// Type sets the letter under the cursor and moves right. Characters other
// than ASCII letters and digits are ignored.
func (in *Initials) Type(r rune) {
	if in.done || r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
		return
	}
	in.letters[in.cursor] = unicode.ToUpper(r)
	in.cursor = min(in.cursor+1, len(in.letters)-1)
}

// Left moves the cursor one slot left, stopping at the first slot.
func (in *Initials) Left() {
	in.cursor = max(in.cursor-1, 0)
}

// Right moves the cursor one slot right, stopping at the last slot.
func (in *Initials) Right() {
	in.cursor = min(in.cursor+1, len(in.letters)-1)
}

// Confirm finishes the entry.
func (in *Initials) Confirm() {
	in.done = true
}

// Done reports whether the entry was confirmed.
func (in *Initials) Done() bool {
	return in.done
}

// Cursor is the index of the slot being edited.
func (in *Initials) Cursor() int {
	return in.cursor
}

// Name returns the current initials.
func (in *Initials) Name() string {
	return string(in.letters[:])
}
