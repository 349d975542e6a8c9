// Package highscore keeps the leaderboard: a descending list of at most
// MaxEntries runs, backed by a pluggable Store.
package highscore

import (
	"errors"
	"slices"
	"strings"
	"unicode"
)

// MaxEntries is the leaderboard length.
const MaxEntries = 10

// NameLength is the number of initials a player enters.
const NameLength = 3

// ErrEmptyName is returned when a run is recorded without a usable name.
var ErrEmptyName = errors.New("highscore: empty name")

// Entry is a single completed run.
type Entry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Defaults seeds an empty leaderboard.
func Defaults() []Entry {
	return []Entry{
		{Name: "LBL", Score: 10000},
		{Name: "SHR", Score: 8000},
		{Name: "AWS", Score: 6000},
		{Name: "GPT", Score: 4000},
		{Name: "CPU", Score: 2000},
	}
}

// NormalizeName upper-cases letters, drops everything that is not a letter
// or digit and truncates to NameLength runes.
func NormalizeName(name string) string {
	var b strings.Builder
	n := 0
	for _, r := range strings.ToUpper(name) {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		b.WriteRune(r)
		n++
		if n == NameLength {
			break
		}
	}
	return b.String()
}

// Insert places e into entries, which must already be sorted, and returns
// the list truncated to MaxEntries. Equal scores keep their arrival order.
func Insert(entries []Entry, e Entry) []Entry {
	pos := len(entries)
	for i, existing := range entries {
		if e.Score > existing.Score {
			pos = i
			break
		}
	}
	out := slices.Insert(slices.Clone(entries), pos, e)
	if len(out) > MaxEntries {
		out = out[:MaxEntries]
	}
	return out
}

// Sort orders entries by score, highest first, keeping ties stable, and
// truncates to MaxEntries.
func Sort(entries []Entry) []Entry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b Entry) int {
		return b.Score - a.Score
	})
	if len(out) > MaxEntries {
		out = out[:MaxEntries]
	}
	return out
}

// Qualifies reports whether score earns a place on the leaderboard.
func Qualifies(entries []Entry, score int) bool {
	if score <= 0 {
		return false
	}
	if len(entries) < MaxEntries {
		return true
	}
	return score > entries[len(entries)-1].Score
}
