package keypiano

import (
	"fmt"
	"strings"
)

type (
	// Note is one key of the piano: its label, the computer keyboard key
	// that triggers it and the pitch it sounds at.
	Note struct {
		Label     string
		Key       string
		Frequency float64
	}

	// Notes is the ordered list of playable notes, built once at startup.
	Notes []Note
)

// DefaultNotes is the C4..C5 diatonic scale on the home row.
var DefaultNotes = Notes{
	{Label: "C", Key: "A", Frequency: 261.63},
	{Label: "D", Key: "S", Frequency: 293.66},
	{Label: "E", Key: "D", Frequency: 329.63},
	{Label: "F", Key: "F", Frequency: 349.23},
	{Label: "G", Key: "G", Frequency: 392.00},
	{Label: "A", Key: "H", Frequency: 440.00},
	{Label: "B", Key: "J", Frequency: 493.88},
	{Label: "C2", Key: "K", Frequency: 523.25},
}

// ByKey returns the note whose trigger key matches key, ignoring case.
func (n Notes) ByKey(key string) (Note, bool) {
	for _, note := range n {
		if strings.EqualFold(note.Key, key) {
			return note, true
		}
	}
	return Note{}, false
}

// Index returns the position of the note with the given label, or -1.
func (n Notes) Index(label string) int {
	for i, note := range n {
		if note.Label == label {
			return i
		}
	}
	return -1
}

// WithKeys returns a copy of the notes with trigger keys replaced according
// to keys, which maps note labels to new keys. Labels and frequencies cannot
// be changed. Every key must be a single character and keys must stay unique.
func (n Notes) WithKeys(keys map[string]string) (Notes, error) {
	ret := make(Notes, len(n))
	copy(ret, n)
	for label, key := range keys {
		i := ret.Index(label)
		if i < 0 {
			return nil, fmt.Errorf("unknown note %q in keymap", label)
		}
		if len([]rune(key)) != 1 {
			return nil, fmt.Errorf("key %q of note %s is not a single character", key, label)
		}
		ret[i].Key = strings.ToUpper(key)
	}
	seen := make(map[string]string, len(ret))
	for _, note := range ret {
		k := strings.ToUpper(note.Key)
		if other, ok := seen[k]; ok {
			return nil, fmt.Errorf("notes %s and %s are both bound to key %s", other, note.Label, k)
		}
		seen[k] = note.Label
	}
	return ret, nil
}
