package keypiano_test

import (
	"strings"
	"testing"

	"github.com/keypiano/keypiano"
)

func TestDefaultNotes(t *testing.T) {
	expected := []struct {
		key  string
		freq float64
	}{
		{"A", 261.63}, {"S", 293.66}, {"D", 329.63}, {"F", 349.23},
		{"G", 392.00}, {"H", 440.00}, {"J", 493.88}, {"K", 523.25},
	}
	if len(keypiano.DefaultNotes) != len(expected) {
		t.Fatalf("expected %d notes, got %d", len(expected), len(keypiano.DefaultNotes))
	}
	for i, e := range expected {
		n := keypiano.DefaultNotes[i]
		if n.Key != e.key || n.Frequency != e.freq {
			t.Errorf("note %d: expected %s/%v, got %s/%v", i, e.key, e.freq, n.Key, n.Frequency)
		}
	}
}

func TestByKeyIgnoresCase(t *testing.T) {
	for _, n := range keypiano.DefaultNotes {
		for _, k := range []string{n.Key, strings.ToLower(n.Key)} {
			got, ok := keypiano.DefaultNotes.ByKey(k)
			if !ok {
				t.Errorf("key %q did not match any note", k)
				continue
			}
			if got.Frequency != n.Frequency {
				t.Errorf("key %q: expected %v Hz, got %v Hz", k, n.Frequency, got.Frequency)
			}
		}
	}
	if _, ok := keypiano.DefaultNotes.ByKey("Q"); ok {
		t.Error("key Q should not match any note")
	}
	if _, ok := keypiano.DefaultNotes.ByKey(""); ok {
		t.Error("empty key should not match any note")
	}
}

func TestWithKeys(t *testing.T) {
	notes, err := keypiano.DefaultNotes.WithKeys(map[string]string{"C": "z", "C2": ","})
	if err != nil {
		t.Fatalf("WithKeys failed: %v", err)
	}
	if n, ok := notes.ByKey("Z"); !ok || n.Label != "C" {
		t.Errorf("expected Z to trigger C, got %v %v", n, ok)
	}
	if n, ok := notes.ByKey(","); !ok || n.Label != "C2" {
		t.Errorf("expected , to trigger C2, got %v %v", n, ok)
	}
	if keypiano.DefaultNotes[0].Key != "A" {
		t.Error("WithKeys modified the original notes")
	}
}

func TestWithKeysErrors(t *testing.T) {
	tests := []struct {
		name string
		keys map[string]string
	}{
		{"UnknownNote", map[string]string{"X": "q"}},
		{"MultiCharKey", map[string]string{"C": "qq"}},
		{"EmptyKey", map[string]string{"C": ""}},
		{"Duplicate", map[string]string{"C": "s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := keypiano.DefaultNotes.WithKeys(tt.keys); err == nil {
				t.Errorf("expected an error for %v", tt.keys)
			}
		})
	}
}
