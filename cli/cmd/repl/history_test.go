package repl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	if err := h.Load(); err != nil {
		t.Fatalf("Load() on missing file = %v", err)
	}

	for _, e := range []HistoryEntry{
		{"Mar 4", modeEval},
		{"stats", modeCtrl},
		{"Mar 4", modeEval}, // moves to the end
		{"Mar 4", modeEval}, // repeat of the last entry
		{"  ", modeEval},    // blank
		{"Mar 4", modeCtrl}, // same line, other mode
	} {
		if _, err := h.Write(e.Line, e.Mode); err != nil {
			t.Fatalf("Write(%q) = %v", e.Line, err)
		}
	}

	want := []HistoryEntry{
		{"stats", modeCtrl},
		{"Mar 4", modeEval},
		{"Mar 4", modeCtrl},
	}

	check := func(t *testing.T, h *History) {
		t.Helper()

		got := h.Entries()
		if len(got) != len(want) {
			t.Fatalf("Entries() = %v, want %v", got, want)
		}

		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Entries()[%d] = %v, want %v", i, got[i], want[i])
			}
		}
	}

	check(t, h)

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() = %v", err)
	}

	check(t, reloaded)

	if _, err := reloaded.Entry(len(want)); err != ErrOutOfBounds {
		t.Errorf("Entry(%d) error = %v, want %v", len(want), err, ErrOutOfBounds)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got, want := string(data), "C:stats\nE:Mar 4\nC:Mar 4\n"; got != want {
		t.Errorf("history file = %q, want %q", got, want)
	}
}

func TestHistory_Unprefixed(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	if err := os.WriteFile(path, []byte("3/4/2023\n\nC:quit\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	if h.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", h.Len())
	}

	if e, _ := h.Entry(0); e != (HistoryEntry{"3/4/2023", modeEval}) {
		t.Errorf("Entry(0) = %v", e)
	}

	if e, _ := h.Entry(1); e != (HistoryEntry{"quit", modeCtrl}) {
		t.Errorf("Entry(1) = %v", e)
	}
}

func TestHistory_Limit(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	var b strings.Builder
	for i := range historyLimit + 10 {
		b.WriteString("E:")
		b.WriteString(strings.Repeat("1", i+1))
		b.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	if h.Len() != historyLimit {
		t.Fatalf("Len() = %d, want %d", h.Len(), historyLimit)
	}

	if e, _ := h.Entry(0); len(e.Line) != 11 {
		t.Errorf("oldest entry has %d digits, want 11", len(e.Line))
	}

	if _, err := h.Write("Jan 1", modeEval); err != nil {
		t.Fatal(err)
	}

	if h.Len() != historyLimit {
		t.Errorf("Len() after Write = %d, want %d", h.Len(), historyLimit)
	}
}
