package repl

import (
	"strings"
	"testing"
)

// tea.Println appends its own newline.
func TestHelpMessage(t *testing.T) {
	if strings.HasSuffix(helpMessage, "\n") {
		t.Error("helpMessage ends with a newline")
	}

	for _, cmd := range ctrlCommands {
		if !strings.Contains(helpMessage, "\n  "+cmd+" ") {
			t.Errorf("helpMessage does not list %q", cmd)
		}
	}
}
