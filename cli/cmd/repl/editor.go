package repl

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/sheetval/log"
	"github.com/ardnew/sheetval/value"
)

const defaultEditor = "vi"

// editorBanner heads the file opened in the editor.
const editorBanner = "# One value per line. Lines starting with # are ignored.\n"

// editCommand implements [tea.ExecCommand]. It opens the user's editor on a
// scratch file and collects the values written there.
type editCommand struct {
	seed    string
	ctxFunc func() context.Context
	logger  log.Logger
	lines   []string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run opens the editor and reads back the values. An emptied file leaves
// c.lines empty.
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	f, err := os.CreateTemp("", "sheetval-repl-*.txt")
	if err != nil {
		return err
	}

	path := f.Name()

	defer os.Remove(path)

	_, err = io.WriteString(f, editorBanner+c.seed+"\n")
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		return err
	}

	if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
		return err
	}

	r, err := os.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	c.lines, err = readValues(r)

	c.logger.TraceContext(
		ctx,
		"editor values read",
		slog.Int("count", len(c.lines)),
	)

	return err
}

// readValues returns the non-blank, non-comment lines of r.
func readValues(r io.Reader) ([]string, error) {
	var lines []string

	for line, err := range value.Lines(r) {
		if err != nil {
			return lines, err
		}

		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		lines = append(lines, line)
	}

	return lines, nil
}

// runEditor launches the user's editor on the given file path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
