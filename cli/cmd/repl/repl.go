package repl

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/sheetval/log"
	"github.com/ardnew/sheetval/value"
)

// editDoneMsg carries the lines composed in the external editor.
type editDoneMsg struct{ lines []string }

// editErrorMsg is sent when the editor could not be run.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

const helpMessage = `
: Commands (press Esc to toggle mode):

  help       Print this cruft
  year [N]   Show or set the reference year (0 follows the clock)
  stats      Show cache statistics
  edit       Compose several values in external $EDITOR
  clear      Clear screen
  quit       Exit REPL

Usage:
  Type a value and press Enter to parse it
  The line below the prompt previews the result as you type
  Month names and AM/PM complete as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C on empty line or Ctrl+D to exit`

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
	modeCount
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	dateStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

func (mode inputMode) prompt() string {
	if mode == modeCtrl {
		return ctrlPromptStyle.Render(ctrlPrompt)
	}

	return promptStyle.Render(evalPrompt)
}

// echo formats the submitted line with its prompt.
func (mode inputMode) echo(input string) string {
	return mode.prompt() + inputStyle.Render(input)
}

// Config holds what the REPL needs to build its parser.
type Config struct {
	// Year is the initial reference year. Zero follows the clock.
	Year int
	// Cache is shared by every parser the REPL builds. It may be nil.
	Cache *value.Cache
	// CacheDir holds the history file.
	CacheDir string
	Logger   log.Logger
}

func (c Config) parser(year int) *value.Parser {
	opts := []value.Option{value.WithLogger(c.Logger)}

	if c.Cache != nil {
		opts = append(opts, value.WithCache(c.Cache))
	}

	if year != 0 {
		opts = append(opts, value.WithReferenceYear(year))
	}

	return value.New(opts...)
}

// stash is the saved input of the inactive mode.
type stash struct {
	text   string
	cursor int
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc    func() context.Context
	cfg        Config
	year       int
	parser     *value.Parser
	input      textinput.Model
	history    *History
	historyIdx int
	comp       completion
	preview    string // rendered outcome of the current input
	width      int    // terminal width for ellipsization
	quitting   bool
	mode       inputMode
	stashed    [modeCount]stash
}

// Run starts the REPL.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	cfg.Logger.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", cfg.CacheDir),
		slog.Int("year", cfg.Year),
	)

	history := NewHistory(filepath.Join(cfg.CacheDir, baseHistory))
	if err := history.Load(); err != nil {
		cfg.Logger.WarnContext(ctx, "could not load history",
			slog.String("path", history.Path()),
			slog.Any("error", err))
	}

	cfg.Logger.TraceContext(
		ctx,
		"repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	p := tea.NewProgram(newModel(ctx, cfg, history), tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, cfg Config, history *History) model {
	ti := textinput.New()
	ti.Prompt = modeEval.prompt()
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		cfg:        cfg,
		year:       cfg.Year,
		parser:     cfg.parser(cfg.Year),
		input:      ti,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case editDoneMsg:
		if len(msg.lines) == 0 {
			return m, tea.Println(hintStyle.Render("🗴 edit cancelled."))
		}

		cmds := make([]tea.Cmd, 0, 2*len(msg.lines))
		for _, line := range msg.lines {
			cmds = append(cmds, m.evaluate(line)...)
		}

		return m, tea.Sequence(cmds...)

	case editErrorMsg:
		return m, tea.Println(
			errorStyle.Render("🗴 error: " + msg.err.Error()),
		)
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		hint := "Type a value or press Esc for commands"
		if m.mode == modeCtrl {
			hint = "Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))

	case len(m.comp.matches) > 0:
		b.WriteString(renderCandidateBar(
			m.comp.matches, m.comp.idx, m.comp.active, m.width,
		))

	case m.mode == modeEval:
		b.WriteString(m.preview)
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.cfg.Logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.comp.active = false
		m.historyIdx = m.history.Len()
		m.refresh(false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.comp.active || len(m.comp.matches) == 0 {
			return m.submit()
		}
		// Lock in the current candidate without submitting.
		m.comp.active = false
		m.refresh(true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.seekHistory(-1, false), nil

	case tea.KeyDown:
		return m.seekHistory(1, false), nil

	case tea.KeyShiftUp:
		return m.seekHistory(-1, true), nil

	case tea.KeyShiftDown:
		return m.seekHistory(1, true), nil

	case tea.KeyEsc:
		if m.comp.active {
			m.comp.active = false
			m.input.SetValue(m.comp.preText)
			m.input.SetCursor(m.comp.preCursor)
			m.refresh(false)

			return m, nil
		}

		return m.switchToMode((m.mode + 1) % modeCount), nil

	case tea.KeyRunes:
		// Space breaks out of tab-cycling.
		if m.comp.active && msg.String() == " " {
			m.comp.active = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		m.refresh(true)

		return m, cmd
	}

	// Any other key (backspace, delete, arrows, etc.) edits without
	// auto-confirming a completion.
	var cmd tea.Cmd

	m.comp.active = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refresh(false)

	return m, cmd
}

// cycle steps through completion candidates in direction dir.
func (m model) cycle(dir int) model {
	n := len(m.comp.matches)
	if n == 0 {
		return m
	}

	// Single candidate: complete and confirm immediately.
	if n == 1 {
		m.replaceWord(m.comp.matches[0].Str)
		m.comp = completion{idx: -1}
		m.refreshPreview()

		return m
	}

	switch {
	case m.comp.active:
		m.comp.idx = (m.comp.idx + dir + n) % n
	case dir > 0:
		m.comp.begin(m.input.Value(), m.input.Position(), 0)
	default:
		m.comp.begin(m.input.Value(), m.input.Position(), n-1)
	}

	m.replaceWord(m.comp.matches[m.comp.idx].Str)
	m.refreshPreview()

	return m
}

// replaceWord replaces the word under completion and moves the cursor past
// it.
func (m *model) replaceWord(replacement string) {
	input := m.input.Value()
	cursor := m.comp.start + len(replacement)

	m.input.SetValue(input[:m.comp.start] + replacement + input[m.comp.end:])
	m.input.SetCursor(cursor)

	m.comp.end = cursor
}

// refresh recomputes completions and the preview for the current input.
// With autoConfirm, a word that already spells its sole candidate stops
// being completed.
func (m *model) refresh(autoConfirm bool) {
	defer m.refreshPreview()

	active, idx := m.comp.active, m.comp.idx
	m.comp.matches, m.comp.start, m.comp.end = complete(m.mode, m.input.Value(), m.input.Position())
	m.comp.active = active

	if active {
		m.comp.idx = idx
	} else {
		m.comp.idx = -1
	}

	if !autoConfirm || len(m.comp.matches) != 1 {
		return
	}

	// Case is not significant to the parser.
	if strings.EqualFold(m.input.Value()[m.comp.start:m.comp.end], m.comp.matches[0].Str) {
		m.comp = completion{idx: -1}
	}
}

func (m *model) refreshPreview() {
	input := strings.TrimSpace(m.input.Value())
	if m.mode != modeEval || input == "" {
		m.preview = ""

		return
	}

	o := m.parser.Evaluate(m.ctxFunc(), input)
	if o.OK() {
		m.preview = hintStyle.Render("= " + describe(o))
	} else {
		m.preview = hintStyle.Render("… " + o.Reason().String())
	}
}

func (m model) submit() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	mode := m.mode

	m.stashed[mode] = stash{}
	m.input.SetValue("")
	m.preview = ""
	m.comp = completion{idx: -1}

	_, _ = m.history.Write(input, mode)
	m.historyIdx = m.history.Len()

	m.cfg.Logger.TraceContext(
		m.ctxFunc(),
		"repl submit",
		slog.String("input", input),
		slog.Int("mode", int(mode)),
	)

	if mode == modeCtrl {
		return m.executeCommand(input)
	}

	return m, tea.Sequence(m.evaluate(input)...)
}

// evaluate parses input and returns the commands printing the echo line and
// the outcome.
func (m model) evaluate(input string) []tea.Cmd {
	o := m.parser.Evaluate(m.ctxFunc(), input)

	m.cfg.Logger.TraceContext(
		m.ctxFunc(),
		"repl eval result",
		slog.String("input", input),
		slog.Any("outcome", o),
	)

	echo := tea.Println(modeEval.echo(input))

	if o.OK() {
		return []tea.Cmd{echo, tea.Println(renderValue(o))}
	}

	cmds := []tea.Cmd{echo}

	if caret := caretLine(o.Err, lipgloss.Width(evalPrompt)); caret != "" {
		cmds = append(cmds, tea.Println(errorStyle.Render(caret)))
	}

	return append(cmds, tea.Println(errorStyle.Render("error: "+failure(o))))
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echo := tea.Println(modeCtrl.echo(input))

	cmd, args := parts[0], parts[1:]

	m.cfg.Logger.TraceContext(
		m.ctxFunc(),
		"repl exec command",
		slog.String("command", cmd),
		slog.Any("args", args),
	)

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage))

	case "y", "year":
		var msg string

		m, msg = m.setYear(args)

		return m, tea.Sequence(echo, tea.Println(msg))

	case "s", "stats":
		return m, tea.Sequence(echo, tea.Println(m.stats()))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + cmd + " (try 'help')"),
		)
	}
}

// setYear shows the reference year, or replaces the parser when args holds
// a new one.
func (m model) setYear(args []string) (model, string) {
	if len(args) == 0 {
		if m.year == 0 {
			return m, resultStyle.Render("reference year follows the clock")
		}

		return m, resultStyle.Render("reference year " + strconv.Itoa(m.year))
	}

	year, err := strconv.Atoi(args[0])
	if err != nil || year < 0 {
		return m, errorStyle.Render("invalid year: " + args[0])
	}

	m.year = year
	m.parser = m.cfg.parser(year)

	return m.setYear(nil)
}

func (m model) stats() string {
	if m.cfg.Cache == nil {
		return hintStyle.Render("cache disabled")
	}

	hits, misses := m.cfg.Cache.Stats()

	return resultStyle.Render(fmt.Sprintf("entries %d, hits %d, misses %d",
		m.cfg.Cache.Len(), hits, misses))
}

func (m model) edit() tea.Cmd {
	cmd := &editCommand{
		seed:    m.stashed[modeEval].text,
		ctxFunc: m.ctxFunc,
		logger:  m.cfg.Logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		if err != nil {
			return editErrorMsg{err: err}
		}

		return editDoneMsg{lines: cmd.lines}
	})
}

// seekHistory moves through history in direction dir. Unless sameMode is
// set, the input mode follows the recalled entry.
func (m model) seekHistory(dir int, sameMode bool) model {
	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		entry, err := m.history.Entry(i)
		if err != nil {
			break
		}

		if sameMode && entry.Mode != m.mode {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.input.SetValue(entry.Line)
		m.input.SetCursor(len(entry.Line))
		m.refresh(false)

		return m
	}

	// Walking forward past the newest entry clears the line.
	if dir > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		m.refresh(false)
	}

	return m
}

// switchToMode switches to the given mode, preserving each mode's input.
func (m model) switchToMode(mode inputMode) model {
	m.stashed[m.mode] = stash{text: m.input.Value(), cursor: m.input.Position()}

	m.mode = mode
	m.input.Prompt = mode.prompt()
	m.input.SetValue(m.stashed[mode].text)
	m.input.SetCursor(m.stashed[mode].cursor)
	m.refresh(false)

	return m
}
