package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/sheetval/value"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "year", "stats", "edit", "clear", "quit"}

// periods are completed alongside month names.
var periods = []string{"AM", "PM"}

// completion is the state of word completion at the cursor.
type completion struct {
	matches    fuzzy.Matches // ranked best-first
	start, end int           // byte bounds of the word being completed
	idx        int           // selected candidate
	active     bool          // whether user is tab-cycling
	preText    string        // input before tab-cycling began
	preCursor  int
}

func (c *completion) begin(text string, cursor, idx int) {
	c.active = true
	c.preText = text
	c.preCursor = cursor
	c.idx = idx
}

// evalCandidates are the words worth completing in a value: month names and
// the 12-hour periods.
func evalCandidates() []string {
	return append(value.MonthNames(), periods...)
}

// wordBounds returns the run of letters around cursor and its byte bounds
// within input. Digits, punctuation and spaces all end a word, so "4mar"
// completes "mar".
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !unicode.IsLetter(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !unicode.IsLetter(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// complete returns the ranked candidates for the word at cursor. An empty
// word yields no matches, so the hint or preview line stays visible.
func complete(mode inputMode, input string, cursor int) (fuzzy.Matches, int, int) {
	word, start, end := wordBounds(input, cursor)
	if word == "" {
		return nil, start, end
	}

	candidates := evalCandidates()
	if mode == modeCtrl {
		// Only the first word is a command; the rest are its arguments.
		if strings.TrimSpace(input[:start]) != "" {
			return nil, start, end
		}

		candidates = ctrlCommands
	}

	return fuzzy.Find(word, candidates), start, end
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. The selected candidate (when tabbing) uses
// the selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	idx int,
	active bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	reserve := lipgloss.Width(sep) + lipgloss.Width(ellipsis)

	var b strings.Builder

	for i, match := range matches {
		rendered := renderCandidate(match, active && i == idx)

		if i > 0 {
			last := i == len(matches)-1
			if !last && lipgloss.Width(b.String())+lipgloss.Width(sep+rendered)+reserve > width {
				b.WriteString(sep)
				b.WriteString(ellipsis)

				break
			}

			b.WriteString(sep)
		}

		b.WriteString(rendered)
	}

	return b.String()
}

// renderCandidate renders a candidate with its matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base := suggestionStyle
	highlight := lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)

	if selected {
		base = selectedStyle
		highlight = selectedStyle.Bold(true)
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, i := range match.MatchedIndexes {
		matched[i] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
