package value

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// minMonthPrefix is the shortest accepted abbreviation of a month name.
const minMonthPrefix = 3

var monthNames = [12]string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// LookupMonth returns the 1-based month whose English name has word as a
// case-insensitive prefix of at least three letters.
func LookupMonth(word string) (int, bool) {
	if len(word) < minMonthPrefix {
		return 0, false
	}

	w := strings.ToLower(word)
	for i, name := range monthNames {
		if strings.HasPrefix(name, w) {
			return i + 1, true
		}
	}

	return 0, false
}

// SuggestMonth returns the month name that best fuzzy-matches word.
func SuggestMonth(word string) (string, bool) {
	if word == "" {
		return "", false
	}

	matches := fuzzy.Find(strings.ToLower(word), monthNames[:])
	if len(matches) == 0 {
		return "", false
	}

	return title(matches[0].Str), true
}

// MonthNames returns the full English month names, capitalized.
func MonthNames() []string {
	names := make([]string, len(monthNames))
	for i, name := range monthNames {
		names[i] = title(name)
	}

	return names
}

func title(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}
