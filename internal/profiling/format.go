package profiling

import (
	"strings"
	"unicode"
)

// Lines renders the summary for a terminal, optionally under a title.
func (s Summary) Lines(title bool) []string {
	var lines []string
	if title {
		lines = append(lines, "Profiling summary", "")
	}
	for _, l := range s.WorkingFrame {
		lines = append(lines, normalize(l))
	}
	lines = append(lines, "", "Focus shifts")
	for _, l := range s.FocusShifts {
		lines = append(lines, "- "+normalize(l))
	}
	lines = append(lines, "", "Risk notes")
	for _, l := range s.RiskNotes {
		lines = append(lines, "- "+normalize(l))
	}
	return lines
}

// normalize collapses runs of whitespace and capitalizes the first letter.
func normalize(line string) string {
	r := []rune(strings.Join(strings.Fields(line), " "))
	for i, c := range r {
		if unicode.IsLetter(c) {
			r[i] = unicode.ToUpper(c)
			break
		}
	}
	return string(r)
}
