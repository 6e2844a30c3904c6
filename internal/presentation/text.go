package presentation

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// formatHour renders an hour tick on a 12-hour clock: 21 is "9pm".
func formatHour(hour int) string {
	h := ((hour % 24) + 24) % 24
	suffix := "am"
	if h >= 12 {
		suffix = "pm"
	}
	display := h % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d%s", display, suffix)
}

func formatTimePhrase(start, end int) string {
	if start == end {
		return "around " + formatHour(start)
	}
	return fmt.Sprintf("between %s and %s", formatHour(start), formatHour(end))
}

// placeWithArticle prefixes "the" unless the name already has an article.
func placeWithArticle(place string) string {
	trimmed := strings.TrimSpace(place)
	lowered := strings.ToLower(trimmed)
	for _, article := range []string{"the ", "a ", "an "} {
		if strings.HasPrefix(lowered, article) {
			return trimmed
		}
	}
	return "the " + trimmed
}

// labelText turns a snake_case source label into title case.
func labelText(label string) string {
	return titleCaser.String(strings.ReplaceAll(label, "_", " "))
}
