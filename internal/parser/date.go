package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var relativeDateRegex = regexp.MustCompile(`(\d+)\+?\s*(day|week|month)`)

var sameDayMarkers = []string{"just now", "today", "hour", "minute", "second"}

// ParseDaysAgo converts a relative posting date ("3 days ago", "30+ days ago",
// "yesterday") into a number of days. ok is false when the text has no age in it.
func ParseDaysAgo(text string) (days int, ok bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return 0, false
	}

	for _, marker := range sameDayMarkers {
		if strings.Contains(text, marker) {
			return 0, true
		}
	}
	if strings.Contains(text, "yesterday") {
		return 1, true
	}

	match := relativeDateRegex.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}

	switch match[2] {
	case "week":
		return n * 7, true
	case "month":
		return n * 30, true
	default:
		return n, true
	}
}
