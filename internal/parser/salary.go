package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"go-jobfinder-automation/internal/models"
)

const (
	hoursPerYear  = 2080
	monthsPerYear = 12
)

var (
	salaryNumberRegex  = regexp.MustCompile(`\$?(\d+(?:\.\d+)?)(k)?`)
	salaryKeywordRegex = regexp.MustCompile(`salary|pay|compensation`)
)

// ParseSalary extracts an annualised range from free text such as
// "$50 - $60 per hour" or "100k-150k". Hourly figures assume 2080 hours a year.
func ParseSalary(text string) (models.SalaryRange, bool) {
	text = strings.ReplaceAll(strings.ToLower(text), ",", "")
	if text == "" {
		return models.SalaryRange{}, false
	}

	multiplier := 1.0
	switch {
	case strings.Contains(text, "hour") || strings.Contains(text, "/hr"):
		multiplier = hoursPerYear
	case strings.Contains(text, "month") || strings.Contains(text, "/mo"):
		multiplier = monthsPerYear
	}

	matches := salaryNumberRegex.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return models.SalaryRange{}, false
	}

	var out models.SalaryRange
	for i, m := range matches {
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if m[2] == "k" {
			value *= 1000
		}
		value *= multiplier

		if i == 0 || value < out.Min {
			out.Min = value
		}
		if i == 0 || value > out.Max {
			out.Max = value
		}
	}
	return out, true
}

// IsSalaryText reports whether text looks like a pay figure: a currency
// symbol or pay keyword together with at least one digit.
func IsSalaryText(text string) bool {
	hasMarker := salaryKeywordRegex.MatchString(strings.ToLower(text))
	hasDigit := false
	for _, r := range text {
		if unicode.Is(unicode.Sc, r) {
			hasMarker = true
		}
		if unicode.IsDigit(r) {
			hasDigit = true
		}
	}
	return hasMarker && hasDigit
}
