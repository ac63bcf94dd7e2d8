package parser

import (
	"testing"

	"go-jobfinder-automation/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestParseSalary(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected models.SalaryRange
		ok       bool
	}{
		{name: "k range", input: "$100k - $120k", expected: models.SalaryRange{Min: 100000, Max: 120000}, ok: true},
		{name: "annual with separator", input: "$80,000 a year", expected: models.SalaryRange{Min: 80000, Max: 80000}, ok: true},
		{name: "hourly short", input: "$50/hr", expected: models.SalaryRange{Min: 104000, Max: 104000}, ok: true},
		{name: "hourly range", input: "$50 - $60 per hour", expected: models.SalaryRange{Min: 104000, Max: 124800}, ok: true},
		{name: "monthly", input: "$4000/month", expected: models.SalaryRange{Min: 48000, Max: 48000}, ok: true},
		{name: "bare k", input: "50k", expected: models.SalaryRange{Min: 50000, Max: 50000}, ok: true},
		{name: "bare k range", input: "100k-150k", expected: models.SalaryRange{Min: 100000, Max: 150000}, ok: true},
		{name: "decimal hourly", input: "$22.50 an hour", expected: models.SalaryRange{Min: 46800, Max: 46800}, ok: true},
		{name: "no numbers", input: "Competitive pay", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			salary, ok := ParseSalary(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.expected.Min, salary.Min, 0.001)
				assert.InDelta(t, tt.expected.Max, salary.Max, 0.001)
				assert.LessOrEqual(t, salary.Min, salary.Max)
			}
		})
	}
}

func TestIsSalaryText(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"$100k - $120k", true},
		{"€45,000 a year", true},
		{"Salary: 90000", true},
		{"Pay 25 per hour", true},
		{"Competitive pay", false},
		{"3 days ago", false},
		{"Full-time", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsSalaryText(tt.input))
		})
	}
}
