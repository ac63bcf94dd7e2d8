package parser

import (
	"strings"

	"go-jobfinder-automation/internal/models"
)

// ParseJob builds the display view of a raw record. Missing text fields become "N/A".
func ParseJob(raw models.RawJob) models.Job {
	job := models.Job{
		Title:          orNotAvailable(raw.Title),
		Company:        orNotAvailable(raw.CompanyDisplay()),
		Location:       orNotAvailable(raw.Location),
		PostedDate:     models.NotAvailable,
		SearchLocation: orNotAvailable(raw.SearchLocation),
		SalaryRaw:      models.NotAvailable,
	}

	if raw.ShareLink != "" {
		link := raw.ShareLink
		job.Link = &link
	}

	for _, ext := range raw.Extensions {
		lower := strings.ToLower(ext)
		if strings.Contains(lower, "ago") || strings.Contains(lower, "day") {
			job.PostedDate = ext
			break
		}
	}

	//salary: extension text first, then detected_extensions
	for _, ext := range raw.Extensions {
		if !IsSalaryText(ext) {
			continue
		}
		if salary, ok := ParseSalary(ext); ok {
			job.Salary = &salary
			job.SalaryRaw = ext
			break
		}
	}
	if job.Salary == nil && raw.DetectedExtensions != nil && raw.DetectedExtensions.Salary != "" {
		if salary, ok := ParseSalary(raw.DetectedExtensions.Salary); ok {
			job.Salary = &salary
			job.SalaryRaw = raw.DetectedExtensions.Salary
		}
	}

	return job
}

// DaysAgo re-derives the posting age from the normalized posted date.
func DaysAgo(job models.Job) (int, bool) {
	if job.PostedDate == models.NotAvailable {
		return 0, false
	}
	return ParseDaysAgo(job.PostedDate)
}

func orNotAvailable(s string) string {
	if strings.TrimSpace(s) == "" {
		return models.NotAvailable
	}
	return s
}
