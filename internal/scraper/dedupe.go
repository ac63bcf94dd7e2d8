package scraper

import (
	"go-jobfinder-automation/internal/models"
)

type jobKey struct {
	title    string
	company  string
	location string
}

// RemoveDuplicates keeps the first record per (title, company, location) as
// provided by the search results, preserving order. It returns how many were dropped.
func RemoveDuplicates(jobs []models.RawJob) ([]models.RawJob, int) {
	seen := make(map[jobKey]struct{}, len(jobs))
	unique := make([]models.RawJob, 0, len(jobs))

	for _, job := range jobs {
		key := jobKey{title: job.Title, company: job.CompanyDisplay(), location: job.Location}
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, job)
	}
	return unique, len(jobs) - len(unique)
}
