package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go-jobfinder-automation/internal/models"
	"go-jobfinder-automation/internal/parser"
)

const (
	fullTitle      = "# Weekly Job Search Results"
	condensedTitle = "# Weekly Job Search Results (Summary)"
	noJobsMessage  = "No jobs found this week."
	unknownGroup   = "Unknown Location"
)

type locationGroup struct {
	location string
	jobs     []models.Job
}

// groupByLocation normalizes jobs and buckets them by search location, sorted by name.
func groupByLocation(raw []models.RawJob) []locationGroup {
	buckets := make(map[string][]models.Job)
	for _, r := range raw {
		job := parser.ParseJob(r)
		loc := job.SearchLocation
		if loc == models.NotAvailable {
			loc = unknownGroup
		}
		buckets[loc] = append(buckets[loc], job)
	}

	groups := make([]locationGroup, 0, len(buckets))
	for loc, jobs := range buckets {
		groups = append(groups, locationGroup{location: loc, jobs: jobs})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].location < groups[j].location
	})
	return groups
}

// Markdown renders the full report with a collapsible block per location.
func Markdown(jobs []models.RawJob, generatedAt time.Time) string {
	var b strings.Builder
	b.WriteString(fullTitle + "\n\n")
	writeGenerated(&b, generatedAt)

	if len(jobs) == 0 {
		b.WriteString(noJobsMessage + "\n")
		return b.String()
	}

	groups := groupByLocation(jobs)
	writeSummary(&b, groups, len(jobs))

	for _, g := range groups {
		fmt.Fprintf(&b, "### %s (%d)\n\n", g.location, len(g.jobs))
		b.WriteString("<details>\n")
		fmt.Fprintf(&b, "<summary>Click to view %d job(s)</summary>\n\n", len(g.jobs))
		for _, job := range g.jobs {
			writeJob(&b, job)
		}
		b.WriteString("</details>\n\n")
	}
	return b.String()
}

// CondensedMarkdown keeps only the summary table, for hosts with a size cap.
func CondensedMarkdown(jobs []models.RawJob, generatedAt time.Time) string {
	var b strings.Builder
	b.WriteString(condensedTitle + "\n\n")
	writeGenerated(&b, generatedAt)

	if len(jobs) == 0 {
		b.WriteString(noJobsMessage + "\n")
		return b.String()
	}

	writeSummary(&b, groupByLocation(jobs), len(jobs))
	b.WriteString("> The full list is too long to show here. ")
	b.WriteString("Please download the `jobs-report` artifact from this workflow run to see every posting.\n")
	return b.String()
}

// Select returns full unless it is larger than limit bytes.
func Select(full, condensed string, limit int) string {
	if limit > 0 && len(full) > limit {
		return condensed
	}
	return full
}

func writeGenerated(b *strings.Builder, generatedAt time.Time) {
	if generatedAt.IsZero() {
		return
	}
	fmt.Fprintf(b, "_Generated on %s_\n\n", generatedAt.Format("2006-01-02"))
}

func writeSummary(b *strings.Builder, groups []locationGroup, total int) {
	b.WriteString("## Summary\n\n")
	b.WriteString("| Location | Jobs |\n")
	b.WriteString("|---|---|\n")
	for _, g := range groups {
		fmt.Fprintf(b, "| %s | %d |\n", escapeCell(g.location), len(g.jobs))
	}
	fmt.Fprintf(b, "\n**Total:** %d jobs\n\n", total)
}

func writeJob(b *strings.Builder, job models.Job) {
	fmt.Fprintf(b, "#### %s\n\n", job.Title)
	fmt.Fprintf(b, "- **Company:** %s\n", job.Company)
	fmt.Fprintf(b, "- **Location:** %s\n", job.Location)
	fmt.Fprintf(b, "- **Posted:** %s\n", job.PostedDate)
	if job.Salary != nil {
		fmt.Fprintf(b, "- **Salary:** %s\n", job.SalaryRaw)
	}
	if job.Link != nil {
		fmt.Fprintf(b, "- [**Apply Now**](%s)\n", *job.Link)
	}
	b.WriteString("\n")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
