package cmd

import (
	"io"
	"sort"

	"go-jobfinder-automation/internal/filter"
	"go-jobfinder-automation/internal/models"
	"go-jobfinder-automation/internal/pipeline"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

// renderSummary prints accepted jobs per location, then rejection counts.
func renderSummary(w io.Writer, res *pipeline.Result) {
	printf(w, "Run %s: %s in %s\n", res.RunID, res.Status(), elapsed(res))

	t := newTable(w)
	t.AppendHeader(table.Row{"Location", "New jobs"})
	for _, loc := range res.Locations() {
		t.AppendRow(table.Row{loc, res.PerLocation[loc]})
	}
	t.AppendFooter(table.Row{"Total", len(res.Accepted)})
	t.Render()

	s := newTable(w)
	s.AppendHeader(table.Row{"Stage", "Count"})
	s.AppendRows([]table.Row{
		{"Fetched", res.Fetched},
		{"Duplicates", res.Duplicates},
		{"Already seen", res.Seen},
		{"Rejected", res.Rejected},
		{"Provider calls", res.ProviderCalls},
		{"History evicted", res.Evicted},
	})
	for _, rule := range sortedRules(res.Rejections) {
		s.AppendRow(table.Row{"  rejected: " + string(rule), res.Rejections[rule]})
	}
	s.Render()

	if len(res.FailedSearches) > 0 {
		f := newTable(w)
		f.AppendHeader(table.Row{"Failed search", "Error"})
		for _, fs := range res.FailedSearches {
			f.AppendRow(table.Row{fs.Criteria.String(), fs.Err})
		}
		f.Render()
	}
}

func renderRuns(w io.Writer, runs []models.RunRecord) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Run", "Status", "Started", "Fetched", "Accepted", "Rejected", "Calls", "Failed"})
	for _, r := range runs {
		t.AppendRow(table.Row{
			r.ID,
			r.Status,
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.Fetched,
			r.Accepted,
			r.Rejected,
			r.ProviderCalls,
			r.FailedSearches,
		})
	}
	t.Render()
}

func sortedRules(m map[filter.Rule]int) []filter.Rule {
	rules := make([]filter.Rule, 0, len(m))
	for r := range m {
		rules = append(rules, r)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i] < rules[j] })
	return rules
}
