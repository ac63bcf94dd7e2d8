package filter

import (
	"net/url"
	"strings"
	"unicode"

	"go-jobfinder-automation/internal/models"
)

// hasReputableSource reports whether any apply option points at a trusted
// site or at the company's own domain. An empty trusted list accepts everything.
func (m *Matcher) hasReputableSource(job models.RawJob) bool {
	if len(m.trusted) == 0 {
		return true
	}

	company := alphanumeric(job.CompanyDisplay())
	for _, opt := range job.ApplyOptions {
		link := strings.ToLower(opt.Link)
		label := strings.ToLower(opt.Title)
		if containsAny(link, m.trusted) || containsAny(label, m.trusted) {
			return true
		}

		//company-owned domain, hostname only so aggregator slugs don't count
		if company != "" && strings.Contains(alphanumeric(hostname(opt.Link)), company) {
			return true
		}
	}
	return false
}

func hostname(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	if !strings.Contains(link, "://") {
		link = "https://" + link
	}

	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}

func alphanumeric(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
