package filter

import (
	"fmt"
	"regexp"
	"strings"

	"go-jobfinder-automation/internal/models"
)

// Rules is the per-run filter configuration.
type Rules struct {
	BlacklistCompanies []string
	ExcludeKeywords    []string
	ScheduleTypes      []string
	TrustedDomains     []string
}

type Rule string

const (
	RuleBlacklist Rule = "blacklist"
	RuleKeyword   Rule = "keyword"
	RuleSchedule  Rule = "schedule_type"
	RuleSource    Rule = "source"
	RuleRecency   Rule = "recency"
	RuleSalary    Rule = "salary"
)

// Decision is the outcome of a filter check. Rule and Reason are empty when Accepted.
type Decision struct {
	Accepted bool
	Rule     Rule
	Reason   string
}

func accept() Decision {
	return Decision{Accepted: true}
}

func reject(rule Rule, format string, args ...any) Decision {
	return Decision{Rule: rule, Reason: fmt.Sprintf(format, args...)}
}

type keywordPattern struct {
	keyword string
	regex   *regexp.Regexp
}

// Matcher applies Rules to raw records. It is immutable once built.
type Matcher struct {
	blacklist     map[string]struct{}
	keywords      []keywordPattern
	scheduleTypes []string
	trusted       []string
}

func NewMatcher(rules Rules) *Matcher {
	m := &Matcher{
		blacklist: make(map[string]struct{}, len(rules.BlacklistCompanies)),
	}

	for _, company := range rules.BlacklistCompanies {
		if c := normalizeName(company); c != "" {
			m.blacklist[c] = struct{}{}
		}
	}

	for _, kw := range rules.ExcludeKeywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		m.keywords = append(m.keywords, keywordPattern{keyword: kw, regex: keywordRegex(kw)})
	}

	m.scheduleTypes = lowerAll(rules.ScheduleTypes)
	m.trusted = lowerAll(rules.TrustedDomains)
	return m
}

// Evaluate runs the rules in order and returns the first rejection.
func (m *Matcher) Evaluate(job models.RawJob) Decision {
	//1. blacklist
	company := job.CompanyDisplay()
	if _, blocked := m.blacklist[normalizeName(company)]; blocked {
		return reject(RuleBlacklist, "Blacklisted company: %s", company)
	}

	//2. excluded keywords in title
	if kw, hit := m.matchKeyword(job.Title); hit {
		return reject(RuleKeyword, "Excluded keyword '%s' in title: %s", kw, job.Title)
	}

	//3. schedule type, absent means no opinion
	if schedule := job.ScheduleType(); schedule != "" && len(m.scheduleTypes) > 0 {
		if !containsAny(strings.ToLower(schedule), m.scheduleTypes) {
			return reject(RuleSchedule, "Invalid schedule type: %s", schedule)
		}
	}

	//4. application sources
	if len(job.ApplyOptions) == 0 {
		return reject(RuleSource, "No application options found")
	}
	if !m.hasReputableSource(job) {
		return reject(RuleSource, "No reputable application source found")
	}

	return accept()
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = normalizeName(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func containsAny(text string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(text, f) {
			return true
		}
	}
	return false
}
