package dedup

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"go-jobfinder-automation/internal/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fingerprint identifies a posting across runs: the provider job_id when
// present, otherwise an MD5 of normalized title, company and location.
func Fingerprint(job models.RawJob) string {
	if job.JobID != "" {
		return job.JobID
	}

	key := strings.Join([]string{
		normalizeText(job.Title),
		normalizeText(job.CompanyDisplay()),
		normalizeText(job.Location),
	}, "|")
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

func normalizeText(s string) string {
	t := transform.Chain(norm.NFKC, cases.Fold())
	result, _, err := transform.String(t, s)
	if err != nil {
		result = strings.ToLower(s)
	}
	return strings.Join(strings.Fields(result), " ")
}
