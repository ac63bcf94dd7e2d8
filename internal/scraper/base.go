// Provider abstraction for the job search backend.
// Search results come back one page at a time.

package scraper

import (
	"context"
	"fmt"

	"go-jobfinder-automation/internal/models"
	"go-jobfinder-automation/internal/parser"
)

// Request is one page request to the search provider.
type Request struct {
	Query         string
	Location      string
	GoogleDomain  string
	GL            string
	HL            string
	NextPageToken string
}

type Pagination struct {
	NextPageToken string `json:"next_page_token,omitempty"`
}

// Response is one page of results. Error carries a provider-reported
// application error; transport failures are returned as Go errors instead.
type Response struct {
	Jobs       []models.RawJob `json:"jobs_results"`
	Pagination *Pagination     `json:"serpapi_pagination,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// NextPageToken returns the continuation token, or "" on the last page.
func (r *Response) NextPageToken() string {
	if r.Pagination == nil {
		return ""
	}
	return r.Pagination.NextPageToken
}

// Provider defines the interface a search backend must implement
type Provider interface {
	//Search fetches a single page. An error means the call can be retried.
	Search(ctx context.Context, req Request) (*Response, error)

	//Name is the provider name used in logs
	Name() string
}

// Criteria is one (query, location) pair.
type Criteria struct {
	Query    string
	Location string
}

// QueryText is the free-text query sent to the provider, e.g.
// "software developer near Toronto, ON".
func (c Criteria) QueryText() string {
	return fmt.Sprintf("%s near %s", c.Query, parser.ShortenLocation(c.Location))
}

func (c Criteria) String() string {
	return fmt.Sprintf("%q @ %q", c.Query, c.Location)
}
