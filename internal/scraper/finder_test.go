package scraper

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go-jobfinder-automation/internal/cache"
	apperrors "go-jobfinder-automation/internal/errors"
	"go-jobfinder-automation/internal/models"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type step struct {
	resp *Response
	err  error
}

// fakeProvider replays scripted steps and records the requests it saw.
type fakeProvider struct {
	steps    []step
	requests []Request
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Search(_ context.Context, req Request) (*Response, error) {
	p.requests = append(p.requests, req)
	if len(p.steps) == 0 {
		return &Response{}, nil
	}
	s := p.steps[0]
	p.steps = p.steps[1:]
	return s.resp, s.err
}

type memoryCache struct {
	data map[string][]byte
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := c.data[key]
	if !ok {
		return nil, cache.ErrNotFound
	}
	return v, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *memoryCache) Close() error { return nil }

func page(token string, titles ...string) step {
	resp := &Response{}
	for _, title := range titles {
		resp.Jobs = append(resp.Jobs, models.RawJob{Title: title})
	}
	if token != "" {
		resp.Pagination = &Pagination{NextPageToken: token}
	}
	return step{resp: resp}
}

func newTestFinder(p Provider, maxPages, maxRetries int, opts ...FinderOption) *Finder {
	cfg := FinderConfig{MaxPages: maxPages, MaxRetries: maxRetries, GoogleDomain: "google.ca", GL: "ca", HL: "en"}
	opts = append([]FinderOption{WithBackOff(func() backoff.BackOff { return &backoff.ZeroBackOff{} })}, opts...)
	return NewFinder(p, cfg, zap.NewNop(), opts...)
}

var toronto = Criteria{Query: "software developer", Location: "Toronto, Ontario, Canada"}

func TestCriteria_QueryText(t *testing.T) {
	assert.Equal(t, "software developer near Toronto, ON", toronto.QueryText())
	assert.Equal(t, "dev near loc1", Criteria{Query: "dev", Location: "loc1"}.QueryText())
}

func TestFinder_Search_Paginates(t *testing.T) {
	provider := &fakeProvider{steps: []step{
		page("token_123", "Job 1"),
		page("", "Job 2"),
	}}
	finder := newTestFinder(provider, 5, 3)

	result := finder.Search(context.Background(), toronto)
	require.NoError(t, result.Err)
	assert.Equal(t, OutcomeComplete, result.Outcome)
	assert.Equal(t, 2, result.Pages)
	require.Len(t, result.Jobs, 2)
	assert.Equal(t, "Job 1", result.Jobs[0].Title)
	assert.Equal(t, "Job 2", result.Jobs[1].Title)
	for _, job := range result.Jobs {
		assert.Equal(t, "Toronto, Ontario, Canada", job.SearchLocation)
	}

	require.Len(t, provider.requests, 2)
	assert.Equal(t, "", provider.requests[0].NextPageToken)
	assert.Equal(t, "token_123", provider.requests[1].NextPageToken)
	assert.Equal(t, "software developer near Toronto, ON", provider.requests[0].Query)
	assert.Equal(t, "Toronto, Ontario, Canada", provider.requests[0].Location)
	assert.Equal(t, 2, finder.Calls())
}

func TestFinder_Search_StopsAtMaxPages(t *testing.T) {
	provider := &fakeProvider{steps: []step{
		page("t1", "A"), page("t2", "B"), page("t3", "C"),
	}}
	finder := newTestFinder(provider, 2, 0)

	result := finder.Search(context.Background(), toronto)
	assert.Len(t, result.Jobs, 2)
	assert.Equal(t, 2, finder.Calls())
}

func TestFinder_Search_StopsOnEmptyPage(t *testing.T) {
	provider := &fakeProvider{steps: []step{
		page("t1", "A"), page("t2"), page("t3", "C"),
	}}
	finder := newTestFinder(provider, 5, 0)

	result := finder.Search(context.Background(), toronto)
	assert.Len(t, result.Jobs, 1)
	assert.Equal(t, 2, finder.Calls())
}

func TestFinder_Search_RetriesTransientFailures(t *testing.T) {
	provider := &fakeProvider{steps: []step{
		{err: errors.New("connection reset")},
		{err: errors.New("i/o timeout")},
		page("", "Job 1"),
	}}
	finder := newTestFinder(provider, 5, 3)

	result := finder.Search(context.Background(), toronto)
	require.NoError(t, result.Err)
	assert.Len(t, result.Jobs, 1)
	assert.Equal(t, 3, finder.Calls())
}

func TestFinder_Search_RetriesExhausted(t *testing.T) {
	provider := &fakeProvider{}
	for i := 0; i < 10; i++ {
		provider.steps = append(provider.steps, step{err: fmt.Errorf("failure %d", i)})
	}
	finder := newTestFinder(provider, 5, 3)

	result := finder.Search(context.Background(), toronto)
	assert.Equal(t, OutcomeFailed, result.Outcome)
	assert.Empty(t, result.Jobs)
	require.Error(t, result.Err)
	assert.True(t, apperrors.IsType(result.Err, apperrors.ErrTypeFatal))
	assert.Equal(t, 4, finder.Calls())
}

func TestFinder_Search_NegativeRetriesTriesOnce(t *testing.T) {
	provider := &fakeProvider{}
	for i := 0; i < 10; i++ {
		provider.steps = append(provider.steps, step{err: fmt.Errorf("failure %d", i)})
	}
	finder := newTestFinder(provider, 0, -1)

	result := finder.Search(context.Background(), toronto)
	assert.Equal(t, OutcomeFailed, result.Outcome)
	assert.Equal(t, 1, finder.Calls())
	assert.Len(t, provider.requests, 1)
}

func TestFinder_Search_FailureOnLaterPageDiscardsPair(t *testing.T) {
	provider := &fakeProvider{steps: []step{
		page("t1", "A"),
		{err: errors.New("boom")},
	}}
	finder := newTestFinder(provider, 5, 0)

	result := finder.Search(context.Background(), toronto)
	assert.Equal(t, OutcomeFailed, result.Outcome)
	assert.Empty(t, result.Jobs)
	assert.Equal(t, 1, result.Pages)
}

func TestFinder_Search_ProviderErrorKeepsEarlierPages(t *testing.T) {
	provider := &fakeProvider{steps: []step{
		page("t1", "Job 1"),
		{resp: &Response{Error: "Invalid API key"}},
	}}
	finder := newTestFinder(provider, 5, 3)

	result := finder.Search(context.Background(), toronto)
	assert.Equal(t, OutcomeProviderError, result.Outcome)
	require.Len(t, result.Jobs, 1)
	assert.True(t, apperrors.IsType(result.Err, apperrors.ErrTypeProvider))
	assert.Equal(t, 2, finder.Calls(), "provider errors are not retried")
}

func TestFinder_Search_ProviderErrorOnFirstPage(t *testing.T) {
	provider := &fakeProvider{steps: []step{{resp: &Response{Error: "Invalid API key"}}}}
	finder := newTestFinder(provider, 5, 3)

	result := finder.Search(context.Background(), toronto)
	assert.Equal(t, OutcomeProviderError, result.Outcome)
	assert.Empty(t, result.Jobs)
}

func TestFinder_Search_UsesCache(t *testing.T) {
	mem := &memoryCache{data: map[string][]byte{}}

	first := &fakeProvider{steps: []step{page("", "Cached Job")}}
	result := newTestFinder(first, 5, 0, WithCache(mem)).Search(context.Background(), toronto)
	require.Len(t, result.Jobs, 1)
	assert.Len(t, mem.data, 1)

	second := &fakeProvider{}
	finder := newTestFinder(second, 5, 0, WithCache(mem))
	result = finder.Search(context.Background(), toronto)
	require.Len(t, result.Jobs, 1)
	assert.Equal(t, "Cached Job", result.Jobs[0].Title)
	assert.Equal(t, 0, finder.Calls())
}

func TestFinder_Search_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := &fakeProvider{steps: []step{{err: context.Canceled}}}
	result := newTestFinder(provider, 5, 3).Search(ctx, toronto)
	assert.Equal(t, OutcomeFailed, result.Outcome)
	assert.ErrorIs(t, result.Err, context.Canceled)
}

func TestDefaultBackOff(t *testing.T) {
	b := DefaultBackOff()
	assert.Equal(t, 1*time.Second, b.NextBackOff())
	assert.Equal(t, 2*time.Second, b.NextBackOff())
	assert.Equal(t, 4*time.Second, b.NextBackOff())
}

func TestRemoveDuplicates(t *testing.T) {
	jobs := []models.RawJob{
		{Title: "Dev", Company: "A", Location: "NY"},
		{Title: "Dev", Company: "A", Location: "NY"},
		{Title: "Dev", Company: "B", Location: "NY"},
		{Title: "Dev", CompanyName: "A", Location: "NY"},
	}

	unique, removed := RemoveDuplicates(jobs)
	require.Len(t, unique, 2)
	assert.Equal(t, 2, removed)
	assert.Equal(t, "A", unique[0].Company)
	assert.Equal(t, "B", unique[1].Company)

	again, removed := RemoveDuplicates(unique)
	assert.Equal(t, unique, again)
	assert.Zero(t, removed)
}
