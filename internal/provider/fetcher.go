package provider

import (
	"io"
	"net/http"
	"time"

	"newsharvest/internal/config"
	"newsharvest/internal/logger"
	"newsharvest/internal/models"
)

// maxResponseBytes bounds how much of a provider response body is read.
const maxResponseBytes = 4 << 20 // 4MB

const userAgent = "newsharvest/1.0"

// Fetcher runs the paginated fetch loop for any Provider. It advances a
// 1-based page cursor until the provider returns an empty page or MaxPages
// successful pages have been fetched. A rate-limited page is retried in place
// after a backoff sleep and never consumes a page slot; retries per page are
// bounded by MaxRateLimitRetries.
type Fetcher struct {
	client *http.Client
	policy config.FetchConfig
	log    *logger.Logger

	// sleep is swappable for tests.
	sleep func(time.Duration)
}

// NewFetcher creates a fetcher with the given fetch policy.
func NewFetcher(policy config.FetchConfig, log *logger.Logger) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: policy.Timeout()},
		policy: policy,
		log:    log,
		sleep:  time.Sleep,
	}
}

// FetchQuery fetches all pages of results for one query from the provider.
// Any failure is reported as a *Error carrying the provider, query and
// status detail; the caller decides whether it is fatal or skippable.
func (f *Fetcher) FetchQuery(p Provider, query string) ([]models.ArticleRecord, error) {
	var records []models.ArticleRecord

	retries := 0

	for page := 1; page <= f.policy.MaxPages; {
		body, status, err := f.fetchPage(p, query, page)
		if err != nil {
			return nil, &Error{Provider: p.Name(), Query: query, Detail: err.Error()}
		}

		if status == http.StatusTooManyRequests {
			if retries >= f.policy.MaxRateLimitRetries {
				return nil, &Error{
					Provider: p.Name(),
					Query:    query,
					Status:   status,
					Detail:   "rate limit retries exhausted",
				}
			}

			retries++

			f.log.Warn("rate limited, backing off",
				"provider", p.Name(), "query", query, "page", page, "attempt", retries)
			f.sleep(f.policy.RateLimitBackoff())

			continue
		}

		if status < 200 || status >= 300 {
			return nil, &Error{
				Provider: p.Name(),
				Query:    query,
				Status:   status,
				Detail:   http.StatusText(status),
			}
		}

		pageRecords, err := p.Parse(body, query)
		if err != nil {
			return nil, &Error{
				Provider: p.Name(),
				Query:    query,
				Status:   status,
				Detail:   "malformed response body: " + err.Error(),
			}
		}

		if len(pageRecords) == 0 {
			break
		}

		records = append(records, pageRecords...)

		f.log.Debug("page fetched",
			"provider", p.Name(), "query", query, "page", page, "records", len(pageRecords))

		page++
		retries = 0

		if page <= f.policy.MaxPages {
			f.sleep(f.policy.Delay())
		}
	}

	return records, nil
}

// fetchPage issues one page request and returns (body, statusCode, error).
// The body is only meaningful for 2xx responses.
func (f *Fetcher) fetchPage(p Provider, query string, page int) ([]byte, int, error) {
	req, err := p.PageRequest(query, page)
	if err != nil {
		return nil, 0, err
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, err
	}

	return body, resp.StatusCode, nil
}
