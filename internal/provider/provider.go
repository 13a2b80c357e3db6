// Package provider implements the external search providers and the shared
// paginating fetcher that drives them.
package provider

import (
	"errors"
	"fmt"
	"net/http"

	"newsharvest/internal/config"
	"newsharvest/internal/models"
)

// ErrUnknownProvider indicates a provider name with no implementation.
var ErrUnknownProvider = errors.New("unknown provider")

// Provider describes one external search API. Implementations build the
// request for a result page and normalize the raw response body into
// canonical records.
type Provider interface {
	Name() string

	// PageRequest builds the GET request for one result page. Pages are 1-based.
	PageRequest(query string, page int) (*http.Request, error)

	// Parse normalizes a response body into canonical records tagged with the
	// query that produced them. A body without an article array is zero
	// results, not an error.
	Parse(body []byte, query string) ([]models.ArticleRecord, error)
}

// FromConfig builds the provider implementation named by the config entry.
func FromConfig(pc config.ProviderConfig, fc config.FetchConfig) (Provider, error) {
	switch pc.Name {
	case "gdelt":
		return NewGDELT(pc, fc), nil
	case "newsapi":
		return NewNewsAPI(pc, fc), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, pc.Name)
	}
}

// Error reports a failed fetch for a single query. The pipeline treats it as
// recoverable at query granularity.
type Error struct {
	Provider string
	Query    string
	Status   int
	Detail   string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: query %q: status %d: %s", e.Provider, e.Query, e.Status, e.Detail)
	}

	return fmt.Sprintf("%s: query %q: %s", e.Provider, e.Query, e.Detail)
}
