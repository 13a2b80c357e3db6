package provider

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"newsharvest/internal/config"
	"newsharvest/internal/models"
)

// DefaultGDELTBaseURL is the GDELT DOC 2.0 article list endpoint. No
// credential is required.
const DefaultGDELTBaseURL = "https://api.gdeltproject.org/api/v2/doc/doc"

// GDELT fetches article metadata from the GDELT DOC 2.0 API.
type GDELT struct {
	baseURL  string
	pageSize int
}

// NewGDELT creates a GDELT provider from configuration.
func NewGDELT(pc config.ProviderConfig, fc config.FetchConfig) *GDELT {
	baseURL := pc.BaseURL
	if baseURL == "" {
		baseURL = DefaultGDELTBaseURL
	}

	return &GDELT{
		baseURL:  baseURL,
		pageSize: pc.EffectivePageSize(fc),
	}
}

// Name implements Provider.
func (g *GDELT) Name() string {
	return "gdelt"
}

// PageRequest implements Provider. The page cursor advances by record offset.
func (g *GDELT) PageRequest(query string, page int) (*http.Request, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("mode", "ArtList")
	params.Set("maxrecords", strconv.Itoa(g.pageSize))
	params.Set("format", "json")

	if page > 1 {
		params.Set("startrecord", strconv.Itoa((page-1)*g.pageSize+1))
	}

	return http.NewRequest(http.MethodGet, g.baseURL+"?"+params.Encode(), http.NoBody)
}

type gdeltResponse struct {
	Articles []gdeltArticle `json:"articles"`
}

type gdeltArticle struct {
	URL           string `json:"url"`
	Title         string `json:"title"`
	SeenDate      string `json:"seendate"`
	Domain        string `json:"domain"`
	Language      string `json:"language"`
	SourceCountry string `json:"sourcecountry"`
}

// Parse implements Provider. GDELT returns no article body text, so Content
// stays empty; SeenDate stands in for a publication timestamp.
func (g *GDELT) Parse(body []byte, query string) ([]models.ArticleRecord, error) {
	var resp gdeltResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	records := make([]models.ArticleRecord, 0, len(resp.Articles))

	for _, a := range resp.Articles {
		rec := models.ArticleRecord{
			URL:         a.URL,
			Title:       a.Title,
			PublishedAt: a.SeenDate,
			QueryUsed:   query,
		}
		rec.SetMeta("domain", a.Domain)
		rec.SetMeta("language", a.Language)
		rec.SetMeta("country", a.SourceCountry)

		records = append(records, rec)
	}

	return records, nil
}
