package provider

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"newsharvest/internal/config"
	"newsharvest/internal/models"
)

// DefaultNewsAPIBaseURL is the NewsAPI "everything" search endpoint. An API
// key is required (see config.EnvNewsAPIKey).
const DefaultNewsAPIBaseURL = "https://newsapi.org/v2/everything"

// NewsAPI fetches article metadata from the NewsAPI everything endpoint.
type NewsAPI struct {
	baseURL  string
	apiKey   string
	language string
	pageSize int
}

// NewNewsAPI creates a NewsAPI provider from configuration.
func NewNewsAPI(pc config.ProviderConfig, fc config.FetchConfig) *NewsAPI {
	baseURL := pc.BaseURL
	if baseURL == "" {
		baseURL = DefaultNewsAPIBaseURL
	}

	language := pc.Language
	if language == "" {
		language = "en"
	}

	return &NewsAPI{
		baseURL:  baseURL,
		apiKey:   pc.APIKey,
		language: language,
		pageSize: pc.EffectivePageSize(fc),
	}
}

// Name implements Provider.
func (n *NewsAPI) Name() string {
	return "newsapi"
}

// PageRequest implements Provider.
func (n *NewsAPI) PageRequest(query string, page int) (*http.Request, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("apiKey", n.apiKey)
	params.Set("language", n.language)
	params.Set("pageSize", strconv.Itoa(n.pageSize))
	params.Set("page", strconv.Itoa(page))
	params.Set("sortBy", "publishedAt")

	return http.NewRequest(http.MethodGet, n.baseURL+"?"+params.Encode(), http.NoBody)
}

type newsAPIResponse struct {
	Status   string           `json:"status"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

// Parse implements Provider.
func (n *NewsAPI) Parse(body []byte, query string) ([]models.ArticleRecord, error) {
	var resp newsAPIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	records := make([]models.ArticleRecord, 0, len(resp.Articles))

	for _, a := range resp.Articles {
		rec := models.ArticleRecord{
			URL:         a.URL,
			Title:       a.Title,
			Content:     a.Content,
			PublishedAt: a.PublishedAt,
			QueryUsed:   query,
		}
		rec.SetMeta("source", a.Source.Name)
		rec.SetMeta("author", a.Author)
		rec.SetMeta("description", a.Description)

		records = append(records, rec)
	}

	return records, nil
}
