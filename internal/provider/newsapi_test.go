package provider

import (
	"testing"

	"newsharvest/internal/config"
)

const newsAPIFixture = `{
  "status": "ok",
  "totalResults": 2,
  "articles": [
    {
      "source": {"id": "example", "name": "Example News"},
      "author": "A. Reporter",
      "title": "Grid storage hits record",
      "description": "Storage deployments accelerate.",
      "url": "https://example.com/grid",
      "publishedAt": "2026-08-20T08:30:00Z",
      "content": "Full content here."
    },
    {
      "source": {"id": null, "name": "Other Wire"},
      "author": null,
      "title": "EV adoption rises",
      "description": null,
      "url": "https://example.org/ev",
      "publishedAt": "2026-08-21T10:00:00Z",
      "content": null
    }
  ]
}`

func newTestNewsAPI() *NewsAPI {
	return NewNewsAPI(
		config.ProviderConfig{Name: "newsapi", APIKey: "test-key"},
		config.FetchConfig{PageSize: 100},
	)
}

func TestNewsAPI_Parse(t *testing.T) {
	records, err := newTestNewsAPI().Parse([]byte(newsAPIFixture), "grid storage deployment")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}

	first := records[0]

	if first.URL != "https://example.com/grid" || first.Title != "Grid storage hits record" {
		t.Errorf("Record 0 mismatch: %+v", first)
	}

	if first.Content != "Full content here." {
		t.Errorf("Content = %q", first.Content)
	}

	if first.QueryUsed != "grid storage deployment" {
		t.Errorf("QueryUsed = %q", first.QueryUsed)
	}

	if first.Meta["source"] != "Example News" || first.Meta["author"] != "A. Reporter" {
		t.Errorf("Meta = %v", first.Meta)
	}

	second := records[1]

	if second.Content != "" {
		t.Errorf("Null content should become empty string, got %q", second.Content)
	}

	if _, ok := second.Meta["author"]; ok {
		t.Error("Null author should not produce a meta entry")
	}
}

func TestNewsAPI_Parse_NoArticles(t *testing.T) {
	records, err := newTestNewsAPI().Parse([]byte(`{"status":"ok","totalResults":0}`), "q")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(records) != 0 {
		t.Errorf("Expected 0 records, got %d", len(records))
	}
}

func TestNewsAPI_Parse_Malformed(t *testing.T) {
	if _, err := newTestNewsAPI().Parse([]byte("not json"), "q"); err == nil {
		t.Error("Expected error for malformed body")
	}
}

func TestNewsAPI_PageRequest(t *testing.T) {
	n := newTestNewsAPI()

	req, err := n.PageRequest("grid storage deployment", 2)
	if err != nil {
		t.Fatalf("PageRequest failed: %v", err)
	}

	q := req.URL.Query()

	if q.Get("q") != "grid storage deployment" {
		t.Errorf("q param = %q", q.Get("q"))
	}

	if q.Get("apiKey") != "test-key" {
		t.Errorf("apiKey param = %q", q.Get("apiKey"))
	}

	if q.Get("language") != "en" {
		t.Errorf("language param = %q, want default en", q.Get("language"))
	}

	if q.Get("pageSize") != "100" || q.Get("page") != "2" {
		t.Errorf("pageSize/page params = %q/%q", q.Get("pageSize"), q.Get("page"))
	}

	if q.Get("sortBy") != "publishedAt" {
		t.Errorf("sortBy param = %q", q.Get("sortBy"))
	}
}

func TestFromConfig(t *testing.T) {
	fetch := config.FetchConfig{PageSize: 100}

	tests := []struct {
		name    string
		wantErr bool
	}{
		{name: "gdelt"},
		{name: "newsapi"},
		{name: "rss", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := FromConfig(config.ProviderConfig{Name: tt.name, Output: "out.csv"}, fetch)

			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for provider %q", tt.name)
				}

				return
			}

			if err != nil {
				t.Fatalf("FromConfig failed: %v", err)
			}

			if p.Name() != tt.name {
				t.Errorf("Name() = %q, want %q", p.Name(), tt.name)
			}
		})
	}
}
