// Package models defines the canonical record schema shared by all providers.
package models

// ArticleRecord is the canonical representation of one collected article.
// Meta holds provider-specific fields (source, author, domain, country, ...);
// a key is present only when the originating provider supplied a value.
type ArticleRecord struct {
	URL         string            `json:"url"`
	Title       string            `json:"title"`
	Content     string            `json:"content"`
	PublishedAt string            `json:"publishedAt,omitempty"`
	QueryUsed   string            `json:"queryUsed"`
	Meta        map[string]string `json:"meta,omitempty"`
}

// SetMeta records a provider-specific field, skipping empty values so that
// absent fields stay absent instead of being fabricated as blanks.
func (r *ArticleRecord) SetMeta(key, value string) {
	if value == "" {
		return
	}

	if r.Meta == nil {
		r.Meta = make(map[string]string)
	}

	r.Meta[key] = value
}
