// Package dataset implements merging, deduplication and CSV persistence of
// collected article records.
package dataset

import (
	"strings"

	"newsharvest/internal/models"
)

// Merge combines a previously stored dataset with newly fetched records.
// Records are concatenated existing-first, text fields are trimmed, records
// without a URL or title are dropped, and duplicates by URL are removed
// keeping the first occurrence. An existing stored record therefore always
// wins over a newly fetched one with the same URL, and among duplicate new
// records the one produced by the earliest query wins. Merging a dataset
// with its own records yields the same dataset.
func Merge(existing, fresh []models.ArticleRecord) []models.ArticleRecord {
	combined := make([]models.ArticleRecord, 0, len(existing)+len(fresh))
	combined = append(combined, existing...)
	combined = append(combined, fresh...)

	merged := make([]models.ArticleRecord, 0, len(combined))
	seen := make(map[string]struct{}, len(combined))

	for _, rec := range combined {
		clean := sanitize(rec)

		if clean.URL == "" || clean.Title == "" {
			continue
		}

		if _, dup := seen[clean.URL]; dup {
			continue
		}

		seen[clean.URL] = struct{}{}
		merged = append(merged, clean)
	}

	return merged
}

// sanitize returns a trimmed copy of the record. The input is never mutated.
// Content stays an explicit empty string when absent; meta fields that trim
// to empty are dropped rather than stored as blanks.
func sanitize(rec models.ArticleRecord) models.ArticleRecord {
	clean := models.ArticleRecord{
		URL:         strings.TrimSpace(rec.URL),
		Title:       strings.TrimSpace(rec.Title),
		Content:     strings.TrimSpace(rec.Content),
		PublishedAt: strings.TrimSpace(rec.PublishedAt),
		QueryUsed:   strings.TrimSpace(rec.QueryUsed),
	}

	for key, value := range rec.Meta {
		clean.SetMeta(key, strings.TrimSpace(value))
	}

	return clean
}
