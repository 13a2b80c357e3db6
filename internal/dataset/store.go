package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"newsharvest/internal/models"
)

// Fixed canonical column names. Provider-specific meta fields get their own
// columns after these, query_used always comes last.
const (
	colURL         = "url"
	colTitle       = "title"
	colContent     = "content"
	colPublishedAt = "published_at"
	colQueryUsed   = "query_used"
)

// Store persists datasets as CSV files with a header row. The column set of
// a written file is the union of fields populated across its records, so the
// schema follows whatever the providers actually supplied.
type Store struct {
	createBackup bool
}

// NewStore creates a store. When createBackup is set, Save renames an
// existing dataset file to <path>.bak before overwriting it.
func NewStore(createBackup bool) *Store {
	return &Store{createBackup: createBackup}
}

// Load reads a dataset from a CSV file. A missing file yields an empty
// dataset and no error. An unreadable or unparseable file yields an empty
// dataset plus a diagnostic error; callers log it and proceed, since a
// corrupt prior dataset must never block a fresh collection run. Columns
// unknown to the canonical set are kept as meta fields, missing columns
// default to empty.
func (s *Store) Load(path string) ([]models.ArticleRecord, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", path, err)
	}

	if len(rows) < 2 {
		return nil, nil
	}

	header := rows[0]
	records := make([]models.ArticleRecord, 0, len(rows)-1)

	for _, row := range rows[1:] {
		var rec models.ArticleRecord

		for i, col := range header {
			if i >= len(row) {
				break
			}

			value := row[i]

			switch col {
			case colURL:
				rec.URL = value
			case colTitle:
				rec.Title = value
			case colContent:
				rec.Content = value
			case colPublishedAt:
				rec.PublishedAt = value
			case colQueryUsed:
				rec.QueryUsed = value
			default:
				rec.SetMeta(col, value)
			}
		}

		records = append(records, rec)
	}

	return records, nil
}

// Save serializes the full dataset to a CSV file, replacing any prior
// content at that path in a single write.
func (s *Store) Save(path string, records []models.ArticleRecord) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if s.createBackup {
		if _, err := os.Stat(path); err == nil {
			if err := os.Rename(path, path+".bak"); err != nil {
				return fmt.Errorf("failed to create backup: %w", err)
			}
		}
	}

	columns := Columns(records)

	var buf bytes.Buffer

	writer := csv.NewWriter(&buf)

	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, rec := range records {
		if err := writer.Write(rowFor(rec, columns)); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write dataset %s: %w", path, err)
	}

	return nil
}

// Columns returns the header for a dataset: url and title always, content
// and published_at when populated by at least one record, the sorted union
// of meta keys, and query_used last. Columns never populated by any record
// are dropped.
func Columns(records []models.ArticleRecord) []string {
	hasContent := false
	hasPublished := false
	metaKeys := make(map[string]struct{})

	for _, rec := range records {
		if rec.Content != "" {
			hasContent = true
		}

		if rec.PublishedAt != "" {
			hasPublished = true
		}

		for key := range rec.Meta {
			metaKeys[key] = struct{}{}
		}
	}

	columns := []string{colURL, colTitle}

	if hasContent {
		columns = append(columns, colContent)
	}

	if hasPublished {
		columns = append(columns, colPublishedAt)
	}

	extra := make([]string, 0, len(metaKeys))
	for key := range metaKeys {
		extra = append(extra, key)
	}

	sort.Strings(extra)

	columns = append(columns, extra...)
	columns = append(columns, colQueryUsed)

	return columns
}

func rowFor(rec models.ArticleRecord, columns []string) []string {
	row := make([]string, len(columns))

	for i, col := range columns {
		switch col {
		case colURL:
			row[i] = rec.URL
		case colTitle:
			row[i] = rec.Title
		case colContent:
			row[i] = rec.Content
		case colPublishedAt:
			row[i] = rec.PublishedAt
		case colQueryUsed:
			row[i] = rec.QueryUsed
		default:
			row[i] = rec.Meta[col]
		}
	}

	return row
}
