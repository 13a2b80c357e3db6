// Package pipeline orchestrates fetching, merging and persistence for one
// provider across the shared query list.
package pipeline

import (
	"fmt"
	"time"

	"newsharvest/internal/config"
	"newsharvest/internal/dataset"
	"newsharvest/internal/logger"
	"newsharvest/internal/models"
	"newsharvest/internal/provider"
)

// QueryResult records the outcome of one query.
type QueryResult struct {
	Query   string
	Fetched int
	Err     error
}

// Result summarizes one pipeline run.
type Result struct {
	Provider    string
	Path        string
	Queries     []QueryResult
	Fetched     int
	Saved       int
	SkippedSave bool
	Duration    time.Duration
}

// Pipeline runs the fetch, normalize, merge and persist cycle for a single
// provider. Queries are processed strictly sequentially; a failing query is
// logged and skipped so it cannot prevent collection for the rest.
type Pipeline struct {
	provider provider.Provider
	fetcher  *provider.Fetcher
	store    *dataset.Store
	queries  []string
	delay    time.Duration
	outPath  string
	log      *logger.Logger

	// sleep is swappable for tests.
	sleep func(time.Duration)
}

// New creates a pipeline for one provider.
func New(p provider.Provider, f *provider.Fetcher, store *dataset.Store, cfg *config.Config, outPath string, log *logger.Logger) *Pipeline {
	return &Pipeline{
		provider: p,
		fetcher:  f,
		store:    store,
		queries:  cfg.Collector.Queries,
		delay:    cfg.Collector.Fetch.Delay(),
		outPath:  outPath,
		log:      log.With("provider", p.Name()),
		sleep:    time.Sleep,
	}
}

// Run processes every query, then merges the accumulated records with the
// stored dataset and writes the result back. A run that collects zero new
// records leaves the stored dataset file untouched.
func (pl *Pipeline) Run() (*Result, error) {
	start := time.Now()

	result := &Result{
		Provider: pl.provider.Name(),
		Path:     pl.outPath,
	}

	var fresh []models.ArticleRecord

	for _, query := range pl.queries {
		records, err := pl.fetcher.FetchQuery(pl.provider, query)
		if err != nil {
			pl.log.Warn("query failed, continuing", "query", query, "error", err)
		} else {
			pl.log.Info("query fetched", "query", query, "records", len(records))
			fresh = append(fresh, records...)
		}

		result.Queries = append(result.Queries, QueryResult{
			Query:   query,
			Fetched: len(records),
			Err:     err,
		})

		// Stay within provider rate limits regardless of outcome.
		pl.sleep(pl.delay)
	}

	result.Fetched = len(fresh)

	if len(fresh) == 0 {
		result.SkippedSave = true
		result.Duration = time.Since(start)

		pl.log.Info("no new data collected, dataset left untouched", "path", pl.outPath)

		return result, nil
	}

	existing, err := pl.store.Load(pl.outPath)
	if err != nil {
		pl.log.Warn("existing dataset unreadable, starting from empty", "path", pl.outPath, "error", err)

		existing = nil
	}

	merged := dataset.Merge(existing, fresh)

	if err := pl.store.Save(pl.outPath, merged); err != nil {
		return result, fmt.Errorf("failed to save dataset: %w", err)
	}

	result.Saved = len(merged)
	result.Duration = time.Since(start)

	pl.log.Info("dataset saved", "path", pl.outPath, "fetched", result.Fetched, "total", result.Saved)

	return result, nil
}
