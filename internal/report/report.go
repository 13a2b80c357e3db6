// Package report renders run summaries as aligned text tables.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"newsharvest/internal/pipeline"
)

// Table renders rows as a pipe-delimited table with a separator line under
// the header. Column widths are display widths, so wide characters in query
// text stay aligned.
func Table(header []string, rows [][]string) string {
	widths := make([]int, len(header))

	for i, cell := range header {
		widths[i] = runewidth.StringWidth(cell)
	}

	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	for i := range widths {
		if widths[i] < 3 {
			widths[i] = 3
		}
	}

	var sb strings.Builder

	writeRow := func(cells []string) {
		sb.WriteString("|")

		for i, width := range widths {
			content := ""
			if i < len(cells) {
				content = cells[i]
			}

			padding := width - runewidth.StringWidth(content)

			sb.WriteString(" ")
			sb.WriteString(content)

			if padding > 0 {
				sb.WriteString(strings.Repeat(" ", padding))
			}

			sb.WriteString(" |")
		}

		sb.WriteString("\n")
	}

	writeRow(header)

	sb.WriteString("|")

	for _, width := range widths {
		sb.WriteString(" ")
		sb.WriteString(strings.Repeat("-", width))
		sb.WriteString(" |")
	}

	sb.WriteString("\n")

	for _, row := range rows {
		writeRow(row)
	}

	return sb.String()
}

// Summary renders per-query outcomes and totals for a set of pipeline runs.
func Summary(results []*pipeline.Result) string {
	header := []string{"Provider", "Query", "Records", "Status"}

	var rows [][]string

	totalFetched := 0

	for _, res := range results {
		for _, q := range res.Queries {
			status := "ok"
			if q.Err != nil {
				status = "failed: " + truncate(q.Err.Error(), 60)
			}

			rows = append(rows, []string{
				res.Provider,
				q.Query,
				strconv.Itoa(q.Fetched),
				status,
			})
		}

		totalFetched += res.Fetched
	}

	var sb strings.Builder

	sb.WriteString(Table(header, rows))
	sb.WriteString("\n")

	for _, res := range results {
		if res.SkippedSave {
			sb.WriteString(fmt.Sprintf("%s: no new data, %s untouched\n", res.Provider, res.Path))

			continue
		}

		sb.WriteString(fmt.Sprintf("%s: %d fetched, %d total in %s\n", res.Provider, res.Fetched, res.Saved, res.Path))
	}

	sb.WriteString(fmt.Sprintf("total new records fetched: %d\n", totalFetched))

	return sb.String()
}

func truncate(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}

	return s[:maxLength] + "..."
}
