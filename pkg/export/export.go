// Package export writes run reports to files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kilianp07/geodeplan/core/score"
	"github.com/kilianp07/geodeplan/core/search"
)

var csvHeader = []string{
	"blueprint_id", "value", "partial", "nodes", "dominated", "bounded",
	"saturated", "cache_entries", "duration_ms", "plan",
}

// WriteJSON writes the report to w as indented JSON.
func WriteJSON(w io.Writer, r *score.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteCSV writes one row per blueprint entry.
func WriteCSV(w io.Writer, r *score.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range r.Entries {
		rec := []string{
			strconv.Itoa(e.BlueprintID),
			strconv.Itoa(e.Value),
			strconv.FormatBool(e.Partial),
			strconv.Itoa(e.Stats.Nodes),
			strconv.Itoa(e.Stats.Dominated),
			strconv.Itoa(e.Stats.Bounded),
			strconv.Itoa(e.Stats.Saturated),
			strconv.Itoa(e.Stats.CacheEntries),
			strconv.FormatFloat(float64(e.Duration.Microseconds())/1000, 'f', 3, 64),
			FormatPlan(e.Plan),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatPlan renders a plan as space separated kind@minute tokens.
func FormatPlan(plan []search.Step) string {
	parts := make([]string, len(plan))
	for i, s := range plan {
		parts[i] = fmt.Sprintf("%s@%d", s.Kind, s.Minute)
	}
	return strings.Join(parts, " ")
}

// WriteFile writes the report to path in the given format, creating parent
// directories as needed.
func WriteFile(path, format string, r *score.Report) error {
	var write func(io.Writer, *score.Report) error
	switch format {
	case "json":
		write = WriteJSON
	case "csv":
		write = WriteCSV
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f, r); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
