/*
PURPOSE:
  High-level runner that orchestrates an analysis.
  Loads reference -> loads runs -> reduces the sweep -> writes outputs.

REQUIREMENTS:
  User-specified:
  - For each (method, iterations), report the lowest precision reaching the
    best accuracy.
  - Log results to CSV/JSON and the analysis text file.

  Implementation-discovered:
  - Per-run records are written before reduction so a failed reduction still
    leaves the raw data behind.
  - Persistence is optional (config.Database).

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Uses: internal/engine/loader.go, internal/sweep, internal/output, internal/store

ERROR HANDLING:
  - Per-run read failures are logged and the run continues (resilience).
  - Incomplete parameters and output write failures abort.

USAGE:
  report, err := engine.Analyze(ctx, cfg, engine.Inputs{Manifest: "runs.json"})

RELATED FILES:
  - internal/engine/loader.go
*/

package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/daryltucker/pi-accuracy/internal/config"
	"github.com/daryltucker/pi-accuracy/internal/digits"
	"github.com/daryltucker/pi-accuracy/internal/model"
	"github.com/daryltucker/pi-accuracy/internal/output"
	"github.com/daryltucker/pi-accuracy/internal/store"
	"github.com/daryltucker/pi-accuracy/internal/sweep"
)

// ErrNoRuns is returned when neither a manifest nor directories were given.
var ErrNoRuns = errors.New("no runs to analyze")

// Inputs selects the runs to analyze. Manifest takes precedence over Dirs.
type Inputs struct {
	Manifest string
	Dirs     []string
}

// Report is the outcome of an analysis.
type Report struct {
	ID      string // store id, empty when persistence is disabled
	Records []model.RunRecord
	Rows    []model.SummaryRow
}

// Scored counts records with usable accuracy.
func (r *Report) Scored() int {
	n := 0
	for _, rec := range r.Records {
		if rec.Accuracy != nil {
			n++
		}
	}
	return n
}

// Analyze executes a full analysis.
func Analyze(ctx context.Context, cfg *config.Config, in Inputs) (*Report, error) {
	started := time.Now().UTC()

	ref, err := digits.LoadReference(cfg.ReferencePath)
	if err != nil {
		return nil, err
	}
	output.Logger.Info("Loaded reference digits", "path", cfg.ReferencePath, "fractional_digits", ref.FractionalDigits())

	var sources []RunSource
	switch {
	case in.Manifest != "":
		if sources, err = LoadManifest(in.Manifest); err != nil {
			return nil, err
		}
	case len(in.Dirs) > 0:
		sources = DirSources(in.Dirs)
	default:
		return nil, ErrNoRuns
	}
	output.Logger.Info("Loading runs...", "count", len(sources), "workers", cfg.Workers)

	e := New(cfg, ref)
	records, err := e.LoadRuns(ctx, sources)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", cfg.OutputDir, err)
	}
	if err := writeRecords(cfg, records); err != nil {
		return nil, err
	}

	rows, err := sweep.Reduce(records)
	if err != nil {
		return nil, err
	}

	report := &Report{Records: records, Rows: rows}
	output.Logger.Info("Reduced sweep", "runs", len(records), "scored", report.Scored(), "rows", len(rows))

	if err := writeSummary(cfg, rows); err != nil {
		return nil, err
	}

	if cfg.Database != "" {
		id, err := persist(ctx, cfg, store.Analysis{
			CreatedAt: started,
			Reference: cfg.ReferencePath,
			Records:   records,
			Rows:      rows,
		})
		if err != nil {
			return nil, err
		}
		report.ID = id
		output.Logger.Info("Stored analysis", "id", id, "database", cfg.Database)
	}

	return report, nil
}

func writeRecords(cfg *config.Config, records []model.RunRecord) error {
	if cfg.RecordsCSV != "" {
		path := filepath.Join(cfg.OutputDir, cfg.RecordsCSV)
		w, err := output.NewCSVWriter(path)
		if err != nil {
			return fmt.Errorf("failed to init CSV writer at %s: %w", path, err)
		}
		for _, r := range records {
			if err := w.Write(r); err != nil {
				w.Close()
				return fmt.Errorf("failed to write run to CSV: %w", err)
			}
		}
		if err := w.Close(); err != nil {
			return err
		}
	}

	if cfg.RecordsJSON != "" {
		path := filepath.Join(cfg.OutputDir, cfg.RecordsJSON)
		w, err := output.NewJSONWriter(path)
		if err != nil {
			return fmt.Errorf("failed to init JSON writer at %s: %w", path, err)
		}
		for _, r := range records {
			if err := w.Write(r); err != nil {
				w.Close()
				return fmt.Errorf("failed to write run to JSON: %w", err)
			}
		}
		if err := w.Close(); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(cfg *config.Config, rows []model.SummaryRow) error {
	if cfg.AnalysisFile != "" {
		if err := writeFile(filepath.Join(cfg.OutputDir, cfg.AnalysisFile), func(f *os.File) error {
			return output.WriteAnalysis(f, rows)
		}); err != nil {
			return err
		}
	}
	if cfg.SummaryJSON != "" {
		if err := writeFile(filepath.Join(cfg.OutputDir, cfg.SummaryJSON), func(f *os.File) error {
			return output.WriteSummaryJSON(f, rows)
		}); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func persist(ctx context.Context, cfg *config.Config, a store.Analysis) (string, error) {
	s, err := store.Open(cfg.Database)
	if err != nil {
		return "", err
	}
	defer s.Close()

	return s.SaveAnalysis(ctx, a)
}
