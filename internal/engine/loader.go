/*
PURPOSE:
  Reads finished sweep runs from disk and scores them.
  Each run lives in its own directory holding the program's stdout, the
  measured walltime and (in directory mode) the run parameters as JSON.

REQUIREMENTS:
  User-specified:
  - Load runs listed in a campaign manifest (JSON array of parameter objects
    with "output_directory").
  - Load runs from a plain list of directories.

  Implementation-discovered:
  - Output files end with a newline; contents are trimmed before scoring.
  - Campaigns can have thousands of runs, so directories are read with a
    bounded worker pool.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine/runner.go, internal/cli
  - Uses: internal/config, internal/digits, internal/model, internal/output

ERROR HANDLING:
  - Missing or malformed parameters abort the whole load (the summary would
    be grouped wrongly otherwise).
  - Missing/empty stdout or a bad walltime only fails that run: the record is
    kept with Error set and no accuracy.

IMPLEMENTATION RULES:
  - Records come back in source order regardless of completion order.
  - JSON numbers are decoded with UseNumber so integer parameters stay exact.

USAGE:
  e := engine.New(cfg, ref)
  sources, err := engine.LoadManifest("runs.json")
  records, err := e.LoadRuns(ctx, sources)

RELATED FILES:
  - internal/config/config.go
  - internal/model/params.go
*/

package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/daryltucker/pi-accuracy/internal/config"
	"github.com/daryltucker/pi-accuracy/internal/digits"
	"github.com/daryltucker/pi-accuracy/internal/model"
	"github.com/daryltucker/pi-accuracy/internal/output"
)

// OutputDirectoryKey names the run directory in manifest entries.
const OutputDirectoryKey = "output_directory"

// RunSource locates one run. Params is set for manifest entries; directory
// sources read their parameters from the configured param file.
type RunSource struct {
	Dir    string
	Params map[string]any
}

// Engine loads and scores runs against one reference.
type Engine struct {
	Config    *config.Config
	Reference *digits.Reference
}

// New creates a new Engine.
func New(cfg *config.Config, ref *digits.Reference) *Engine {
	return &Engine{
		Config:    cfg,
		Reference: ref,
	}
}

// DirSources turns run directories into sources.
func DirSources(dirs []string) []RunSource {
	sources := make([]RunSource, 0, len(dirs))
	for _, d := range dirs {
		sources = append(sources, RunSource{Dir: d})
	}
	return sources
}

// LoadManifest reads a JSON array of run parameter objects. Relative output
// directories are resolved against the manifest's own directory.
func LoadManifest(path string) ([]RunSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var entries []map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	base := filepath.Dir(path)
	sources := make([]RunSource, 0, len(entries))
	for i, params := range entries {
		dir, _ := params[OutputDirectoryKey].(string)
		if dir == "" {
			return nil, fmt.Errorf("manifest %s entry %d: missing %q", path, i, OutputDirectoryKey)
		}
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(base, dir)
		}
		sources = append(sources, RunSource{Dir: dir, Params: params})
	}
	return sources, nil
}

// ReadCandidate reads a run's stdout and trims surrounding whitespace.
func ReadCandidate(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// ReadWalltime reads a walltime file holding one non-negative integer.
func ReadWalltime(path string) (int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	text := strings.TrimSpace(string(data))
	w, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid walltime %q in %s", text, path)
	}
	if w < 0 {
		return 0, fmt.Errorf("negative walltime %d in %s", w, path)
	}
	return w, nil
}

// LoadRun reads and scores a single run.
func (e *Engine) LoadRun(src RunSource) (model.RunRecord, error) {
	rec := model.RunRecord{Dir: src.Dir}

	params := src.Params
	if params == nil {
		var err error
		if params, err = e.readParams(src.Dir); err != nil {
			return rec, err
		}
	}
	p, err := model.ParseParameters(params)
	if err != nil {
		return rec, fmt.Errorf("run %s: %w", src.Dir, err)
	}
	rec.Parameters = p

	var runErrs []string

	walltime, err := ReadWalltime(filepath.Join(src.Dir, e.Config.WalltimeName))
	if err != nil {
		runErrs = append(runErrs, "walltime: "+err.Error())
	}
	rec.Walltime = walltime

	candidate, err := ReadCandidate(filepath.Join(src.Dir, e.Config.StdoutName))
	if err != nil {
		runErrs = append(runErrs, "stdout: "+err.Error())
	} else {
		acc, err := e.Reference.Compare(candidate)
		if err != nil {
			runErrs = append(runErrs, err.Error())
		} else {
			rec.Accuracy = &acc
		}
	}

	if len(runErrs) > 0 {
		rec.Accuracy = nil
		rec.Error = strings.Join(runErrs, "; ")
		output.Logger.Warn("Run has no usable result", "dir", src.Dir, "method", p.Method,
			"precision", p.Precision, "iterations", p.Iterations, "error", rec.Error)
	}
	return rec, nil
}

// LoadRuns loads all sources using up to Config.Workers goroutines.
// The first fatal error cancels the remaining loads.
func (e *Engine) LoadRuns(ctx context.Context, sources []RunSource) ([]model.RunRecord, error) {
	records := make([]model.RunRecord, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(e.Config.Workers, 1))

	for i, src := range sources {
		i, src := i, src // per-iteration copies (pre-Go 1.22 loop semantics)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec, err := e.LoadRun(src)
			if err != nil {
				return err
			}
			records[i] = rec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

func (e *Engine) readParams(dir string) (map[string]any, error) {
	if e.Config.ParamName == "" {
		return nil, fmt.Errorf("run %s: no parameters and param_name is not configured", dir)
	}
	path := filepath.Join(dir, e.Config.ParamName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parameters %s: %w", path, err)
	}

	var params map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&params); err != nil {
		return nil, fmt.Errorf("failed to parse parameters %s: %w", path, err)
	}
	return params, nil
}
