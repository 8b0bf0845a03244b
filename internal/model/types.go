/*
PURPOSE:
  Defines the core data structures used throughout pi-accuracy.
  These models represent sweep runs, their accuracy, and the reduced summary.

REQUIREMENTS:
  User-specified:
  - Record method, precision, iterations and walltime per run.
  - Record correct and wasted digits per run.

  Implementation-discovered:
  - Parameter documents are free-form; only method/precision/iterations
    are required, everything else rides along in Extra.
  - A run can finish without usable output, so Accuracy is optional.

ARCHITECTURE INTEGRATION:
  - Used by: internal/digits, internal/sweep, internal/engine, internal/output, internal/store
  - Shared across boundaries.

ERROR HANDLING:
  - ParseParameters returns ErrIncompleteRecord for missing required keys.

IMPLEMENTATION RULES:
  - Keep structs simple and public.
  - JSON tags match the keys of the run parameter documents.

USAGE:
  params, err := model.ParseParameters(doc)
  rec := model.RunRecord{Parameters: params, Accuracy: &acc, Walltime: 12}

SELF-HEALING INSTRUCTIONS:
  - If new metrics are needed, add field and update CSV/JSON writers and the store schema.

RELATED FILES:
  - internal/model/params.go
  - internal/output/csv.go
  - internal/store/schema.sql

MAINTENANCE:
  - Update when adding new metrics to capture.
*/

package model

// AccuracyResult is the outcome of comparing one candidate output against
// the reference digits.
type AccuracyResult struct {
	CorrectDigits int `json:"correct_digits"`
	WasteDigits   int `json:"waste_digits"`
}

// Parameters are the sweep parameters of a single run.
type Parameters struct {
	Method     string         `json:"method"`
	Precision  int            `json:"precision"`
	Iterations int            `json:"iterations"`
	Extra      map[string]any `json:"extra,omitempty"`
}

// RunRecord represents the outcome of a single sweep run.
type RunRecord struct {
	Parameters Parameters      `json:"parameters"`
	Accuracy   *AccuracyResult `json:"accuracy"` // nil when the run produced no usable output
	Walltime   int64           `json:"walltime"`
	Dir        string          `json:"dir,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// SummaryRow is one reduced row per (method, iterations) group.
type SummaryRow struct {
	Method     string `json:"method"`
	Iterations int    `json:"iterations"`
	Precision  int    `json:"precision"`
	MaxDigits  int    `json:"max_digits"`

	// Representative run. Informational only.
	WasteDigits int   `json:"waste_digits"`
	Walltime    int64 `json:"walltime"`
	RunIndex    int   `json:"run_index"`
}
