// Package sweep reduces a parameter sweep to one row per (method, iterations)
// pair: the smallest precision that still reaches the best accuracy seen for
// that pair.
package sweep

import (
	"fmt"
	"slices"

	"github.com/daryltucker/pi-accuracy/internal/model"
)

type groupKey struct {
	method     string
	iterations int
}

// Reduce groups records by method and iterations and selects, per group, the
// run with the lowest precision among those reaching the group's maximum
// CorrectDigits.
//
// Rows are ordered by method in first-seen order, then by ascending
// iterations. Records without accuracy are ignored; a group left with no
// scored records produces no row. When several runs tie on both accuracy and
// precision, the first one in input order is the representative.
//
// Reduce fails with model.ErrIncompleteRecord if any record lacks a required
// parameter.
func Reduce(records []model.RunRecord) ([]model.SummaryRow, error) {
	for i, rec := range records {
		if err := rec.Parameters.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}

	var methods []string
	iterations := make(map[string][]int)
	best := make(map[groupKey]int) // index into records

	for i, rec := range records {
		if rec.Accuracy == nil {
			continue
		}
		m := rec.Parameters.Method
		key := groupKey{method: m, iterations: rec.Parameters.Iterations}

		cur, seen := best[key]
		if !seen {
			if _, ok := iterations[m]; !ok {
				methods = append(methods, m)
			}
			iterations[m] = append(iterations[m], key.iterations)
			best[key] = i
			continue
		}
		if better(rec, records[cur]) {
			best[key] = i
		}
	}

	rows := make([]model.SummaryRow, 0, len(best))
	for _, m := range methods {
		its := iterations[m]
		slices.Sort(its)
		for _, it := range its {
			idx := best[groupKey{method: m, iterations: it}]
			rec := records[idx]
			rows = append(rows, model.SummaryRow{
				Method:      m,
				Iterations:  it,
				Precision:   rec.Parameters.Precision,
				MaxDigits:   rec.Accuracy.CorrectDigits,
				WasteDigits: rec.Accuracy.WasteDigits,
				Walltime:    rec.Walltime,
				RunIndex:    idx,
			})
		}
	}
	return rows, nil
}

// better reports whether candidate should replace the current group
// representative. Ties on both keys keep the earlier run.
func better(candidate, current model.RunRecord) bool {
	cd, cur := candidate.Accuracy.CorrectDigits, current.Accuracy.CorrectDigits
	if cd != cur {
		return cd > cur
	}
	return candidate.Parameters.Precision < current.Parameters.Precision
}
