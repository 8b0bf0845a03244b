package sweep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryltucker/pi-accuracy/internal/model"
)

func run(method string, precision, iterations, correct int) model.RunRecord {
	return model.RunRecord{
		Parameters: model.Parameters{Method: method, Precision: precision, Iterations: iterations},
		Accuracy:   &model.AccuracyResult{CorrectDigits: correct, WasteDigits: 100 - correct},
		Walltime:   int64(precision),
	}
}

func unscored(method string, precision, iterations int) model.RunRecord {
	return model.RunRecord{
		Parameters: model.Parameters{Method: method, Precision: precision, Iterations: iterations},
	}
}

func TestReduce_LowestPrecisionAtMaxDigits(t *testing.T) {
	records := []model.RunRecord{
		run("mc", 64, 1000, 5),
		run("mc", 128, 1000, 8),
		run("mc", 256, 1000, 8),
	}

	rows, err := Reduce(records)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "mc", rows[0].Method)
	assert.Equal(t, 1000, rows[0].Iterations)
	assert.Equal(t, 128, rows[0].Precision)
	assert.Equal(t, 8, rows[0].MaxDigits)
	assert.Equal(t, 1, rows[0].RunIndex)
	assert.Equal(t, int64(128), rows[0].Walltime)
}

func TestReduce_Empty(t *testing.T) {
	rows, err := Reduce(nil)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestReduce_OrderMethodsFirstSeenIterationsAscending(t *testing.T) {
	records := []model.RunRecord{
		run("trap", 64, 100, 3),
		run("atan", 64, 1000, 20),
		run("trap", 64, 10, 1),
		run("atan", 64, 10, 4),
		run("trap", 128, 1000, 6),
		run("atan", 128, 100, 9),
	}

	rows, err := Reduce(records)
	require.NoError(t, err)

	type key struct {
		method     string
		iterations int
	}
	var got []key
	for _, r := range rows {
		got = append(got, key{r.Method, r.Iterations})
	}
	assert.Equal(t, []key{
		{"trap", 10}, {"trap", 100}, {"trap", 1000},
		{"atan", 10}, {"atan", 100}, {"atan", 1000},
	}, got)
}

func TestReduce_TieKeepsFirstEncountered(t *testing.T) {
	first := run("atan", 128, 100, 30)
	first.Walltime = 7
	second := run("atan", 128, 100, 30)
	second.Walltime = 9

	rows, err := Reduce([]model.RunRecord{run("atan", 256, 100, 30), first, second})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, 128, rows[0].Precision)
	assert.Equal(t, 30, rows[0].MaxDigits)
	assert.Equal(t, 1, rows[0].RunIndex)
	assert.Equal(t, int64(7), rows[0].Walltime)
}

func TestReduce_HigherAccuracyWinsOverLowerPrecision(t *testing.T) {
	rows, err := Reduce([]model.RunRecord{
		run("trap", 64, 100, 2),
		run("trap", 1024, 100, 3),
		run("trap", 512, 100, 1),
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1024, rows[0].Precision)
	assert.Equal(t, 3, rows[0].MaxDigits)
}

func TestReduce_SkipsUnscoredRecords(t *testing.T) {
	records := []model.RunRecord{
		unscored("mc", 64, 10),
		run("mc", 128, 10, 2),
		unscored("mc", 32, 10),
		unscored("mc", 64, 100),
		unscored("trap", 64, 10),
	}

	rows, err := Reduce(records)
	require.NoError(t, err)
	require.Len(t, rows, 1, "groups with no scored records are omitted")
	assert.Equal(t, "mc", rows[0].Method)
	assert.Equal(t, 10, rows[0].Iterations)
	assert.Equal(t, 128, rows[0].Precision)
}

func TestReduce_IncompleteRecord(t *testing.T) {
	tests := []struct {
		name string
		rec  model.RunRecord
	}{
		{"no method", run("", 64, 10, 1)},
		{"no precision", run("mc", 0, 10, 1)},
		{"no iterations", run("mc", 64, 0, 1)},
		{"unscored but incomplete", unscored("", 64, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Reduce([]model.RunRecord{run("mc", 64, 10, 1), tt.rec})
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrIncompleteRecord)
			assert.Contains(t, err.Error(), "record 1")
		})
	}
}

func TestReduce_Properties(t *testing.T) {
	var records []model.RunRecord
	for _, m := range []string{"mc", "trap", "atan"} {
		for _, it := range []int{10, 100, 1000} {
			for _, prec := range []int{64, 128, 256, 512} {
				correct := (it/10 + prec/64) % 7
				records = append(records, run(m, prec, it, correct))
			}
		}
	}

	rows, err := Reduce(records)
	require.NoError(t, err)
	assert.Len(t, rows, 9, "one row per distinct (method, iterations)")

	for _, row := range rows {
		maxDigits := -1
		for _, r := range records {
			if r.Parameters.Method == row.Method && r.Parameters.Iterations == row.Iterations {
				maxDigits = max(maxDigits, r.Accuracy.CorrectDigits)
			}
		}
		minPrec := 0
		for _, r := range records {
			if r.Parameters.Method == row.Method && r.Parameters.Iterations == row.Iterations &&
				r.Accuracy.CorrectDigits == maxDigits && (minPrec == 0 || r.Parameters.Precision < minPrec) {
				minPrec = r.Parameters.Precision
			}
		}
		assert.Equal(t, maxDigits, row.MaxDigits, "%s/%d", row.Method, row.Iterations)
		assert.Equal(t, minPrec, row.Precision, "%s/%d", row.Method, row.Iterations)
	}
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	records := []model.RunRecord{run("mc", 256, 10, 2), run("mc", 64, 10, 2)}
	before := []model.RunRecord{records[0], records[1]}
	beforeAcc := []model.AccuracyResult{*records[0].Accuracy, *records[1].Accuracy}

	_, err := Reduce(records)
	require.NoError(t, err)

	assert.Equal(t, before[0].Parameters, records[0].Parameters)
	assert.Equal(t, before[1].Parameters, records[1].Parameters)
	assert.Equal(t, beforeAcc[0], *records[0].Accuracy)
	assert.Equal(t, beforeAcc[1], *records[1].Accuracy)
}
