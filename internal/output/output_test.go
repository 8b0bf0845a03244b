package output

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryltucker/pi-accuracy/internal/model"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func sampleRows() []model.SummaryRow {
	return []model.SummaryRow{
		{Method: "mc", Iterations: 1000, Precision: 128, MaxDigits: 8, WasteDigits: 3, Walltime: 42, RunIndex: 1},
		{Method: "mc", Iterations: 10000, Precision: 256, MaxDigits: 9},
		{Method: "atan", Iterations: 10, Precision: 64, MaxDigits: 14},
	}
}

func sampleRecords() []model.RunRecord {
	return []model.RunRecord{
		{
			Parameters: model.Parameters{
				Method: "mc", Precision: 64, Iterations: 1000,
				Extra: map[string]any{"output_directory": "/runs/0"},
			},
			Accuracy: &model.AccuracyResult{CorrectDigits: 5, WasteDigits: 12},
			Walltime: 3,
			Dir:      "/runs/0",
		},
		{
			Parameters: model.Parameters{Method: "trap", Precision: 128, Iterations: 10},
			Walltime:   1,
			Dir:        "/runs/1",
			Error:      "empty input: candidate output",
		},
	}
}

func TestWriteAnalysis_Golden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAnalysis(&buf, sampleRows()))

	newGoldie(t).Assert(t, "analysis", buf.Bytes())
}

func TestWriteAnalysis_EmptyHasHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAnalysis(&buf, nil))
	assert.Equal(t, AnalysisHeader+"\n", buf.String())
}

func TestWriteSummaryJSON_Golden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummaryJSON(&buf, sampleRows()[:1]))

	newGoldie(t).Assert(t, "summary", buf.Bytes())
}

func TestWriteSummaryJSON_EmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummaryJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteTable_GroupsLargeNumbers(t *testing.T) {
	rows := []model.SummaryRow{
		{Method: "atan2", Iterations: 1000000, Precision: 262144, MaxDigits: 78000, Walltime: 1500},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, rows))

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "METHOD")
	assert.Contains(t, lines[0], "MAX DIGITS")
	assert.Contains(t, lines[1], "atan2")
	assert.Contains(t, lines[1], "1,000,000")
	assert.Contains(t, lines[1], "262,144")
	assert.Contains(t, lines[1], "78,000")
	assert.Contains(t, lines[1], "1,500")
}

func TestCSVWriter_Golden(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.csv")

	w, err := NewCSVWriter(path)
	require.NoError(t, err)
	for _, r := range sampleRecords() {
		require.NoError(t, w.Write(r))
	}
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	newGoldie(t).Assert(t, "records_csv", data)
}

func TestJSONWriter_OneLinePerRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.jsonl")

	w, err := NewJSONWriter(path)
	require.NoError(t, err)
	for _, r := range sampleRecords() {
		require.NoError(t, w.Write(r))
	}
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var got []model.RunRecord
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var r model.RunRecord
		require.NoError(t, json.Unmarshal(sc.Bytes(), &r))
		got = append(got, r)
	}
	require.NoError(t, sc.Err())
	require.Len(t, got, 2)

	assert.Equal(t, "mc", got[0].Parameters.Method)
	require.NotNil(t, got[0].Accuracy)
	assert.Equal(t, 5, got[0].Accuracy.CorrectDigits)
	assert.Nil(t, got[1].Accuracy, "unscored runs keep a null accuracy")
	assert.Equal(t, "empty input: candidate output", got[1].Error)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLogger(&buf, "warn", "json")
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("shown", "run", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"run":3`)

	_, err = NewLogger(&buf, "loud", "text")
	assert.Error(t, err)
	_, err = NewLogger(&buf, "info", "xml")
	assert.Error(t, err)
}
