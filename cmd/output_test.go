package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/competitor-cli/internal/analysis"
	"github.com/sells-group/competitor-cli/internal/model"
	"github.com/sells-group/competitor-cli/internal/pipeline"
	"github.com/sells-group/competitor-cli/internal/report"
)

func doneResult() *pipeline.Result {
	rec := model.Competitor{SourceURL: "https://a.com", CompanyName: "Acme <Inc>", Pricing: "免费"}
	rec.Normalize()
	records := []model.Competitor{rec}
	return &pipeline.Result{
		RunID:   "run-1",
		State:   pipeline.StateDone,
		Records: records,
		Table:   report.ComposeTable(records),
		Details: report.ComposeDetails(records),
		Report:  &analysis.Report{Text: "# Report\n\nBody", Backend: "openai"},
	}
}

func TestEncodeResult(t *testing.T) {
	res := doneResult()

	js, err := encodeResult(res, formatJSON)
	require.NoError(t, err)
	doc := gjson.ParseBytes(js)
	assert.Equal(t, "run-1", doc.Get("run_id").String())
	assert.Equal(t, "Acme <Inc>", doc.Get("records.0.company_name").String())
	assert.True(t, bytes.Contains(js, []byte("免费")))

	ym, err := encodeResult(res, formatYAML)
	require.NoError(t, err)
	var back map[string]any
	require.NoError(t, yaml.Unmarshal(ym, &back))
	assert.Equal(t, "run-1", back["run_id"])

	_, err = encodeResult(res, "xml")
	assert.Error(t, err)
}

func TestWriteOutputs_Done(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	paths, err := writeOutputs(dir, formatYAML, doneResult())
	require.NoError(t, err)
	require.Len(t, paths, 3)

	for _, p := range paths {
		_, err := os.Stat(p)
		assert.NoError(t, err)
	}
	md, err := os.ReadFile(filepath.Join(dir, "report.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "## Competitor Comparison")
	assert.Contains(t, string(md), "# Report")
}

func TestWriteOutputs_Aborted(t *testing.T) {
	dir := t.TempDir()
	paths, err := writeOutputs(dir, formatJSON, &pipeline.Result{State: pipeline.StateAborted, Message: pipeline.MsgNoCompetitors})
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, filepath.Join(dir, "result.json"), paths[0])
}
