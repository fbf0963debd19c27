package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/competitor-cli/internal/pipeline"
	"github.com/sells-group/competitor-cli/internal/report"
)

// Output formats for the run result file.
const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// encodeResult serializes res in format.
func encodeResult(res *pipeline.Result, format string) ([]byte, error) {
	switch format {
	case formatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return nil, eris.Wrap(err, "encode result json")
		}
		return buf.Bytes(), nil
	case formatYAML:
		out, err := yaml.Marshal(res)
		if err != nil {
			return nil, eris.Wrap(err, "encode result yaml")
		}
		return out, nil
	default:
		return nil, eris.Errorf("unknown format %q (want json or yaml)", format)
	}
}

// markdownDocument is the full human-readable run output.
func markdownDocument(res *pipeline.Result) string {
	var sb strings.Builder
	sb.WriteString("## Competitor Comparison\n\n")
	sb.WriteString(res.Table.Markdown())
	sb.WriteString("\n## Competitor Details\n\n")
	sb.WriteString(report.DetailsMarkdown(res.Details))
	if res.Report != nil {
		sb.WriteString("\n")
		sb.WriteString(res.Report.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}

// writeOutputs writes the result file, and for completed runs the XLSX
// workbook and markdown report, into dir. It returns the written paths.
func writeOutputs(dir, format string, res *pipeline.Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "create output dir %s", dir)
	}

	data, err := encodeResult(res, format)
	if err != nil {
		return nil, err
	}
	resultPath := filepath.Join(dir, "result."+format)
	if err := os.WriteFile(resultPath, data, 0o644); err != nil {
		return nil, eris.Wrapf(err, "write %s", resultPath)
	}
	paths := []string{resultPath}

	if res.State != pipeline.StateDone {
		return paths, nil
	}

	xlsxPath := filepath.Join(dir, "report.xlsx")
	if err := report.SaveXLSX(xlsxPath, res.Table, res.Details); err != nil {
		return paths, err
	}
	mdPath := filepath.Join(dir, "report.md")
	if err := os.WriteFile(mdPath, []byte(markdownDocument(res)), 0o644); err != nil {
		return paths, eris.Wrapf(err, "write %s", mdPath)
	}
	return append(paths, xlsxPath, mdPath), nil
}
