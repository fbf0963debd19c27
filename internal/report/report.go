// Package report builds the comparison table and per-competitor detail
// views, and renders them as markdown or XLSX.
package report

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/sells-group/competitor-cli/internal/model"
)

// Cell limits for the comparison table.
const (
	CellTextLimit = 100
	CellListItems = 3
)

// Columns is the fixed comparison table header.
var Columns = []string{
	"Company",
	"Website",
	"Pricing",
	"Key Features",
	"Tech Stack",
	"Marketing Focus",
	"Customer Feedback",
}

// Table is the comparison view: one row per competitor, cells aligned with
// Columns.
type Table struct {
	Columns []string   `json:"columns" yaml:"columns"`
	Rows    [][]string `json:"rows" yaml:"rows"`
}

// Detail is the full, untruncated view of one competitor.
type Detail struct {
	Title            string   `json:"title" yaml:"title"`
	CompanyName      string   `json:"company_name" yaml:"company_name"`
	Website          string   `json:"website" yaml:"website"`
	Pricing          string   `json:"pricing" yaml:"pricing"`
	MarketingFocus   string   `json:"marketing_focus" yaml:"marketing_focus"`
	KeyFeatures      []string `json:"key_features" yaml:"key_features"`
	TechStack        []string `json:"tech_stack" yaml:"tech_stack"`
	CustomerFeedback string   `json:"customer_feedback" yaml:"customer_feedback"`
}

// ComposeTable builds the comparison table. Records are not modified.
func ComposeTable(records []model.Competitor) Table {
	t := Table{Columns: Columns, Rows: make([][]string, 0, len(records))}
	for _, r := range records {
		t.Rows = append(t.Rows, []string{
			r.CompanyName,
			r.SourceURL,
			Truncate(r.Pricing, CellTextLimit),
			joinFirst(r.KeyFeatures, CellListItems),
			joinFirst(r.TechStack, CellListItems),
			Truncate(r.MarketingFocus, CellTextLimit),
			Truncate(r.CustomerFeedback, CellTextLimit),
		})
	}
	return t
}

// ComposeDetails builds one detail view per record, in order.
func ComposeDetails(records []model.Competitor) []Detail {
	out := make([]Detail, 0, len(records))
	for i, r := range records {
		out = append(out, Detail{
			Title:            r.DisplayName(i + 1),
			CompanyName:      r.CompanyName,
			Website:          r.SourceURL,
			Pricing:          r.Pricing,
			MarketingFocus:   r.MarketingFocus,
			KeyFeatures:      append([]string(nil), r.KeyFeatures...),
			TechStack:        append([]string(nil), r.TechStack...),
			CustomerFeedback: r.CustomerFeedback,
		})
	}
	return out
}

// Truncate cuts s to at most n grapheme clusters, appending "..." only
// when something was removed.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if uniseg.GraphemeClusterCount(s) <= n {
		return s
	}
	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	for i := 0; i < n && g.Next(); i++ {
		b.WriteString(g.Str())
	}
	b.WriteString("...")
	return b.String()
}

func joinFirst(items []string, n int) string {
	if len(items) == 0 {
		return model.Placeholder
	}
	if len(items) > n {
		items = items[:n]
	}
	return strings.Join(items, ", ")
}
