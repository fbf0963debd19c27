package analysis

import (
	"fmt"
	"strings"

	"github.com/sells-group/competitor-cli/internal/model"
	"github.com/sells-group/competitor-cli/internal/report"
)

// fallbackTextLimit caps free-text fields in the fallback report.
const fallbackTextLimit = 200

// NoDataText is returned by Fallback for an empty record list.
const NoDataText = "No competitor data available for analysis."

var fallbackAdvice = []struct {
	title   string
	bullets [2]string
}{
	{"Market Positioning", [2]string{
		"Compare each competitor's positioning and differentiation",
		"Identify gaps and openings in the market",
	}},
	{"Feature Comparison", [2]string{
		"Compare the core features and capabilities of each competitor",
		"Find functional strengths and weaknesses",
	}},
	{"Pricing Strategy", [2]string{
		"Review pricing models and packaging",
		"Define a competitive pricing plan",
	}},
	{"Tech Stack Comparison", [2]string{
		"Review the technologies each competitor uses",
		"Assess technical advantages and disadvantages",
	}},
	{"Marketing Strategy", [2]string{
		"Review target audiences and marketing focus",
		"Define a differentiated marketing strategy",
	}},
}

var fallbackNextSteps = []string{
	"Dig deeper into each competitor's strengths and weaknesses",
	"Define a differentiated competitive strategy",
	"Track market trends and customer needs",
	"Keep monitoring competitor activity",
}

// Fallback builds the deterministic report used when no model output is
// available. note is rendered as the closing line.
func Fallback(records []model.Competitor, note string) string {
	if len(records) == 0 {
		return NoDataText
	}

	var sb strings.Builder
	sb.WriteString("# Competitor Analysis Report (Basic Version)\n\n")
	sb.WriteString("## Overview\n\n")
	fmt.Fprintf(&sb, "Analyzed data for %d competitor(s).\n\n", len(records))

	sb.WriteString("## Competitors\n\n")
	for i, r := range records {
		fmt.Fprintf(&sb, "### %d. %s\n", i+1, r.DisplayName(i+1))
		fmt.Fprintf(&sb, "- **Website**: %s\n", orPlaceholder(r.SourceURL))
		fmt.Fprintf(&sb, "- **Pricing**: %s\n", report.Truncate(orPlaceholder(r.Pricing), fallbackTextLimit))
		fmt.Fprintf(&sb, "- **Key Features**: %s\n", topThree(r.KeyFeatures))
		fmt.Fprintf(&sb, "- **Tech Stack**: %s\n", topThree(r.TechStack))
		fmt.Fprintf(&sb, "- **Marketing Focus**: %s\n\n", report.Truncate(orPlaceholder(r.MarketingFocus), fallbackTextLimit))
	}

	sb.WriteString("## Baseline Recommendations\n\n")
	for i, a := range fallbackAdvice {
		fmt.Fprintf(&sb, "### %d. %s\n", i+1, a.title)
		for _, b := range a.bullets {
			sb.WriteString("- " + b + "\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Next Steps\n\n")
	for i, s := range fallbackNextSteps {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, s)
	}

	sb.WriteString("\n---\n")
	if note != "" {
		fmt.Fprintf(&sb, "*%s*\n", note)
	}
	return sb.String()
}

// BackendNote is the closing note used when backend could not produce a report.
func BackendNote(backend string) string {
	return fmt.Sprintf("Note: this is a basic report. Check the %s backend configuration for a deeper analysis.", backend)
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return model.Placeholder
	}
	return s
}

func topThree(items []string) string {
	if len(items) == 0 {
		return model.Placeholder
	}
	if len(items) > 3 {
		items = items[:3]
	}
	return strings.Join(items, ", ")
}
