// Package analysis turns extracted competitor records into a strategy
// report using a configured LLM backend, with a deterministic fallback.
package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/competitor-cli/internal/model"
)

// SystemPrompt frames every analysis request.
const SystemPrompt = "You are a professional competitor analysis expert. " +
	"Analyze the provided information in depth and give concrete, actionable recommendations."

// Dimensions are the fixed report sections requested from the model.
var Dimensions = []string{
	"Market Positioning",
	"Feature Comparison",
	"Pricing Strategy",
	"Tech Stack Comparison",
	"Marketing Strategy",
	"Competitive Advantages",
	"Market Opportunities",
	"Strategic Recommendations",
}

// reportTitles are headings the model tends to repeat at the top of a
// streamed report.
var reportTitles = []string{"Competitor Analysis Report", "Analysis Report"}

// BuildPrompt renders the records as indented JSON followed by the
// analysis instructions.
func BuildPrompt(records []model.Competitor) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return "", eris.Wrap(err, "analysis: encode records")
	}

	var sb strings.Builder
	sb.WriteString("Analyze the following competitor data and produce a detailed competitor analysis report.\n\n")
	sb.WriteString("Competitor data:\n")
	sb.Write(bytes.TrimRight(buf.Bytes(), "\n"))
	sb.WriteString("\n\nCover each of the following:\n")
	for i, d := range Dimensions {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, d)
	}
	sb.WriteString("\nGive concrete, actionable findings and recommendations. ")
	sb.WriteString("Make sure the report is complete and does not repeat itself.")
	return sb.String(), nil
}
