package report

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Markdown renders the table as a pipe table padded by display width so
// CJK and emoji cells line up in a terminal.
func (t Table) Markdown() string {
	if len(t.Columns) == 0 {
		return ""
	}

	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = max(3, runewidth.StringWidth(c))
	}
	rows := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		rows[r] = make([]string, len(t.Columns))
		for i := range t.Columns {
			if i < len(row) {
				rows[r][i] = escapeCell(row[i])
			}
			widths[i] = max(widths[i], runewidth.StringWidth(rows[r][i]))
		}
	}

	var sb strings.Builder
	writeRow(&sb, t.Columns, widths)
	sb.WriteString("|")
	for _, w := range widths {
		sb.WriteString(" " + strings.Repeat("-", w) + " |")
	}
	sb.WriteString("\n")
	for _, row := range rows {
		writeRow(&sb, row, widths)
	}
	return sb.String()
}

func writeRow(sb *strings.Builder, cells []string, widths []int) {
	sb.WriteString("|")
	for i, w := range widths {
		content := ""
		if i < len(cells) {
			content = cells[i]
		}
		sb.WriteString(" ")
		sb.WriteString(content)
		if pad := w - runewidth.StringWidth(content); pad > 0 {
			sb.WriteString(strings.Repeat(" ", pad))
		}
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

// DetailsMarkdown renders each detail view as its own section.
func DetailsMarkdown(details []Detail) string {
	var sb strings.Builder
	for i, d := range details {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "### %s\n\n", d.Title)
		fmt.Fprintf(&sb, "**Company**: %s\n\n", d.CompanyName)
		fmt.Fprintf(&sb, "**Website**: %s\n\n", d.Website)
		fmt.Fprintf(&sb, "**Pricing**\n\n%s\n\n", d.Pricing)
		fmt.Fprintf(&sb, "**Marketing Focus**\n\n%s\n\n", d.MarketingFocus)
		sb.WriteString("**Key Features**\n\n")
		writeList(&sb, d.KeyFeatures)
		sb.WriteString("**Tech Stack**\n\n")
		writeList(&sb, d.TechStack)
		fmt.Fprintf(&sb, "**Customer Feedback**\n\n%s\n", d.CustomerFeedback)
	}
	return sb.String()
}

func writeList(sb *strings.Builder, items []string) {
	for _, it := range items {
		sb.WriteString("- " + it + "\n")
	}
	sb.WriteString("\n")
}
