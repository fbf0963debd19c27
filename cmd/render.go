package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#60A5FA"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	titleStyle   = lipgloss.NewStyle().Bold(true).MarginTop(1)
)

// termNotifier prints pipeline messages, styled when w is a terminal.
type termNotifier struct {
	w      io.Writer
	styled bool
}

func newTermNotifier(w io.Writer, styled bool) *termNotifier {
	return &termNotifier{w: w, styled: styled}
}

func (n *termNotifier) print(style lipgloss.Style, prefix, msg string) {
	line := prefix + " " + msg
	if n.styled {
		line = style.Render(line)
	}
	fmt.Fprintln(n.w, line)
}

func (n *termNotifier) Info(msg string)    { n.print(infoStyle, "•", msg) }
func (n *termNotifier) Success(msg string) { n.print(successStyle, "✓", msg) }
func (n *termNotifier) Warn(msg string)    { n.print(warnStyle, "!", msg) }
func (n *termNotifier) Error(msg string)   { n.print(errorStyle, "✗", msg) }

// heading renders a section title.
func heading(title string, styled bool) string {
	if styled {
		return titleStyle.Render(title)
	}
	return "\n" + title
}

// renderMarkdown renders md for terminal display. It returns md unchanged
// when the renderer cannot be built or fails.
func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func isStderrTTY() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}
