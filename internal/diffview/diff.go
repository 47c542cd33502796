// Package diffview renders a line diff between an existing target file's
// content and the proposed replacement. It performs no I/O and is used only
// in dry-run mode as a substitute for writing.
package diffview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	contextStyle = lipgloss.NewStyle().Faint(true)
)

// Render produces a unified-diff-style text between old and new. Missing
// files are passed as empty old text. When color is true the output is
// styled for a terminal; otherwise it is plain "-"/"+" prefixed lines.
func Render(label, oldText, newText string, color bool) string {
	var b strings.Builder

	header := "≡ " + label
	if color {
		header = headerStyle.Render(header)
	}
	b.WriteString(header)
	b.WriteByte('\n')

	for _, d := range lineDiffs(oldText, newText) {
		prefix, style := "  ", contextStyle
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix, style = "- ", removedStyle
		case diffmatchpatch.DiffInsert:
			prefix, style = "+ ", addedStyle
		}
		for _, line := range splitLines(d.Text) {
			if color {
				b.WriteString(style.Render(prefix + line))
			} else {
				b.WriteString(prefix + line)
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// lineDiffs computes a line-granular diff.
func lineDiffs(oldText, newText string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(a, b, false)
	return dmp.DiffCharsToLines(diffs, lines)
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
