// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/evidence-matcher/internal/evidence"
	"github.com/jonathan/evidence-matcher/internal/textnorm"
	"github.com/jonathan/evidence-matcher/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// clip shortens s to width runes.
func clip(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

// PrintMatches summarizes a matching run grouped by project, in the order
// projects first appear.
func (p *Printer) PrintMatches(matches types.MatchCollection) {
	var sb strings.Builder

	if len(matches) == 0 {
		sb.WriteString("No evidence found.\n")
		p.printBox("EVIDENCE", sb.String())
		return
	}

	grouped := matches.ByProject()
	var order []string
	seen := make(map[string]bool)
	for _, m := range matches {
		if !seen[m.ProjectTitle] {
			seen[m.ProjectTitle] = true
			order = append(order, m.ProjectTitle)
		}
	}

	sb.WriteString(fmt.Sprintf("Matches:  %d across %d project(s)\n", len(matches), len(order)))
	for _, title := range order {
		group := grouped[title]
		sb.WriteString(fmt.Sprintf("\n%s (%d)\n", title, len(group)))
		count := min(len(group), maxItemsToShow)
		for _, m := range group[:count] {
			sb.WriteString(fmt.Sprintf("  • %s @ %s\n", m.JobTitle, m.CompanyName))
			sb.WriteString(fmt.Sprintf("    %s\n", m.Qualification))
		}
		if len(group) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(group)-maxItemsToShow))
		}
	}

	p.printBox("EVIDENCE", sb.String())
}

// PrintTokenSet shows the normalized tokens of text in sorted order.
func (p *Printer) PrintTokenSet(text string, tokens textnorm.TokenSet) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Input:   %s\n", text))
	sb.WriteString(fmt.Sprintf("Tokens:  %d\n\n", tokens.Len()))
	for _, tok := range tokens.Sorted() {
		sb.WriteString(fmt.Sprintf("  %s\n", tok))
	}
	p.printBox("NORMALIZED TOKENS", sb.String())
}

// PrintScore shows both channels and the verdict for one pair.
func (p *Printer) PrintScore(achievement, requirement string, score evidence.Score, threshold float64) {
	verdict := "rejected"
	if evidence.Accept(score.Blended, threshold) {
		verdict = "accepted"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Achievement:  %s\n", achievement))
	sb.WriteString(fmt.Sprintf("Requirement:  %s\n\n", requirement))
	sb.WriteString(fmt.Sprintf("Overlap:      %.3f\n", score.Overlap))
	sb.WriteString(fmt.Sprintf("Fuzzy:        %.3f\n", score.Fuzzy))
	sb.WriteString(fmt.Sprintf("Blended:      %.3f (threshold %.2f, %s)\n", score.Blended, threshold, verdict))
	p.printBox("SCORE", sb.String())
}
