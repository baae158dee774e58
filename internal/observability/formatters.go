// Package observability provides boxed, human-readable summaries for CLI output.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-studio/internal/jobfunction"
	"github.com/jonathan/resume-studio/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow caps lists where only a preview is useful
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to a terminal; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintAnalysis shows every extracted skill, whether the resume already covers
// it and the skills picked for generation.
func (p *Printer) PrintAnalysis(analysis *types.JobAnalysisResult, matches []types.SkillMatch, selected []string) {
	if analysis == nil {
		return
	}

	var sb strings.Builder
	if analysis.ExperienceLevel != "" {
		fmt.Fprintf(&sb, "Experience level: %s\n\n", analysis.ExperienceLevel)
	}

	if len(matches) == 0 {
		sb.WriteString("No skills extracted\n")
	}
	for _, m := range matches {
		mark := " "
		if m.Present {
			mark = "✓"
		}
		req := ""
		if m.Required {
			req = " (required)"
		}
		fmt.Fprintf(&sb, "[%s] %s - %s%s\n", mark, m.Name, m.Importance, req)
	}

	if len(selected) > 0 {
		fmt.Fprintf(&sb, "\nSelected: %s\n", strings.Join(selected, ", "))
	}

	p.printBox("JOB ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResume outputs a short overview of a resume document.
func (p *Printer) PrintResume(doc *types.ResumeDocument) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	name := strings.TrimSpace(doc.FirstName + " " + doc.LastName)
	if name != "" {
		fmt.Fprintf(&sb, "Name:     %s\n", name)
	}
	if doc.JobTitle != "" {
		fmt.Fprintf(&sb, "Title:    %s\n", doc.JobTitle)
	}
	if doc.Summary != "" {
		fmt.Fprintf(&sb, "Summary:  %s\n", truncate(doc.Summary, 40))
	}
	sb.WriteString("\n")

	if len(doc.SkillSections) > 0 {
		sb.WriteString("Skills:\n")
		for _, g := range doc.SkillSections {
			fmt.Fprintf(&sb, "  • %s: %s\n", g.Name, strings.Join(g.Skills, ", "))
		}
	}

	if len(doc.WorkExperiences) > 0 {
		sb.WriteString("Experience:\n")
		count := min(len(doc.WorkExperiences), maxItemsToShow)
		for _, w := range doc.WorkExperiences[:count] {
			fmt.Fprintf(&sb, "  • %s", w.Position)
			if w.Company != "" {
				fmt.Fprintf(&sb, " at %s", w.Company)
			}
			sb.WriteString("\n")
		}
		if len(doc.WorkExperiences) > maxItemsToShow {
			fmt.Fprintf(&sb, "  ... and %d more\n", len(doc.WorkExperiences)-maxItemsToShow)
		}
	}

	if len(doc.Projects) > 0 {
		fmt.Fprintf(&sb, "Projects: %d\n", len(doc.Projects))
	}

	p.printBox("RESUME", strings.TrimSpace(sb.String()))
}

// PrintJobFunctions prints the category tree, one role per line.
//
//nolint:errcheck // writing to a terminal; errors are not recoverable
func (p *Printer) PrintJobFunctions(categories []jobfunction.Category) {
	if len(categories) == 0 {
		fmt.Fprintln(p.out, "No job functions found")
		return
	}
	for _, cat := range categories {
		fmt.Fprintln(p.out, cat.Name)
		for _, sub := range cat.Subcategories {
			fmt.Fprintf(p.out, "  %s\n", sub.Name)
			for _, role := range sub.Roles {
				fmt.Fprintf(p.out, "    - %s\n", role)
			}
		}
	}
}
