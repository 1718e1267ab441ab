// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/hirehand/formfill/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
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

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintFillResult outputs a human-readable summary of one fill invocation:
// what was written, what was skipped with errors, and the overall outcome.
func (p *Printer) PrintFillResult(result *types.FillResult) {
	if result == nil {
		return
	}

	var sb strings.Builder

	status := "✅ success"
	if !result.Success {
		status = "✗ failed"
	}
	sb.WriteString(fmt.Sprintf("Platform: %s\n", result.Platform))
	sb.WriteString(fmt.Sprintf("Run:      %s\n", result.RunID))
	sb.WriteString(fmt.Sprintf("Status:   %s\n", status))
	sb.WriteString("\n")

	if len(result.FilledFields) > 0 {
		sb.WriteString(fmt.Sprintf("Filled %d fields:\n", len(result.FilledFields)))
		count := min(len(result.FilledFields), maxItemsToShow)
		for i := 0; i < count; i++ {
			f := result.FilledFields[i]
			value := f.Value
			if len(value) > 30 {
				value = value[:27] + "..."
			}
			sb.WriteString(fmt.Sprintf("  • %s (%s)", f.Name, f.Type))
			if value != "" {
				sb.WriteString(fmt.Sprintf(" = %s", value))
			}
			sb.WriteString("\n")
		}
		if len(result.FilledFields) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.FilledFields)-maxItemsToShow))
		}
	} else {
		sb.WriteString("No fields written.\n")
	}

	if len(result.Errors) > 0 {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%d issues:\n", len(result.Errors)))
		count := min(len(result.Errors), maxItemsToShow)
		for i := 0; i < count; i++ {
			e := result.Errors[i]
			msg := e.Message
			if len(msg) > 40 {
				msg = msg[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("  ⚠ [%s] %s\n", e.Type, msg))
		}
		if len(result.Errors) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.Errors)-maxItemsToShow))
		}
	}

	p.printBox("FILL REPORT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJobDetails outputs the extracted job posting summary.
func (p *Printer) PrintJobDetails(details *types.JobDetails) {
	if details == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:    %s\n", details.Title))
	sb.WriteString(fmt.Sprintf("Company:  %s\n", details.Company))
	if details.Location != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", details.Location))
	}
	if details.JobType != "" {
		sb.WriteString(fmt.Sprintf("Type:     %s\n", details.JobType))
	}
	if details.PostedDate != "" {
		sb.WriteString(fmt.Sprintf("Posted:   %s\n", details.PostedDate))
	}
	if details.Description != "" {
		desc := strings.Join(strings.Fields(details.Description), " ")
		if len(desc) > 120 {
			desc = desc[:117] + "..."
		}
		sb.WriteString("\n")
		sb.WriteString(desc)
		sb.WriteString("\n")
	}

	p.printBox("JOB DETAILS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProfileSummary outputs the identity portion of the loaded profile so a
// dry run shows what would be written.
func (p *Printer) PrintProfileSummary(profile *types.ProfileData) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:   %s\n", profile.FullName()))
	sb.WriteString(fmt.Sprintf("Email:  %s\n", profile.Email))
	if profile.Phone != "" {
		sb.WriteString(fmt.Sprintf("Phone:  %s\n", profile.Phone))
	}
	if profile.YearsExperience != nil {
		sb.WriteString(fmt.Sprintf("Years:  %d\n", *profile.YearsExperience))
	}
	if profile.HasResumeBytes() {
		sb.WriteString(fmt.Sprintf("Resume: %s (%d bytes)\n", profile.Resume.FileName, len(profile.Resume.Data)))
	}
	if len(profile.AnswerTemplates) > 0 {
		sb.WriteString(fmt.Sprintf("Answer templates: %d\n", len(profile.AnswerTemplates)))
	}

	p.printBox("PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}
