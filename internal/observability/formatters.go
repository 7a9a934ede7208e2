// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dhurleystratton/ocp-executive-discovery/internal/types"
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

// PrintDomainScore outputs a domain validation verdict for an organization.
func (p *Printer) PrintDomainScore(domain, organization string, score types.ValidationScore) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Domain:       %s\n", domain))
	sb.WriteString(fmt.Sprintf("Organization: %s\n", organization))
	sb.WriteString("\n")
	if score.IsValid {
		sb.WriteString(fmt.Sprintf("✓ VALID  (confidence %.2f)", score.Confidence))
	} else {
		sb.WriteString(fmt.Sprintf("✗ INVALID  (confidence %.2f)", score.Confidence))
	}
	if score.Reason != "" {
		sb.WriteString(fmt.Sprintf("\n  %s", score.Reason))
	}

	p.printBox("DOMAIN VALIDATION", sb.String())
}

// PrintExecutives outputs the extracted executive candidates with confidence
// scores and source pages.
func (p *Printer) PrintExecutives(executives []types.ExecutiveCandidate) {
	if len(executives) == 0 {
		p.printBox("EXECUTIVES", "No executives found")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d executives:\n\n", len(executives)))

	count := min(len(executives), maxItemsToShow)
	for i := 0; i < count; i++ {
		exec := executives[i]
		sb.WriteString(fmt.Sprintf("• %s\n", exec.Name))
		title := exec.Title
		if len(title) > 45 {
			title = title[:42] + "..."
		}
		if title != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", title))
		}
		sb.WriteString(fmt.Sprintf("  Confidence: %.2f\n", exec.NameConfidence))
		source := exec.SourceURL
		if len(source) > 45 {
			source = source[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("  Source: %s\n", source))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(executives) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more executives", len(executives)-maxItemsToShow))
	}

	p.printBox("EXECUTIVES", sb.String())
}

// PrintEmails outputs generated email guesses grouped by executive name.
func (p *Printer) PrintEmails(emails map[string][]string) {
	if len(emails) == 0 {
		return
	}

	names := make([]string, 0, len(emails))
	for name := range emails {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for i, name := range names {
		sb.WriteString(fmt.Sprintf("%s:\n", name))
		count := min(len(emails[name]), maxItemsToShow)
		for j := 0; j < count; j++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", emails[name][j]))
		}
		if len(emails[name]) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(emails[name])-maxItemsToShow))
		}
		if i < len(names)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("EMAIL CANDIDATES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDiscoverySummary outputs the overall result of a discovery run.
func (p *Printer) PrintDiscoverySummary(result *types.DiscoveryResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Organization: %s\n", result.Target.OrganizationName))
	sb.WriteString(fmt.Sprintf("Domain:       %s\n", result.Target.Domain))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Pages crawled:    %d\n", result.PagesSeen))
	sb.WriteString(fmt.Sprintf("PDF links found:  %d\n", len(result.PDFLinks)))
	sb.WriteString(fmt.Sprintf("Executives found: %d", len(result.Executives)))

	p.printBox("DISCOVERY SUMMARY", sb.String())
}
