package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/azurestocking/ma-law-scraper/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display at the end of a crawl run.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether the failures section is shown when the
	// run had none.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the crawl report in human-readable format.
func (w *SimpleWriter) Write(report *model.CrawlReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeActivity(&sb, report)
	w.writeFailures(&sb, report)
	w.writeSnapshot(&sb, report)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.CrawlReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                          LAW CRAWL REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Base URL:   %s\n", report.BaseURL))
	sb.WriteString(fmt.Sprintf("Started:    %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST")))
	if !report.FinishedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("Finished:   %s\n", report.FinishedAt.Format("2006-01-02 15:04:05 MST")))
	}
	sb.WriteString(fmt.Sprintf("Duration:   %s\n", report.Duration().Round(time.Second)))
	if w.verbose && report.OutputPath != "" {
		sb.WriteString(fmt.Sprintf("Snapshot:   %s\n", report.OutputPath))
	}

	if report.HasFailures() {
		sb.WriteString("Status:     Completed with failures\n")
	} else {
		sb.WriteString("Status:     Complete\n")
	}

	sb.WriteString("\n")
}

// writeActivity writes the crawl activity section.
func (w *SimpleWriter) writeActivity(sb *strings.Builder, report *model.CrawlReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("CRAWL ACTIVITY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Parts:     %d processed\n", report.PartsProcessed))
	sb.WriteString(fmt.Sprintf("  Titles:    %d expanded\n", report.TitlesProcessed))
	sb.WriteString(fmt.Sprintf("  Chapters:  %d processed, %d already complete\n",
		report.ChaptersProcessed, report.ChaptersSkipped))
	sb.WriteString(fmt.Sprintf("  Sections:  %d fetched, %d carried forward\n",
		report.SectionsFetched, report.SectionsCarried))
	if w.verbose || report.ParseFallbacks > 0 {
		sb.WriteString(fmt.Sprintf("  Label fallbacks: %d\n", report.ParseFallbacks))
	}
	sb.WriteString("\n")
}

// writeFailures writes the failure section when the run degraded.
func (w *SimpleWriter) writeFailures(sb *strings.Builder, report *model.CrawlReport) {
	if !report.HasFailures() && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("FAILURES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if !report.HasFailures() {
		sb.WriteString("  No failures\n\n")
		return
	}

	if report.PartsFailed > 0 {
		sb.WriteString(fmt.Sprintf("  [!] Parts skipped:    %d\n", report.PartsFailed))
	}
	if report.TitlesDropped > 0 {
		sb.WriteString(fmt.Sprintf("  [!] Titles dropped:   %d\n", report.TitlesDropped))
	}
	if report.ChaptersFailed > 0 {
		sb.WriteString(fmt.Sprintf("  [!] Chapters skipped: %d\n", report.ChaptersFailed))
	}
	if report.SectionsFailed > 0 {
		sb.WriteString(fmt.Sprintf("  [!] Sections empty:   %d\n", report.SectionsFailed))
	}
	sb.WriteString("\n  Failed nodes keep their persisted data; re-run to fill the gaps.\n\n")
}

// writeSnapshot writes the snapshot totals section.
func (w *SimpleWriter) writeSnapshot(sb *strings.Builder, report *model.CrawlReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SNAPSHOT\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Total sections:    %d\n", report.TotalSections))
	sb.WriteString(fmt.Sprintf("  Complete sections: %d (%.1f%%)\n",
		report.CompleteSections, report.CompletionRate()*100))
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by malaw\n")
	sb.WriteString("https://github.com/azurestocking/ma-law-scraper\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
