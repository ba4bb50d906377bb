package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/azurestocking/ma-law-scraper/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the crawl report in Markdown format.
func (w *MarkdownWriter) Write(report *model.CrawlReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeActivity(md, report)
	w.writeSnapshot(md, report)
	w.writeAlert(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.CrawlReport) {
	md.H1("Law Crawl Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Base URL", "`" + report.BaseURL + "`"},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", report.Duration().String()},
			{"Status", w.getStatusText(report)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.CrawlReport) string {
	if report.HasFailures() {
		return "⚠️ Completed with failures"
	}
	return "✅ Complete"
}

// writeActivity writes the crawl activity table.
func (w *MarkdownWriter) writeActivity(md *markdown.Markdown, report *model.CrawlReport) {
	md.H2("Crawl Activity")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Level", "Processed", "Reused", "Failed"},
		Rows: [][]string{
			{"Parts", strconv.Itoa(report.PartsProcessed), "-", strconv.Itoa(report.PartsFailed)},
			{"Titles", strconv.Itoa(report.TitlesProcessed), "-", strconv.Itoa(report.TitlesDropped)},
			{"Chapters", strconv.Itoa(report.ChaptersProcessed), strconv.Itoa(report.ChaptersSkipped), strconv.Itoa(report.ChaptersFailed)},
			{"Sections", strconv.Itoa(report.SectionsFetched), strconv.Itoa(report.SectionsCarried), strconv.Itoa(report.SectionsFailed)},
		},
	})
	md.PlainText("")

	if report.ParseFallbacks > 0 {
		md.PlainTextf("%d heading(s) missed their level pattern and were parsed positionally.",
			report.ParseFallbacks)
		md.PlainText("")
	}
}

// writeSnapshot writes the snapshot totals table.
func (w *MarkdownWriter) writeSnapshot(md *markdown.Markdown, report *model.CrawlReport) {
	md.H2("Snapshot")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total sections", strconv.Itoa(report.TotalSections)},
			{"Complete sections", strconv.Itoa(report.CompleteSections)},
			{"Completion", fmt.Sprintf("%.1f%%", report.CompletionRate()*100)},
		},
	})
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the run outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.CrawlReport) {
	switch {
	case report.PartsFailed > 0 || report.TitlesDropped > 0 || report.ChaptersFailed > 0:
		md.Warningf(
			"Structural nodes were lost this run: %d part(s), %d title(s), %d chapter(s). "+
				"Their persisted data is untouched; re-run to fill the gaps.",
			report.PartsFailed, report.TitlesDropped, report.ChaptersFailed,
		)
	case report.SectionsFailed > 0:
		md.Importantf(
			"%d section(s) ended the run as empty placeholders and will be re-fetched next run.",
			report.SectionsFailed,
		)
	default:
		md.Tip("Every discovered node was crawled or carried forward complete.")
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [malaw](https://github.com/azurestocking/ma-law-scraper)*")
}
