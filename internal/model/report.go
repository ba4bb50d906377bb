package model

import "time"

// CrawlReport is the statistics record of one crawl run.
// It is rendered by the report writers, printed as the end-of-run summary,
// and stored as one row in the crawl archive for later comparison.
//
// Design decision: the report counts decisions, not just outcomes. Skipped
// chapters and carried-forward sections are what make the incremental crawl
// cheap, so the report makes that visible: a warm re-run over a complete
// snapshot should show every chapter skipped and zero sections fetched.
type CrawlReport struct {
	// BaseURL is the crawl root this run walked.
	BaseURL string `json:"base_url"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the run ended. Zero while the run is in flight.
	FinishedAt time.Time `json:"finished_at"`

	// OutputPath is the snapshot file the run merged into.
	OutputPath string `json:"output_path"`

	// === Structural levels (always re-crawled) ===

	// PartsProcessed counts parts whose title listing was extracted.
	PartsProcessed int `json:"parts_processed"`

	// PartsFailed counts parts abandoned after retry exhaustion.
	PartsFailed int `json:"parts_failed"`

	// TitlesProcessed counts titles whose chapter list was expanded.
	TitlesProcessed int `json:"titles_processed"`

	// TitlesDropped counts titles abandoned because expansion never
	// yielded chapters; their subtrees are absent from this run's merge.
	TitlesDropped int `json:"titles_dropped"`

	// === Chapters (unit of merge + persist) ===

	// ChaptersProcessed counts chapters whose sections were collected.
	ChaptersProcessed int `json:"chapters_processed"`

	// ChaptersSkipped counts chapters carried forward unchanged because
	// every discoverable section was already complete.
	ChaptersSkipped int `json:"chapters_skipped"`

	// ChaptersFailed counts chapters abandoned after the section listing
	// could not be fetched; persisted data for them is left untouched.
	ChaptersFailed int `json:"chapters_failed"`

	// === Sections (the expensive leaf fetches) ===

	// SectionsFetched counts section pages actually downloaded.
	SectionsFetched int `json:"sections_fetched"`

	// SectionsCarried counts sections skipped because the persisted entry
	// was already complete.
	SectionsCarried int `json:"sections_carried"`

	// SectionsFailed counts sections still holding an empty-text
	// placeholder after the chapter's second retry pass.
	SectionsFailed int `json:"sections_failed"`

	// ParseFallbacks counts labels that missed their level pattern and
	// went through positional fallback parsing. Recovered, not an error.
	ParseFallbacks int `json:"parse_fallbacks"`

	// === Snapshot totals after the run ===

	// TotalSections is the section count of the merged document.
	TotalSections int `json:"total_sections"`

	// CompleteSections is the complete-section count of the merged document.
	CompleteSections int `json:"complete_sections"`
}

// NewCrawlReport returns a report with the clock started.
func NewCrawlReport(baseURL string) *CrawlReport {
	return &CrawlReport{
		BaseURL:   baseURL,
		StartedAt: time.Now(),
	}
}

// Finish stamps the end time and records the merged document's totals.
func (r *CrawlReport) Finish(doc *Document) {
	r.FinishedAt = time.Now()
	if doc != nil {
		r.TotalSections = doc.CountSections()
		r.CompleteSections = doc.CountComplete()
	}
}

// Duration returns the wall-clock length of the run, or the elapsed time so
// far when the run has not finished.
func (r *CrawlReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// CompletionRate returns the fraction of snapshot sections that are
// complete, in [0,1]. Zero when the snapshot has no sections.
func (r *CrawlReport) CompletionRate() float64 {
	if r.TotalSections == 0 {
		return 0
	}
	return float64(r.CompleteSections) / float64(r.TotalSections)
}

// HasFailures reports whether any node was lost or degraded this run.
func (r *CrawlReport) HasFailures() bool {
	return r.PartsFailed > 0 || r.TitlesDropped > 0 ||
		r.ChaptersFailed > 0 || r.SectionsFailed > 0
}
