package walker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/azurestocking/ma-law-scraper/internal/extract"
	"github.com/azurestocking/ma-law-scraper/internal/fetch"
	"github.com/azurestocking/ma-law-scraper/internal/label"
	"github.com/azurestocking/ma-law-scraper/internal/model"
	"github.com/azurestocking/ma-law-scraper/internal/retry"
)

// Walk defaults.
const (
	// DefaultBaseURL is the statute index the walk starts from.
	DefaultBaseURL = "https://malegislature.gov/Laws/GeneralLaws"

	// DefaultPaceDelay is the politeness pause after each page retrieval
	// and each processed section.
	DefaultPaceDelay = time.Second
)

// Fetcher retrieves pages.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (*fetch.Page, error)
}

// Extractor reads typed records out of fetched pages.
type Extractor interface {
	Parts(page *fetch.Page) ([]extract.PartRecord, error)
	Titles(page *fetch.Page) ([]extract.TitleNode, error)
	SectionLinks(page *fetch.Page) ([]extract.SectionRef, error)
	SectionBody(page *fetch.Page) (extract.SectionBody, error)
}

// Expander materializes a title's lazy-loaded chapter list.
type Expander interface {
	Expand(ctx context.Context, node extract.TitleNode) ([]extract.ChapterRecord, error)
}

// Store is the load-merge-persist cycle the walk runs against.
type Store interface {
	Load() *model.Document
	Merge(doc *model.Document, part model.Part, title model.Title, chapter model.Chapter)
	Persist(doc *model.Document) error
}

// Walker drives one crawl: a depth-first descent of the statute hierarchy
// that re-fetches every structural level, skips section payloads the
// snapshot already holds complete, and persists after every chapter.
//
// Failure handling is scoped to the node that failed. A part that will not
// list its titles, a title that never expands, a chapter that will not list
// its sections: each is logged, counted, and stepped over, because losing
// one subtree for a run is recoverable (the next run re-walks everything
// structural) while aborting discards the rest of the corpus. Only three
// things end a run early: an index that will not load, a snapshot that will
// not persist, and cancellation.
type Walker struct {
	// fetcher retrieves pages.
	fetcher Fetcher

	// extractor reads records out of pages.
	extractor Extractor

	// expander materializes chapter lists.
	expander Expander

	// store owns snapshot load, merge, and persist.
	store Store

	// runner wraps every network unit in the retry policy.
	runner *retry.Runner

	// baseURL is the statute index the walk starts from.
	baseURL string

	// pace is the politeness pause between retrievals.
	pace time.Duration

	// logger reports walk progress and degradation.
	logger *slog.Logger
}

// Option configures a Walker.
type Option func(*Walker)

// WithBaseURL sets the statute index URL.
func WithBaseURL(baseURL string) Option {
	return func(w *Walker) {
		w.baseURL = baseURL
	}
}

// WithPaceDelay sets the politeness pause. Zero disables pacing.
func WithPaceDelay(d time.Duration) Option {
	return func(w *Walker) {
		w.pace = d
	}
}

// WithRetryRunner sets the retry policy for every network unit.
func WithRetryRunner(runner *retry.Runner) Option {
	return func(w *Walker) {
		w.runner = runner
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Walker) {
		w.logger = logger
	}
}

// New creates a Walker over the given collaborators.
func New(fetcher Fetcher, extractor Extractor, expander Expander, store Store, opts ...Option) *Walker {
	w := &Walker{
		fetcher:   fetcher,
		extractor: extractor,
		expander:  expander,
		store:     store,
		runner:    retry.NewRunner(),
		baseURL:   DefaultBaseURL,
		pace:      DefaultPaceDelay,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Run walks the whole hierarchy once and returns the run's report. The
// report is returned even when the run degrades or aborts: whatever was
// counted before the stop is still true.
func (w *Walker) Run(ctx context.Context) (*model.CrawlReport, error) {
	report := model.NewCrawlReport(w.baseURL)
	doc := w.store.Load()

	w.logger.Info("crawl starting",
		"base_url", w.baseURL,
		"persisted_sections", doc.CountSections())

	parts, err := w.fetchIndex(ctx)
	if err != nil {
		report.Finish(doc)
		return report, fmt.Errorf("failed to fetch law index: %w", err)
	}

	for _, pr := range parts {
		if ctx.Err() != nil {
			report.Finish(doc)
			return report, ctx.Err()
		}
		if err := w.walkPart(ctx, doc, report, pr); err != nil {
			report.Finish(doc)
			return report, err
		}
	}

	report.Finish(doc)
	w.logger.Info("crawl finished",
		"sections_fetched", report.SectionsFetched,
		"sections_carried", report.SectionsCarried,
		"chapters_skipped", report.ChaptersSkipped,
		"complete_sections", report.CompleteSections,
		"total_sections", report.TotalSections)

	return report, nil
}

// fetchIndex retrieves the index page and its part links. Exhaustion here
// aborts the run: with no part list there is nothing to degrade to.
func (w *Walker) fetchIndex(ctx context.Context) ([]extract.PartRecord, error) {
	var parts []extract.PartRecord
	err := w.runner.Do(ctx, "fetch index", func(ctx context.Context) error {
		page, err := w.fetcher.Fetch(ctx, w.baseURL)
		if err != nil {
			return err
		}
		records, err := w.extractor.Parts(page)
		if err != nil {
			return err
		}
		parts = records
		return nil
	})
	w.pause(ctx)
	return parts, err
}

// walkPart processes one part subtree. The returned error is non-nil only
// for run-ending conditions (cancellation, persist failure); a part that
// cannot be walked is counted and absorbed.
func (w *Walker) walkPart(ctx context.Context, doc *model.Document, report *model.CrawlReport, pr extract.PartRecord) error {
	lbl, matched := label.Part.Parse(pr.RawLabel)
	if !matched {
		report.ParseFallbacks++
		w.logger.Warn("part label fell back to positional parse", "raw", pr.RawLabel)
	}
	part := model.Part{ID: lbl.ID, Name: lbl.Name, URL: pr.URL}

	var titles []extract.TitleNode
	err := w.runner.Do(ctx, "fetch part "+part.ID, func(ctx context.Context) error {
		page, err := w.fetcher.Fetch(ctx, pr.URL)
		if err != nil {
			return err
		}
		nodes, err := w.extractor.Titles(page)
		if err != nil {
			return err
		}
		titles = nodes
		return nil
	})
	w.pause(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		w.logger.Error("part abandoned",
			"part", part.ID,
			"url", pr.URL,
			"error", err)
		report.PartsFailed++
		return nil
	}
	report.PartsProcessed++

	w.logger.Info("part listed", "part", part.ID, "titles", len(titles))

	for _, tn := range titles {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := w.walkTitle(ctx, doc, report, part, tn); err != nil {
			return err
		}
	}

	return nil
}

// walkTitle expands one title and processes its chapters.
func (w *Walker) walkTitle(ctx context.Context, doc *model.Document, report *model.CrawlReport, part model.Part, tn extract.TitleNode) error {
	lbl, matched := label.Title.Parse(tn.RawLabel)
	if !matched {
		report.ParseFallbacks++
		w.logger.Warn("title label fell back to positional parse", "raw", tn.RawLabel)
	}
	title := model.Title{ID: lbl.ID, Name: lbl.Name}

	var chapters []extract.ChapterRecord
	err := w.runner.Do(ctx, "expand title "+title.ID, func(ctx context.Context) error {
		records, err := w.expander.Expand(ctx, tn)
		if err != nil {
			return err
		}
		chapters = records
		return nil
	})
	w.pause(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		w.logger.Error("title subtree dropped",
			"part", part.ID,
			"title", title.ID,
			"error", err)
		report.TitlesDropped++
		return nil
	}
	report.TitlesProcessed++

	for _, cr := range chapters {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := w.walkChapter(ctx, doc, report, part, title, cr); err != nil {
			return err
		}
	}

	return nil
}

// walkChapter collects one chapter's sections and folds the result into
// the snapshot. This is the unit of persistence: every exit path that got
// as far as a section list merges and persists before returning.
func (w *Walker) walkChapter(ctx context.Context, doc *model.Document, report *model.CrawlReport, part model.Part, title model.Title, cr extract.ChapterRecord) error {
	lbl, matched := label.Chapter.Parse(cr.RawLabel)
	if !matched {
		report.ParseFallbacks++
		w.logger.Warn("chapter label fell back to positional parse", "raw", cr.RawLabel)
	}

	var refs []extract.SectionRef
	err := w.runner.Do(ctx, "fetch chapter "+lbl.ID, func(ctx context.Context) error {
		page, err := w.fetcher.Fetch(ctx, cr.URL)
		if err != nil {
			return err
		}
		links, err := w.extractor.SectionLinks(page)
		if err != nil {
			return err
		}
		refs = links
		return nil
	})
	w.pause(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// No merge on this path: an empty merge would replace sections
		// the snapshot already paid for.
		w.logger.Error("chapter skipped, persisted data untouched",
			"part", part.ID,
			"title", title.ID,
			"chapter", lbl.ID,
			"error", err)
		report.ChaptersFailed++
		return nil
	}

	persisted := persistedChapter(doc, part.ID, title.ID, lbl.ID)

	if !needsProcessing(persisted, refs) {
		carried := model.Chapter{
			ID:       lbl.ID,
			Name:     lbl.Name,
			URL:      cr.URL,
			Sections: persisted.Sections,
		}
		w.store.Merge(doc, part, title, carried)
		if err := w.store.Persist(doc); err != nil {
			return err
		}
		report.ChaptersSkipped++
		report.SectionsCarried += len(persisted.Sections)
		w.logger.Info("chapter already complete",
			"part", part.ID,
			"title", title.ID,
			"chapter", lbl.ID,
			"sections", len(persisted.Sections))
		return nil
	}

	sections, err := w.collectSections(ctx, report, persisted, refs)
	if err != nil {
		return err
	}

	w.store.Merge(doc, part, title, model.Chapter{
		ID:       lbl.ID,
		Name:     lbl.Name,
		URL:      cr.URL,
		Sections: sections,
	})
	if err := w.store.Persist(doc); err != nil {
		return err
	}
	report.ChaptersProcessed++

	w.logger.Info("chapter persisted",
		"part", part.ID,
		"title", title.ID,
		"chapter", lbl.ID,
		"sections", len(sections))

	return nil
}

// collectSections builds a chapter's fresh section list: complete persisted
// entries are carried, everything else is fetched. A section whose retry
// cycle exhausts gets an empty-text placeholder, and every placeholder gets
// one more full retry cycle before the chapter is final.
func (w *Walker) collectSections(ctx context.Context, report *model.CrawlReport, persisted *model.Chapter, refs []extract.SectionRef) ([]model.Section, error) {
	sections := make([]model.Section, 0, len(refs))
	var placeholders []int

	for _, ref := range refs {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if persisted != nil {
			if prior := persisted.Section(ref.ID); prior != nil && prior.Complete() {
				sections = append(sections, *prior)
				report.SectionsCarried++
				continue
			}
		}

		sec, err := w.fetchSection(ctx, ref)
		w.pause(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			w.logger.Warn("section placeholder recorded",
				"section", ref.ID,
				"url", ref.URL,
				"error", err)
			sections = append(sections, model.Section{
				ID:    ref.ID,
				Title: ref.Title,
				URL:   ref.URL,
			})
			placeholders = append(placeholders, len(sections)-1)
			continue
		}
		sections = append(sections, sec)
		report.SectionsFetched++
	}

	for _, idx := range placeholders {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		ref := extract.SectionRef{
			ID:    sections[idx].ID,
			Title: sections[idx].Title,
			URL:   sections[idx].URL,
		}
		sec, err := w.fetchSection(ctx, ref)
		w.pause(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			w.logger.Error("section abandoned with empty text",
				"section", ref.ID,
				"url", ref.URL,
				"error", err)
			report.SectionsFailed++
			continue
		}
		sections[idx] = sec
		report.SectionsFetched++
	}

	return sections, nil
}

// fetchSection retrieves one section page and extracts its body under the
// retry policy. The canonical page heading wins over the link text when
// both carry a display title.
func (w *Walker) fetchSection(ctx context.Context, ref extract.SectionRef) (model.Section, error) {
	var sec model.Section
	err := w.runner.Do(ctx, "fetch section "+ref.ID, func(ctx context.Context) error {
		page, err := w.fetcher.Fetch(ctx, ref.URL)
		if err != nil {
			return err
		}
		body, err := w.extractor.SectionBody(page)
		if err != nil {
			return err
		}

		title := body.Title
		if title == "" {
			title = ref.Title
		}
		sec = model.Section{
			ID:       ref.ID,
			Title:    title,
			FullText: body.Text,
			URL:      ref.URL,
		}
		return nil
	})
	return sec, err
}

// pause is the select-based politeness sleep.
func (w *Walker) pause(ctx context.Context) {
	if w.pace <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(w.pace):
	}
}

// persistedChapter locates a chapter in the working document by its full
// key path. Nil when any level along the path is absent.
func persistedChapter(doc *model.Document, partID, titleID, chapterID string) *model.Chapter {
	p := doc.Part(partID)
	if p == nil {
		return nil
	}
	t := p.Title(titleID)
	if t == nil {
		return nil
	}
	return t.Chapter(chapterID)
}

// needsProcessing decides whether a chapter's sections must be visited.
// True when the chapter is new to the snapshot, when its section
// collection was never populated (nil, as opposed to empty), or when any
// freshly listed section is absent or incomplete in the snapshot.
func needsProcessing(persisted *model.Chapter, refs []extract.SectionRef) bool {
	if persisted == nil || persisted.Sections == nil {
		return true
	}
	for _, ref := range refs {
		prior := persisted.Section(ref.ID)
		if prior == nil || !prior.Complete() {
			return true
		}
	}
	return false
}
