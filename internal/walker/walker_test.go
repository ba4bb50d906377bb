package walker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/azurestocking/ma-law-scraper/internal/extract"
	"github.com/azurestocking/ma-law-scraper/internal/fetch"
	"github.com/azurestocking/ma-law-scraper/internal/model"
	"github.com/azurestocking/ma-law-scraper/internal/retry"
	"github.com/azurestocking/ma-law-scraper/internal/store"
)

const siteBase = "https://statutes.test/Laws"

// Fixture site URLs, shared by page bodies and assertions.
const (
	partIURL     = siteBase + "/PartI"
	partIIURL    = siteBase + "/PartII"
	fragmentI    = siteBase + "/Chapters?title=I"
	fragmentII   = siteBase + "/Chapters?title=II"
	chapter1URL  = siteBase + "/PartI/TitleI/Chapter1"
	chapter2URL  = siteBase + "/PartI/TitleI/Chapter2"
	chapter183URL = siteBase + "/PartII/TitleII/Chapter183"
	section1URL  = chapter1URL + "/Section1"
	section2URL  = chapter1URL + "/Section2"
	section16URL = chapter2URL + "/Section16"
	section3URL  = chapter183URL + "/Section3"
)

// fakeSite serves canned HTML by URL and scripts failures. It implements
// the walker's Fetcher.
type fakeSite struct {
	mu sync.Mutex

	// pages maps URL to HTML body.
	pages map[string]string

	// flaky maps URL to the number of failures left before success.
	flaky map[string]int

	// broken URLs fail on every fetch.
	broken map[string]bool

	// log records every fetched URL in order.
	log []string
}

func newFakeSite() *fakeSite {
	return &fakeSite{
		pages: map[string]string{
			siteBase: `<html><body>
				<a class="partLink" href="/Laws/PartI">Part I ADMINISTRATION OF THE GOVERNMENT Chapters. 1-182</a>
				<a class="partLink" href="/Laws/PartII">Part II REAL AND PERSONAL PROPERTY Chapters. 183-210</a>
			</body></html>`,

			partIURL: `<html><body>
				<div class="titleItem" data-chapters-url="/Laws/Chapters?title=I">
					<h4>Title I Jurisdiction and Emblems</h4>
				</div>
			</body></html>`,
			partIIURL: `<html><body>
				<div class="titleItem" data-chapters-url="/Laws/Chapters?title=II">
					<h4>Title II Real Property</h4>
				</div>
			</body></html>`,

			fragmentI: `<html><body>
				<a class="chapterLink" href="/Laws/PartI/TitleI/Chapter1">Chapter 1 JURISDICTION OF THE COMMONWEALTH</a>
				<a class="chapterLink" href="/Laws/PartI/TitleI/Chapter2">Chapter 2 ARMS AND EMBLEMS</a>
			</body></html>`,
			fragmentII: `<html><body>
				<a class="chapterLink" href="/Laws/PartII/TitleII/Chapter183">Chapter 183 ALIENATION OF REAL PROPERTY</a>
			</body></html>`,

			chapter1URL: `<html><body>
				<a class="sectionLink" href="/Laws/PartI/TitleI/Chapter1/Section1">Section 1: Jurisdiction of commonwealth</a>
				<a class="sectionLink" href="/Laws/PartI/TitleI/Chapter1/Section2">Section 2 Boundary lines</a>
			</body></html>`,
			chapter2URL: `<html><body>
				<a class="sectionLink" href="/Laws/PartI/TitleI/Chapter2/Section16">Section 16 Repealed, 1978, 478, Sec. 45</a>
			</body></html>`,
			chapter183URL: `<html><body>
				<a class="sectionLink" href="/Laws/PartII/TitleII/Chapter183/Section3">Section 3: Estates of inheritance</a>
			</body></html>`,

			section1URL: `<html><body>
				<h2 class="sectionTitle">Section 1: Jurisdiction of commonwealth</h2>
				<div class="sectionText"><p>The sovereignty and jurisdiction of the commonwealth.</p></div>
			</body></html>`,
			section2URL: `<html><body>
				<h2 class="sectionTitle">Section 2: Boundary lines</h2>
				<div class="sectionText"><p>The boundaries of the commonwealth.</p></div>
			</body></html>`,
			section16URL: `<html><body>
				<h2 class="sectionTitle">Section 16 Repealed, 1978, 478, Sec. 45</h2>
				<div class="sectionText"></div>
			</body></html>`,
			section3URL: `<html><body>
				<h2 class="sectionTitle">Section 3: Estates of inheritance</h2>
				<div class="sectionText"><p>Words of inheritance shall not be necessary.</p></div>
			</body></html>`,
		},
		flaky:  map[string]int{},
		broken: map[string]bool{},
	}
}

func (s *fakeSite) Fetch(_ context.Context, pageURL string) (*fetch.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log = append(s.log, pageURL)

	if s.broken[pageURL] {
		return nil, fmt.Errorf("%w: connection refused", fetch.ErrNavigation)
	}
	if n := s.flaky[pageURL]; n > 0 {
		s.flaky[pageURL] = n - 1
		return nil, fmt.Errorf("%w: flaky", fetch.ErrFetchTimeout)
	}

	body, ok := s.pages[pageURL]
	if !ok {
		return nil, fmt.Errorf("%w: status 404", fetch.ErrNavigation)
	}
	return fetch.NewPage(pageURL, 200, []byte(body))
}

// fetches counts retrievals of one URL.
func (s *fakeSite) fetches(pageURL string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, u := range s.log {
		if u == pageURL {
			n++
		}
	}
	return n
}

// sectionFetches counts retrievals of section pages.
func (s *fakeSite) sectionFetches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, u := range s.log {
		if strings.Contains(u, "/Section") {
			n++
		}
	}
	return n
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestWalker wires a walker over the fake site with fast retry and
// expansion settings and a snapshot in dir.
func newTestWalker(site *fakeSite, dir string) (*Walker, string) {
	extractor := extract.NewHTMLExtractor(extract.DefaultSelectors())
	expander := extract.NewExpander(site, extractor,
		extract.WithExpandTimeout(50*time.Millisecond),
		extract.WithPollInterval(time.Millisecond),
		extract.WithExpandLogger(discardLogger()))

	snapshotPath := filepath.Join(dir, "laws.json")
	snapshots := store.New(snapshotPath, store.WithLogger(discardLogger()))

	runner := retry.NewRunner(
		retry.WithMaxAttempts(2),
		retry.WithDelay(time.Millisecond),
		retry.WithLogger(discardLogger()))

	w := New(site, extractor, expander, snapshots,
		WithBaseURL(siteBase),
		WithPaceDelay(0),
		WithRetryRunner(runner),
		WithLogger(discardLogger()))

	return w, snapshotPath
}

// seedSnapshot persists a document with chapter 1 already holding the given
// sections, so a walk starts warm for that chapter.
func seedSnapshot(t *testing.T, path string, sections []model.Section) {
	t.Helper()

	doc := model.NewDocument()
	doc.Parts = append(doc.Parts, model.Part{
		ID:   "I",
		Name: "ADMINISTRATION OF THE GOVERNMENT",
		URL:  partIURL,
		Titles: []model.Title{{
			ID:   "I",
			Name: "Jurisdiction and Emblems",
			Chapters: []model.Chapter{{
				ID:       "1",
				Name:     "JURISDICTION OF THE COMMONWEALTH",
				URL:      chapter1URL,
				Sections: sections,
			}},
		}},
	})

	if err := store.New(path, store.WithLogger(discardLogger())).Persist(doc); err != nil {
		t.Fatalf("failed to seed snapshot: %v", err)
	}
}

// TestWalkerColdRun tests a first crawl against an empty snapshot.
func TestWalkerColdRun(t *testing.T) {
	t.Parallel()

	site := newFakeSite()
	w, snapshotPath := newTestWalker(site, t.TempDir())

	report, err := w.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned %v", err)
	}

	if report.PartsProcessed != 2 || report.PartsFailed != 0 {
		t.Errorf("parts = %d processed / %d failed, expected 2 / 0",
			report.PartsProcessed, report.PartsFailed)
	}
	if report.TitlesProcessed != 2 || report.TitlesDropped != 0 {
		t.Errorf("titles = %d processed / %d dropped, expected 2 / 0",
			report.TitlesProcessed, report.TitlesDropped)
	}
	if report.ChaptersProcessed != 3 || report.ChaptersSkipped != 0 || report.ChaptersFailed != 0 {
		t.Errorf("chapters = %d processed / %d skipped / %d failed, expected 3 / 0 / 0",
			report.ChaptersProcessed, report.ChaptersSkipped, report.ChaptersFailed)
	}
	if report.SectionsFetched != 4 || report.SectionsCarried != 0 || report.SectionsFailed != 0 {
		t.Errorf("sections = %d fetched / %d carried / %d failed, expected 4 / 0 / 0",
			report.SectionsFetched, report.SectionsCarried, report.SectionsFailed)
	}
	if report.TotalSections != 4 || report.CompleteSections != 4 {
		t.Errorf("snapshot totals = %d / %d complete, expected 4 / 4",
			report.TotalSections, report.CompleteSections)
	}
	if report.ParseFallbacks != 0 {
		t.Errorf("ParseFallbacks = %d, expected 0", report.ParseFallbacks)
	}
	if report.HasFailures() {
		t.Error("HasFailures = true on a clean run")
	}

	doc := store.New(snapshotPath, store.WithLogger(discardLogger())).Load()
	sec := findSection(t, doc, "I", "I", "1", "1")
	if sec.Title != "Jurisdiction of commonwealth" {
		t.Errorf("section title = %q, expected the heading without its Section prefix", sec.Title)
	}
	if sec.FullText != "The sovereignty and jurisdiction of the commonwealth." {
		t.Errorf("section text = %q", sec.FullText)
	}

	repealed := findSection(t, doc, "I", "I", "2", "16")
	if repealed.FullText != "" {
		t.Errorf("repealed section text = %q, expected empty", repealed.FullText)
	}
	if !repealed.Complete() {
		t.Error("repealed section not recognized as complete")
	}

	if part := doc.Part("II"); part == nil || part.Name != "REAL AND PERSONAL PROPERTY" {
		t.Errorf("part II = %+v, expected parsed payload", part)
	}
}

// TestWalkerWarmRunIsIdempotent tests that a re-run over a complete
// snapshot fetches no section pages and leaves the snapshot byte-identical.
func TestWalkerWarmRunIsIdempotent(t *testing.T) {
	t.Parallel()

	site := newFakeSite()
	dir := t.TempDir()
	w, snapshotPath := newTestWalker(site, dir)

	if _, err := w.Run(context.Background()); err != nil {
		t.Fatalf("cold Run returned %v", err)
	}

	coldBytes, err := os.ReadFile(snapshotPath)
	if err != nil {
		t.Fatal(err)
	}
	coldSectionFetches := site.sectionFetches()

	warm, snapshotPathAgain := newTestWalker(site, dir)
	if snapshotPathAgain != snapshotPath {
		t.Fatal("test walkers disagree on the snapshot path")
	}
	report, err := warm.Run(context.Background())
	if err != nil {
		t.Fatalf("warm Run returned %v", err)
	}

	if report.SectionsFetched != 0 {
		t.Errorf("warm run fetched %d sections, expected 0", report.SectionsFetched)
	}
	if report.ChaptersSkipped != 3 || report.ChaptersProcessed != 0 {
		t.Errorf("warm run chapters = %d skipped / %d processed, expected 3 / 0",
			report.ChaptersSkipped, report.ChaptersProcessed)
	}
	if report.SectionsCarried != 4 {
		t.Errorf("warm run carried %d sections, expected 4", report.SectionsCarried)
	}
	if got := site.sectionFetches(); got != coldSectionFetches {
		t.Errorf("warm run fetched %d extra section pages", got-coldSectionFetches)
	}

	warmBytes, err := os.ReadFile(snapshotPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(coldBytes) != string(warmBytes) {
		t.Error("warm run changed the snapshot")
	}
}

// TestWalkerFetchesOnlyIncompleteSections tests the per-section gate: a
// chapter with one incomplete section re-fetches exactly that section.
func TestWalkerFetchesOnlyIncompleteSections(t *testing.T) {
	t.Parallel()

	site := newFakeSite()
	dir := t.TempDir()
	w, snapshotPath := newTestWalker(site, dir)

	seedSnapshot(t, snapshotPath, []model.Section{
		{ID: "1", Title: "Jurisdiction of commonwealth", FullText: "persisted text", URL: section1URL},
		{ID: "2", Title: "Boundary lines", FullText: "", URL: section2URL},
	})

	_, err := w.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned %v", err)
	}

	if got := site.fetches(section1URL); got != 0 {
		t.Errorf("complete section fetched %d times, expected 0", got)
	}
	if got := site.fetches(section2URL); got != 1 {
		t.Errorf("incomplete section fetched %d times, expected 1", got)
	}

	doc := store.New(snapshotPath, store.WithLogger(discardLogger())).Load()
	carried := findSection(t, doc, "I", "I", "1", "1")
	if carried.FullText != "persisted text" {
		t.Errorf("carried section text = %q, expected the persisted value untouched", carried.FullText)
	}
	refreshed := findSection(t, doc, "I", "I", "1", "2")
	if refreshed.FullText != "The boundaries of the commonwealth." {
		t.Errorf("refreshed section text = %q", refreshed.FullText)
	}
}

// TestWalkerIsolatesFailedSubtrees tests that a part or title that cannot
// be walked costs only its own subtree.
func TestWalkerIsolatesFailedSubtrees(t *testing.T) {
	t.Parallel()

	t.Run("part page failure skips the part", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite()
		site.broken[partIURL] = true
		w, snapshotPath := newTestWalker(site, t.TempDir())

		report, err := w.Run(context.Background())
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}

		if report.PartsFailed != 1 || report.PartsProcessed != 1 {
			t.Errorf("parts = %d processed / %d failed, expected 1 / 1",
				report.PartsProcessed, report.PartsFailed)
		}
		if !report.HasFailures() {
			t.Error("HasFailures = false after a lost part")
		}

		doc := store.New(snapshotPath, store.WithLogger(discardLogger())).Load()
		if doc.Part("II") == nil {
			t.Error("part II missing: the failure was not isolated")
		}
		if sec := findSection(t, doc, "II", "II", "183", "3"); sec.FullText == "" {
			t.Error("part II section not crawled")
		}
	})

	t.Run("expansion failure drops the title subtree", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite()
		site.broken[fragmentI] = true
		w, snapshotPath := newTestWalker(site, t.TempDir())

		report, err := w.Run(context.Background())
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}

		if report.TitlesDropped != 1 || report.TitlesProcessed != 1 {
			t.Errorf("titles = %d processed / %d dropped, expected 1 / 1",
				report.TitlesProcessed, report.TitlesDropped)
		}

		doc := store.New(snapshotPath, store.WithLogger(discardLogger())).Load()
		if doc.Part("II") == nil {
			t.Error("part II missing: the dropped title was not isolated")
		}
		if part := doc.Part("I"); part != nil && part.Title("I") != nil {
			t.Error("dropped title subtree was merged anyway")
		}
	})

	t.Run("chapter listing failure leaves persisted sections untouched", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite()
		site.broken[chapter1URL] = true
		dir := t.TempDir()
		w, snapshotPath := newTestWalker(site, dir)

		seedSnapshot(t, snapshotPath, []model.Section{
			{ID: "1", Title: "Jurisdiction of commonwealth", FullText: "persisted text", URL: section1URL},
		})

		report, err := w.Run(context.Background())
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}

		if report.ChaptersFailed != 1 {
			t.Errorf("ChaptersFailed = %d, expected 1", report.ChaptersFailed)
		}

		doc := store.New(snapshotPath, store.WithLogger(discardLogger())).Load()
		sec := findSection(t, doc, "I", "I", "1", "1")
		if sec.FullText != "persisted text" {
			t.Errorf("persisted section text = %q, the failed chapter clobbered it", sec.FullText)
		}
	})
}

// TestWalkerSectionRecovery tests the placeholder and second-pass behavior
// for failing section pages.
func TestWalkerSectionRecovery(t *testing.T) {
	t.Parallel()

	t.Run("second pass recovers a section that exhausted its first cycle", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite()
		site.flaky[section2URL] = 2 // exactly one full retry cycle
		w, snapshotPath := newTestWalker(site, t.TempDir())

		report, err := w.Run(context.Background())
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}

		if report.SectionsFailed != 0 {
			t.Errorf("SectionsFailed = %d, expected the second pass to recover", report.SectionsFailed)
		}
		if report.SectionsFetched != 4 {
			t.Errorf("SectionsFetched = %d, expected 4", report.SectionsFetched)
		}
		if got := site.fetches(section2URL); got != 3 {
			t.Errorf("flaky section fetched %d times, expected 3 (two failures, one success)", got)
		}

		doc := store.New(snapshotPath, store.WithLogger(discardLogger())).Load()
		if sec := findSection(t, doc, "I", "I", "1", "2"); sec.FullText == "" {
			t.Error("recovered section still empty")
		}
	})

	t.Run("persistent failure leaves a placeholder a later run completes", func(t *testing.T) {
		t.Parallel()

		site := newFakeSite()
		site.broken[section2URL] = true
		dir := t.TempDir()
		w, snapshotPath := newTestWalker(site, dir)

		report, err := w.Run(context.Background())
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}

		if report.SectionsFailed != 1 {
			t.Errorf("SectionsFailed = %d, expected 1", report.SectionsFailed)
		}
		if report.CompleteSections != 3 || report.TotalSections != 4 {
			t.Errorf("snapshot totals = %d / %d complete, expected 4 / 3",
				report.TotalSections, report.CompleteSections)
		}

		doc := store.New(snapshotPath, store.WithLogger(discardLogger())).Load()
		placeholder := findSection(t, doc, "I", "I", "1", "2")
		if placeholder.FullText != "" || placeholder.Complete() {
			t.Errorf("placeholder = %+v, expected an incomplete empty-text entry", placeholder)
		}

		// Site recovers; the next run fills exactly the hole.
		site.mu.Lock()
		site.broken = map[string]bool{}
		site.mu.Unlock()
		before := site.sectionFetches()

		recovery, _ := newTestWalker(site, dir)
		report, err = recovery.Run(context.Background())
		if err != nil {
			t.Fatalf("recovery Run returned %v", err)
		}

		if report.SectionsFetched != 1 {
			t.Errorf("recovery run fetched %d sections, expected 1", report.SectionsFetched)
		}
		if got := site.sectionFetches() - before; got != 1 {
			t.Errorf("recovery run hit %d section pages, expected 1", got)
		}
		if report.CompleteSections != 4 {
			t.Errorf("CompleteSections = %d after recovery, expected 4", report.CompleteSections)
		}
	})
}

// TestWalkerIndexFailureAborts tests the one fetch failure that ends a run.
func TestWalkerIndexFailureAborts(t *testing.T) {
	t.Parallel()

	site := newFakeSite()
	site.broken[siteBase] = true
	w, _ := newTestWalker(site, t.TempDir())

	report, err := w.Run(context.Background())
	if err == nil {
		t.Fatal("Run succeeded with an unreachable index")
	}
	if !errors.Is(err, fetch.ErrNavigation) {
		t.Errorf("Run returned %v, expected the navigation failure", err)
	}
	if report == nil || report.PartsProcessed != 0 {
		t.Errorf("report = %+v, expected an empty aborted report", report)
	}
}

// TestWalkerPersistFailureAborts tests that a snapshot write failure is
// fatal.
func TestWalkerPersistFailureAborts(t *testing.T) {
	t.Parallel()

	site := newFakeSite()
	extractor := extract.NewHTMLExtractor(extract.DefaultSelectors())
	expander := extract.NewExpander(site, extractor,
		extract.WithExpandTimeout(50*time.Millisecond),
		extract.WithPollInterval(time.Millisecond),
		extract.WithExpandLogger(discardLogger()))
	runner := retry.NewRunner(
		retry.WithMaxAttempts(1),
		retry.WithDelay(time.Millisecond),
		retry.WithLogger(discardLogger()))

	failing := &unwritableStore{inner: store.New(
		filepath.Join(t.TempDir(), "laws.json"),
		store.WithLogger(discardLogger()))}
	w := New(site, extractor, expander, failing,
		WithBaseURL(siteBase),
		WithPaceDelay(0),
		WithRetryRunner(runner),
		WithLogger(discardLogger()))

	_, err := w.Run(context.Background())
	if !errors.Is(err, store.ErrPersistence) {
		t.Fatalf("Run returned %v, expected ErrPersistence", err)
	}
}

// unwritableStore loads and merges normally but never persists.
type unwritableStore struct {
	inner *store.SnapshotStore
}

func (s *unwritableStore) Load() *model.Document {
	return s.inner.Load()
}

func (s *unwritableStore) Merge(doc *model.Document, part model.Part, title model.Title, chapter model.Chapter) {
	s.inner.Merge(doc, part, title, chapter)
}

func (s *unwritableStore) Persist(*model.Document) error {
	return fmt.Errorf("%w: disk full", store.ErrPersistence)
}

// TestWalkerCancellation tests that cancellation stops the run with the
// context's error.
func TestWalkerCancellation(t *testing.T) {
	t.Parallel()

	site := newFakeSite()
	w, _ := newTestWalker(site, t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := w.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v, expected context.Canceled", err)
	}
	if report == nil {
		t.Error("Run returned a nil report on cancellation")
	}
}

// TestNeedsProcessing tests the chapter gate directly.
func TestNeedsProcessing(t *testing.T) {
	t.Parallel()

	refs := []extract.SectionRef{
		{ID: "1", Title: "Citation", URL: "u1"},
		{ID: "2", Title: "Definitions", URL: "u2"},
	}

	testCases := []struct {
		name      string
		persisted *model.Chapter
		refs      []extract.SectionRef
		expected  bool
	}{
		{
			name:      "absent chapter",
			persisted: nil,
			refs:      refs,
			expected:  true,
		},
		{
			name:      "nil sections collection",
			persisted: &model.Chapter{ID: "1", Sections: nil},
			refs:      refs,
			expected:  true,
		},
		{
			name: "listed section absent from snapshot",
			persisted: &model.Chapter{ID: "1", Sections: []model.Section{
				{ID: "1", Title: "Citation", FullText: "text"},
			}},
			refs:     refs,
			expected: true,
		},
		{
			name: "listed section incomplete",
			persisted: &model.Chapter{ID: "1", Sections: []model.Section{
				{ID: "1", Title: "Citation", FullText: "text"},
				{ID: "2", Title: "Definitions", FullText: ""},
			}},
			refs:     refs,
			expected: true,
		},
		{
			name: "every listed section complete",
			persisted: &model.Chapter{ID: "1", Sections: []model.Section{
				{ID: "1", Title: "Citation", FullText: "text"},
				{ID: "2", Title: "Definitions", FullText: "more text"},
			}},
			refs:     refs,
			expected: false,
		},
		{
			name: "terminal section counts as complete",
			persisted: &model.Chapter{ID: "1", Sections: []model.Section{
				{ID: "1", Title: "Citation", FullText: "text"},
				{ID: "2", Title: "Repealed, 1978, 478, Sec. 45", FullText: ""},
			}},
			refs:     refs,
			expected: false,
		},
		{
			name:      "empty refreshed listing over populated sections",
			persisted: &model.Chapter{ID: "1", Sections: []model.Section{{ID: "1", FullText: "text"}}},
			refs:      nil,
			expected:  false,
		},
		{
			name:      "empty refreshed listing over empty sections",
			persisted: &model.Chapter{ID: "1", Sections: []model.Section{}},
			refs:      nil,
			expected:  false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := needsProcessing(tc.persisted, tc.refs); got != tc.expected {
				t.Errorf("needsProcessing = %v, expected %v", got, tc.expected)
			}
		})
	}
}

// findSection fails the test when any level along the path is missing.
func findSection(t *testing.T, doc *model.Document, partID, titleID, chapterID, sectionID string) *model.Section {
	t.Helper()

	part := doc.Part(partID)
	if part == nil {
		t.Fatalf("part %s missing", partID)
	}
	title := part.Title(titleID)
	if title == nil {
		t.Fatalf("title %s missing", titleID)
	}
	chapter := title.Chapter(chapterID)
	if chapter == nil {
		t.Fatalf("chapter %s missing", chapterID)
	}
	section := chapter.Section(sectionID)
	if section == nil {
		t.Fatalf("section %s missing", sectionID)
	}
	return section
}
