package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/azurestocking/ma-law-scraper/internal/model"
)

// SnapshotStore keeps the law document as a single JSON file and supports
// the load-merge-persist cycle the walker runs after every chapter.
//
// Design decision: the snapshot is one file, rewritten whole, rather than
// a per-chapter tree or a database:
// 1. The complete corpus is a few tens of megabytes; rewriting it after
//    each chapter is cheap next to the network time spent earning it.
// 2. One file means one artifact to back up, diff, and hand to consumers.
// 3. A temp-file-and-rename write keeps the previous snapshot intact if
//    the process dies mid-write, which is exactly the crash window an
//    incremental crawler exists to survive.
type SnapshotStore struct {
	// path is the snapshot file location.
	path string

	// logger reports load degradation.
	logger *slog.Logger
}

// Option configures a SnapshotStore.
type Option func(*SnapshotStore)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *SnapshotStore) {
		s.logger = logger
	}
}

// New creates a SnapshotStore over the given file path.
func New(path string, opts ...Option) *SnapshotStore {
	s := &SnapshotStore{
		path:   path,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Path returns the snapshot file location.
func (s *SnapshotStore) Path() string {
	return s.path
}

// Load reads the persisted snapshot. A missing, unreadable, or corrupt
// file degrades to an empty document: prior progress accelerates a crawl
// but is never required for one, so load problems are logged and absorbed
// rather than surfaced.
func (s *SnapshotStore) Load() *model.Document {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Info("no snapshot yet, starting fresh", "path", s.path)
		} else {
			s.logger.Warn("failed to read snapshot, starting fresh",
				"path", s.path,
				"error", err)
		}
		return model.NewDocument()
	}

	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("failed to parse snapshot, starting fresh",
			"path", s.path,
			"error", err)
		return model.NewDocument()
	}

	if doc.Parts == nil {
		doc.Parts = []model.Part{}
	}
	return &doc
}

// Merge folds one freshly crawled chapter into the document. Each level is
// located by its key and created in discovery order when absent. Payload
// fields (names, URLs) on existing nodes are refreshed from the fresh
// crawl, and an existing chapter's section list is replaced outright: the
// fresh list already carries forward every persisted section worth
// keeping, so whatever the snapshot held for that chapter is stale.
//
// Only the payload fields of the part and title arguments are read; their
// child collections are ignored.
func (s *SnapshotStore) Merge(doc *model.Document, part model.Part, title model.Title, chapter model.Chapter) {
	p := doc.Part(part.ID)
	if p == nil {
		doc.Parts = append(doc.Parts, model.Part{
			ID:     part.ID,
			Titles: []model.Title{},
		})
		p = &doc.Parts[len(doc.Parts)-1]
	}
	p.Name = part.Name
	p.URL = part.URL

	t := p.Title(title.ID)
	if t == nil {
		p.Titles = append(p.Titles, model.Title{
			ID:       title.ID,
			Chapters: []model.Chapter{},
		})
		t = &p.Titles[len(p.Titles)-1]
	}
	t.Name = title.Name

	c := t.Chapter(chapter.ID)
	if c == nil {
		t.Chapters = append(t.Chapters, model.Chapter{ID: chapter.ID})
		c = &t.Chapters[len(t.Chapters)-1]
	}
	c.Name = chapter.Name
	c.URL = chapter.URL
	c.Sections = chapter.Sections
}

// Persist writes the whole document to the snapshot path atomically: a
// temp file in the same directory, then a rename over the target. Every
// failure wraps ErrPersistence.
func (s *SnapshotStore) Persist(doc *model.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to encode document: %v", ErrPersistence, err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("%w: failed to create snapshot directory: %v", ErrPersistence, err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("%w: failed to write temp snapshot: %v", ErrPersistence, err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		// Leave no stray temp file behind on a failed swap.
		os.Remove(tmp)
		return fmt.Errorf("%w: failed to replace snapshot: %v", ErrPersistence, err)
	}

	return nil
}
