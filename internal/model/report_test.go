package model

import (
	"testing"
	"time"
)

// TestNewCrawlReport tests report construction.
func TestNewCrawlReport(t *testing.T) {
	t.Parallel()

	report := NewCrawlReport("https://example.test/Laws")

	if report.BaseURL != "https://example.test/Laws" {
		t.Errorf("BaseURL = %q, expected the crawl root", report.BaseURL)
	}
	if report.StartedAt.IsZero() {
		t.Error("expected StartedAt to be stamped")
	}
	if !report.FinishedAt.IsZero() {
		t.Error("expected FinishedAt to be zero before Finish")
	}
}

// TestCrawlReportFinish tests that Finish stamps the end time and copies the
// document totals.
func TestCrawlReportFinish(t *testing.T) {
	t.Parallel()

	doc := Document{
		Parts: []Part{
			{
				ID: "I",
				Titles: []Title{
					{
						ID: "I",
						Chapters: []Chapter{
							{ID: "1", Sections: []Section{
								{ID: "1", FullText: "text"},
								{ID: "2"},
							}},
						},
					},
				},
			},
		},
	}

	report := NewCrawlReport("https://example.test")
	report.Finish(&doc)

	if report.FinishedAt.IsZero() {
		t.Error("expected FinishedAt to be stamped")
	}
	if report.TotalSections != 2 {
		t.Errorf("TotalSections = %d, expected 2", report.TotalSections)
	}
	if report.CompleteSections != 1 {
		t.Errorf("CompleteSections = %d, expected 1", report.CompleteSections)
	}
}

// TestCrawlReportDuration tests duration for finished and in-flight runs.
func TestCrawlReportDuration(t *testing.T) {
	t.Parallel()

	t.Run("finished run", func(t *testing.T) {
		t.Parallel()

		report := CrawlReport{
			StartedAt:  time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
			FinishedAt: time.Date(2026, 1, 1, 10, 5, 30, 0, time.UTC),
		}
		if got := report.Duration(); got != 5*time.Minute+30*time.Second {
			t.Errorf("Duration() = %v, expected 5m30s", got)
		}
	})

	t.Run("in-flight run", func(t *testing.T) {
		t.Parallel()

		report := CrawlReport{StartedAt: time.Now().Add(-time.Second)}
		if got := report.Duration(); got < time.Second {
			t.Errorf("Duration() = %v, expected at least 1s elapsed", got)
		}
	})
}

// TestCrawlReportCompletionRate tests the completion fraction.
func TestCrawlReportCompletionRate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		total    int
		complete int
		expected float64
	}{
		{"empty snapshot", 0, 0, 0},
		{"half complete", 10, 5, 0.5},
		{"fully complete", 4, 4, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			report := CrawlReport{TotalSections: tc.total, CompleteSections: tc.complete}
			if got := report.CompletionRate(); got != tc.expected {
				t.Errorf("CompletionRate() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

// TestCrawlReportHasFailures tests failure detection across counters.
func TestCrawlReportHasFailures(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		report   CrawlReport
		expected bool
	}{
		{"clean run", CrawlReport{PartsProcessed: 5, ChaptersSkipped: 3}, false},
		{"failed part", CrawlReport{PartsFailed: 1}, true},
		{"dropped title", CrawlReport{TitlesDropped: 1}, true},
		{"failed chapter", CrawlReport{ChaptersFailed: 2}, true},
		{"placeholder sections", CrawlReport{SectionsFailed: 4}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.report.HasFailures(); got != tc.expected {
				t.Errorf("HasFailures() = %v, expected %v", got, tc.expected)
			}
		})
	}
}
