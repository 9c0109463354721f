package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Raufjatoi/Smart-Document-Analyzer/internal/models"
)

func newTestStore(t *testing.T) *DuckStore {
	t.Helper()
	store, err := NewDuckStore(DuckConfig{
		Path: filepath.Join(t.TempDir(), "documents.duckdb"),
	})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testDoc(id string, age time.Duration) *models.AnalyzedDocument {
	return &models.AnalyzedDocument{
		ID:       id,
		Name:     "cv.txt",
		Type:     models.ClassResume,
		Tags:     []string{"resume", "engineering"},
		Summary:  "A resume.",
		FullText: "years of experience",
		Date:     time.Now().Add(-age).Truncate(time.Millisecond),
		Metrics:  models.Metrics{WordCount: 3, ReadingTime: 1, Sentiment: "neutral"},
		Insights: "Concise.",
		Graphs: []models.ChartSuggestion{
			{Type: "bar", Title: "Skills", Labels: []string{"Go", "SQL"}, Values: []float64{8, 6}},
		},
	}
}

func TestDuckStore_PutGet(t *testing.T) {
	store := newTestStore(t)

	want := testDoc("doc-1", 0)
	if err := store.Put(want); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Get("doc-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got.Name != want.Name || got.Type != want.Type || got.Summary != want.Summary {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if got.FullText != want.FullText {
		t.Errorf("FullText = %q", got.FullText)
	}
	if !got.Date.Equal(want.Date) {
		t.Errorf("Date = %v, want %v", got.Date, want.Date)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "resume" {
		t.Errorf("Tags = %v", got.Tags)
	}
	if len(got.Graphs) != 1 || got.Graphs[0].Type != "bar" || len(got.Graphs[0].Values) != 2 {
		t.Errorf("Graphs = %+v", got.Graphs)
	}
	if got.Metrics != want.Metrics {
		t.Errorf("Metrics = %+v, want %+v", got.Metrics, want.Metrics)
	}
}

func TestDuckStore_PutReplaces(t *testing.T) {
	store := newTestStore(t)

	doc := testDoc("doc-1", 0)
	if err := store.Put(doc); err != nil {
		t.Fatalf("put: %v", err)
	}

	doc.Type = models.ClassOthers
	doc.Summary = "Reclassified."
	if err := store.Put(doc); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := store.Get("doc-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Type != models.ClassOthers || got.Summary != "Reclassified." {
		t.Errorf("replace not applied: %+v", got)
	}

	docs, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 1 {
		t.Errorf("replace duplicated the record, %d rows", len(docs))
	}
}

func TestDuckStore_GetMissing(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDuckStore_ListNewestFirst(t *testing.T) {
	store := newTestStore(t)

	for i, age := range []time.Duration{2 * time.Hour, time.Hour, 0} {
		doc := testDoc(string(rune('a'+i)), age)
		if err := store.Put(doc); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	docs, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("len = %d, want 3", len(docs))
	}
	for i := 1; i < len(docs); i++ {
		if docs[i].Date.After(docs[i-1].Date) {
			t.Errorf("documents out of order at %d", i)
		}
	}
}

func TestDuckStore_Delete(t *testing.T) {
	store := newTestStore(t)

	if err := store.Put(testDoc("doc-1", 0)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Delete("doc-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get("doc-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("document still present after delete")
	}
	if err := store.Delete("doc-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestDuckStore_NilTagsAndGraphs(t *testing.T) {
	store := newTestStore(t)

	doc := testDoc("doc-1", 0)
	doc.Tags = nil
	doc.Graphs = nil
	doc.Insights = ""
	if err := store.Put(doc); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Get("doc-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Tags) != 0 || len(got.Graphs) != 0 || got.Insights != "" {
		t.Errorf("expected empty optional fields, got %+v", got)
	}
}
