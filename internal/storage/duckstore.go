package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/marcboeker/go-duckdb"

	"github.com/Raufjatoi/Smart-Document-Analyzer/internal/models"
)

// DuckStore persists documents in a DuckDB file. All mutations go through a
// single writer lock; a replace is delete+insert inside one transaction, so
// readers never observe a half-written record.
type DuckStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// DuckConfig tunes the embedded database.
type DuckConfig struct {
	Path        string
	Threads     int
	MemoryLimit string
}

// NewDuckStore opens (or creates) the document database at cfg.Path.
func NewDuckStore(cfg DuckConfig) (*DuckStore, error) {
	if cfg.Threads <= 0 {
		cfg.Threads = 2
	}
	if cfg.MemoryLimit == "" {
		cfg.MemoryLimit = "512MB"
	}

	connector, err := duckdb.NewConnector(cfg.Path, func(execer driver.ExecerContext) error {
		pragmas := []string{
			fmt.Sprintf("PRAGMA memory_limit='%s'", cfg.MemoryLimit),
			fmt.Sprintf("PRAGMA threads=%d", cfg.Threads),
			"PRAGMA enable_progress_bar=false",
		}
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			id           VARCHAR PRIMARY KEY,
			name         VARCHAR NOT NULL,
			doc_type     VARCHAR NOT NULL,
			tags         VARCHAR NOT NULL,
			summary      VARCHAR NOT NULL,
			full_text    VARCHAR NOT NULL,
			created_at   BIGINT NOT NULL,
			word_count   INTEGER NOT NULL,
			page_count   INTEGER NOT NULL,
			reading_time INTEGER NOT NULL,
			sentiment    VARCHAR NOT NULL,
			insights     VARCHAR,
			graphs       VARCHAR
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create documents table: %w", err)
	}

	return &DuckStore{db: db}, nil
}

// Put inserts a document, replacing an existing record with the same id.
func (s *DuckStore) Put(doc *models.AnalyzedDocument) error {
	tags, err := json.Marshal(doc.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}
	graphs, err := json.Marshal(doc.Graphs)
	if err != nil {
		return fmt.Errorf("failed to encode graphs: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM documents WHERE id = ?`, doc.ID); err != nil {
		return fmt.Errorf("failed to replace document: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO documents
			(id, name, doc_type, tags, summary, full_text, created_at,
			 word_count, page_count, reading_time, sentiment, insights, graphs)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Name, doc.Type, string(tags), doc.Summary, doc.FullText,
		doc.Date.UnixMilli(), doc.Metrics.WordCount, doc.Metrics.PageCount,
		doc.Metrics.ReadingTime, doc.Metrics.Sentiment, doc.Insights, string(graphs),
	)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	return tx.Commit()
}

// Get returns one document by id.
func (s *DuckStore) Get(id string) (*models.AnalyzedDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(selectColumns+` FROM documents WHERE id = ?`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return doc, err
}

// List returns all documents, newest first.
func (s *DuckStore) List() ([]*models.AnalyzedDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(selectColumns + ` FROM documents ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []*models.AnalyzedDocument
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Delete removes a document by id.
func (s *DuckStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the underlying database.
func (s *DuckStore) Close() error {
	return s.db.Close()
}

const selectColumns = `
	SELECT id, name, doc_type, tags, summary, full_text, created_at,
	       word_count, page_count, reading_time, sentiment, insights, graphs`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*models.AnalyzedDocument, error) {
	var (
		doc       models.AnalyzedDocument
		tags      string
		graphs    sql.NullString
		insights  sql.NullString
		createdAt int64
	)

	err := row.Scan(&doc.ID, &doc.Name, &doc.Type, &tags, &doc.Summary,
		&doc.FullText, &createdAt, &doc.Metrics.WordCount, &doc.Metrics.PageCount,
		&doc.Metrics.ReadingTime, &doc.Metrics.Sentiment, &insights, &graphs)
	if err != nil {
		return nil, err
	}

	doc.Date = time.UnixMilli(createdAt)
	doc.Insights = insights.String

	if err := json.Unmarshal([]byte(tags), &doc.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags for %s: %w", doc.ID, err)
	}
	if graphs.Valid && graphs.String != "" {
		if err := json.Unmarshal([]byte(graphs.String), &doc.Graphs); err != nil {
			return nil, fmt.Errorf("failed to decode graphs for %s: %w", doc.ID, err)
		}
	}

	return &doc, nil
}
