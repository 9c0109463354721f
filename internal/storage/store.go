// Package storage persists the analyzed document collection.
package storage

import (
	"errors"

	"github.com/Raufjatoi/Smart-Document-Analyzer/internal/models"
)

// ErrNotFound is returned when a document id does not exist in the store.
var ErrNotFound = errors.New("document not found")

// DocumentStore is the single source of truth for analyzed documents.
// Put replaces an existing record wholesale; there are no partial updates.
type DocumentStore interface {
	Put(doc *models.AnalyzedDocument) error
	Get(id string) (*models.AnalyzedDocument, error)
	List() ([]*models.AnalyzedDocument, error)
	Delete(id string) error
	Close() error
}
