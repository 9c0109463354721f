// mock_store.go - In-memory DocumentStore implementation for testing
package testutil

import (
	"sort"
	"sync"

	"github.com/Raufjatoi/Smart-Document-Analyzer/internal/models"
	"github.com/Raufjatoi/Smart-Document-Analyzer/internal/storage"
)

// MockStore implements storage.DocumentStore for testing
type MockStore struct {
	mu   sync.RWMutex
	docs map[string]*models.AnalyzedDocument

	// PutErr, when set, is returned by Put to simulate persistence failures
	PutErr error
}

// NewMockStore creates an empty in-memory document store
func NewMockStore() *MockStore {
	return &MockStore{docs: make(map[string]*models.AnalyzedDocument)}
}

func (m *MockStore) Put(doc *models.AnalyzedDocument) error {
	if m.PutErr != nil {
		return m.PutErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *doc
	m.docs[doc.ID] = &copied
	return nil
}

func (m *MockStore) Get(id string) (*models.AnalyzedDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *doc
	return &copied, nil
}

func (m *MockStore) List() ([]*models.AnalyzedDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var docs []*models.AnalyzedDocument
	for _, doc := range m.docs {
		copied := *doc
		docs = append(docs, &copied)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Date.After(docs[j].Date)
	})
	return docs, nil
}

func (m *MockStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

func (m *MockStore) Close() error { return nil }

// Count returns the number of stored documents
func (m *MockStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}
