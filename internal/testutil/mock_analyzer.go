// mock_analyzer.go - Canned analysis.Analyzer implementation for testing
package testutil

import (
	"context"
	"sync"

	"github.com/Raufjatoi/Smart-Document-Analyzer/internal/models"
)

// MockAnalyzer implements analysis.Analyzer, returning a canned result or a
// configured error.
type MockAnalyzer struct {
	mu sync.Mutex

	Result *models.Analysis
	Err    error

	// Texts records the inputs passed to Analyze, in call order
	Texts []string
}

// NewMockAnalyzer returns an analyzer with a plausible canned reply
func NewMockAnalyzer() *MockAnalyzer {
	return &MockAnalyzer{
		Result: &models.Analysis{
			Classification: models.ClassResume,
			Summary:        "A short test summary.",
			Tags:           []string{"test", "fixture", "resume"},
			Sentiment:      "neutral",
		},
	}
}

func (m *MockAnalyzer) Analyze(_ context.Context, text string) (*models.Analysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Texts = append(m.Texts, text)
	if m.Err != nil {
		return nil, m.Err
	}
	copied := *m.Result
	return &copied, nil
}
