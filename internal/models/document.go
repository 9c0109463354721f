package models

import "time"

// Classification labels assigned by the analysis service.
const (
	ClassResume        = "Resume"
	ClassInvoice       = "Invoice"
	ClassLegal         = "Legal Agreement"
	ClassResearchPaper = "Research Paper"
	ClassOthers        = "Others"
)

// Metrics holds the statistics computed for a document's extracted text.
type Metrics struct {
	WordCount   int    `json:"wordCount"`
	PageCount   int    `json:"pageCount,omitempty"` // present only for PDF sources
	ReadingTime int    `json:"readingTime"`         // minutes
	Sentiment   string `json:"sentiment"`           // "positive", "neutral", "negative"
}

// ChartSuggestion is an opaque chart hint returned by the analysis service.
// The backend stores and serves it verbatim; only the frontend interprets it.
type ChartSuggestion struct {
	Type   string    `json:"type"`
	Title  string    `json:"title,omitempty"`
	Labels []string  `json:"labels,omitempty"`
	Values []float64 `json:"values,omitempty"`
}

// AnalyzedDocument is the persisted unit: one uploaded source combined with
// its extracted text, metrics and analysis results. The document collection
// is the single source of truth for the UI; extraction and analysis never
// retain copies.
type AnalyzedDocument struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Type     string            `json:"type"` // classification label
	Tags     []string          `json:"tags"`
	Summary  string            `json:"summary"`
	FullText string            `json:"fullText"`
	Date     time.Time         `json:"date"`
	Metrics  Metrics           `json:"metrics"`
	Insights string            `json:"insights,omitempty"`
	Graphs   []ChartSuggestion `json:"graphs,omitempty"`
}

// Analysis is the structured reply of the analysis service for one document.
type Analysis struct {
	Classification string            `json:"classification"`
	Summary        string            `json:"summary"`
	Tags           []string          `json:"tags"`
	Sentiment      string            `json:"sentiment"`
	Insights       string            `json:"insights,omitempty"`
	Graphs         []ChartSuggestion `json:"graphs,omitempty"`
}
