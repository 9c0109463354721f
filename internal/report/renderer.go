// Package report renders analyzed documents into downloadable PDF reports.
package report

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/Raufjatoi/Smart-Document-Analyzer/internal/models"
)

// MaxTextChars caps how much of the extracted text is included in a report.
const MaxTextChars = 10000

const truncationNotice = "[Text truncated for report. Open the document in the app for the full content.]"

// Filename derives a report file name from the document name and date, e.g.
// "contract_analysis_2026-08-29.pdf".
func Filename(doc *models.AnalyzedDocument, now time.Time) string {
	base := strings.TrimSuffix(doc.Name, filepath.Ext(doc.Name))
	if base == "" {
		base = "document"
	}
	return fmt.Sprintf("%s_analysis_%s.pdf", base, now.Format("2006-01-02"))
}

// Render produces the paginated PDF report for one document.
func Render(doc *models.AnalyzedDocument) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252 only; the translator maps UTF-8 input onto it.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 9, tr(doc.Name), "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(90, 90, 90)
	meta := []string{
		fmt.Sprintf("Type: %s", doc.Type),
		fmt.Sprintf("Analyzed: %s", doc.Date.Format("2006-01-02 15:04")),
		fmt.Sprintf("Words: %d", doc.Metrics.WordCount),
		fmt.Sprintf("Reading time: %d min", doc.Metrics.ReadingTime),
		fmt.Sprintf("Sentiment: %s", doc.Metrics.Sentiment),
	}
	if doc.Metrics.PageCount > 0 {
		meta = append(meta, fmt.Sprintf("Pages: %d", doc.Metrics.PageCount))
	}
	pdf.MultiCell(0, 5, strings.Join(meta, "  |  "), "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(2)

	if len(doc.Tags) > 0 {
		writeSection(pdf, tr, "Tags", strings.Join(doc.Tags, ", "))
	}
	writeSection(pdf, tr, "Summary", doc.Summary)
	if doc.Insights != "" {
		writeSection(pdf, tr, "Insights", doc.Insights)
	}

	text := doc.FullText
	if len(text) > MaxTextChars {
		text = text[:MaxTextChars] + "\n\n" + truncationNotice
	}
	writeSection(pdf, tr, "Extracted Text", text)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSection(pdf *fpdf.Fpdf, tr func(string) string, title, body string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, tr(body), "", "L", false)
	pdf.Ln(3)
}
