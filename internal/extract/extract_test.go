package extract

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
)

func TestDetectKind(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		fileName string
		want     Kind
	}{
		{"plain text mime", "text/plain", "notes.bin", KindText},
		{"plain text mime with charset", "text/plain; charset=utf-8", "notes.bin", KindText},
		{"pdf mime", "application/pdf", "paper", KindPDF},
		{"word mime", wordMIME, "cv", KindWord},
		{"zip mime", "application/zip", "bundle", KindArchive},
		{"windows zip mime", "application/x-zip-compressed", "bundle", KindArchive},
		{"missing mime txt extension", "", "notes.txt", KindText},
		{"missing mime pdf extension", "", "paper.PDF", KindPDF},
		{"missing mime docx extension", "", "cv.docx", KindWord},
		{"missing mime zip extension", "application/octet-stream", "bundle.zip", KindArchive},
		{"mime wins over extension", "application/pdf", "misnamed.txt", KindPDF},
		{"unknown mime and extension", "image/png", "photo.png", KindUnknown},
		{"no mime no extension", "", "README", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectKind(tt.mimeType, tt.fileName)
			if got != tt.want {
				t.Errorf("DetectKind(%q, %q) = %q, want %q", tt.mimeType, tt.fileName, got, tt.want)
			}
		})
	}
}

func TestExtract_PlainText(t *testing.T) {
	res, err := Extract(SourceFile{
		Name:     "notes.txt",
		MIMEType: "text/plain",
		Data:     []byte("  hello world  \n"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "hello world" {
		t.Errorf("expected trimmed text, got %q", res.Text)
	}
	if res.PageCount != 0 {
		t.Errorf("plain text must not report a page count, got %d", res.PageCount)
	}
}

func TestExtract_UnsupportedFormat(t *testing.T) {
	_, err := Extract(SourceFile{
		Name:     "photo.png",
		MIMEType: "image/png",
		Data:     []byte{0x89, 0x50, 0x4e, 0x47},
	})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExtract_EmptyContent(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty file", ""},
		{"whitespace only", "   \n\t  \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(SourceFile{
				Name:     "blank.txt",
				MIMEType: "text/plain",
				Data:     []byte(tt.data),
			})
			if !errors.Is(err, ErrEmptyContent) {
				t.Errorf("expected ErrEmptyContent, got %v", err)
			}
		})
	}
}

func buildPDF(t *testing.T, pages []string) []byte {
	t.Helper()
	doc := fpdf.New("P", "mm", "A4", "")
	for _, text := range pages {
		doc.AddPage()
		doc.SetFont("Helvetica", "", 12)
		doc.Cell(0, 10, text)
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("build pdf: %v", err)
	}
	return buf.Bytes()
}

func TestExtractPDF_PageOrderAndWords(t *testing.T) {
	data := buildPDF(t, []string{
		"MARKERPAGE1 alpha",
		"MARKERPAGE2 beta",
		"MARKERPAGE3 gamma",
	})

	res, err := ExtractPDF(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.PageCount != 3 {
		t.Errorf("PageCount = %d, want 3", res.PageCount)
	}

	// Words must come through intact, not as per-glyph fragments.
	for _, want := range []string{"MARKERPAGE1 alpha", "MARKERPAGE2 beta", "MARKERPAGE3 gamma"} {
		if !strings.Contains(res.Text, want) {
			t.Errorf("missing %q in %q", want, res.Text)
		}
	}

	// Pages appear in document order.
	last := -1
	for _, marker := range []string{"MARKERPAGE1", "MARKERPAGE2", "MARKERPAGE3"} {
		idx := strings.Index(res.Text, marker)
		if idx <= last {
			t.Fatalf("page marker %s out of order in %q", marker, res.Text)
		}
		last = idx
	}
}

func TestExtract_PDFReportsPageCount(t *testing.T) {
	data := buildPDF(t, []string{"single page body"})

	res, err := Extract(SourceFile{Name: "doc.pdf", MIMEType: "application/pdf", Data: data})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.PageCount != 1 {
		t.Errorf("PageCount = %d, want 1", res.PageCount)
	}
	if !strings.Contains(res.Text, "single page body") {
		t.Errorf("missing body text in %q", res.Text)
	}
}

func TestExtractPDF_Malformed(t *testing.T) {
	_, err := ExtractPDF([]byte("this is definitely not a pdf"))
	if !errors.Is(err, ErrMalformedPDF) {
		t.Errorf("expected ErrMalformedPDF, got %v", err)
	}
}

func TestExtractWord_Malformed(t *testing.T) {
	_, err := ExtractWord([]byte("not a zip container at all"))
	if !errors.Is(err, ErrMalformedWord) {
		t.Errorf("expected ErrMalformedWord, got %v", err)
	}
}

func TestFlattenWordXML(t *testing.T) {
	content := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second</w:t></w:r><w:r><w:tab/><w:t>column</w:t></w:r></w:p>
  </w:body>
</w:document>`

	got, err := flattenWordXML(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(got, "First paragraph") {
		t.Errorf("missing first paragraph text in %q", got)
	}
	if !strings.Contains(got, "Second\tcolumn") {
		t.Errorf("expected tab between runs in %q", got)
	}
	if strings.Contains(got, "<w:") {
		t.Errorf("markup leaked into output: %q", got)
	}
	// Paragraph boundary becomes a newline
	if !strings.Contains(got, "First paragraph\n") {
		t.Errorf("expected newline after paragraph in %q", got)
	}
}
