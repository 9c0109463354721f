package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractPDF walks every page of a PDF buffer in ascending page order and
// concatenates the text, pages separated by a blank line. GetPlainText does
// the glyph-to-word grouping; raw content items are per-character and would
// shred every word.
func ExtractPDF(data []byte) (res *Result, err error) {
	// The pdf library panics on some malformed files instead of returning
	// an error.
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("%w: %v", ErrMalformedPDF, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPDF, err)
	}

	pageCount := reader.NumPage()
	pages := make([]string, 0, pageCount)

	for i := 1; i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, strings.TrimSpace(text))
	}

	return &Result{
		Text:      strings.TrimSpace(strings.Join(pages, "\n\n")),
		PageCount: pageCount,
	}, nil
}
