// Package extract converts uploaded document buffers into plain text.
package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Extraction failures surfaced to the upload/reprocess pipeline. Handlers map
// these onto HTTP status codes; none of them are fatal to the server.
var (
	ErrUnsupportedFormat  = errors.New("unsupported file format")
	ErrEmptyContent       = errors.New("no readable text content in file")
	ErrMalformedPDF       = errors.New("could not read PDF file")
	ErrMalformedWord      = errors.New("could not read Word document")
	ErrNoSupportedEntries = errors.New("archive contains no supported files")
)

// Kind is the canonical format tag of an uploaded source, resolved once from
// the declared media type and the file name before any extractor runs.
type Kind string

const (
	KindText    Kind = "text"
	KindPDF     Kind = "pdf"
	KindWord    Kind = "word"
	KindArchive Kind = "archive"
	KindUnknown Kind = "unknown"
)

const wordMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// SourceFile is one uploaded file: an immutable byte buffer plus its declared
// media type and display name. It is consumed once by Extract and not
// retained afterwards.
type SourceFile struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Result is the output of a successful extraction. Text is always non-empty.
// PageCount is zero unless the source itself was a PDF; archives never report
// one, even when an entry was a PDF.
type Result struct {
	Text      string
	PageCount int
}

// DetectKind resolves the declared media type and file name into one canonical
// Kind. The media type wins when it is recognized; the extension is the
// fallback because browsers frequently send zips and docx files with a missing
// or generic media type.
func DetectKind(mimeType, name string) Kind {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}

	switch mt {
	case "text/plain":
		return KindText
	case "application/pdf":
		return KindPDF
	case wordMIME:
		return KindWord
	case "application/zip", "application/x-zip-compressed":
		return KindArchive
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		return KindText
	case ".pdf":
		return KindPDF
	case ".docx":
		return KindWord
	case ".zip":
		return KindArchive
	}

	return KindUnknown
}

// Extract routes a source file to the matching extractor and returns its
// plain text. The declared media type and extension are normalized to a
// single Kind first, so no extractor does its own type sniffing.
func Extract(src SourceFile) (*Result, error) {
	var (
		res *Result
		err error
	)

	switch DetectKind(src.MIMEType, src.Name) {
	case KindText:
		res = &Result{Text: string(src.Data)}
	case KindPDF:
		res, err = ExtractPDF(src.Data)
	case KindWord:
		res, err = ExtractWord(src.Data)
	case KindArchive:
		res, err = ExtractArchive(src.Data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, src.Name)
	}
	if err != nil {
		return nil, err
	}

	res.Text = strings.TrimSpace(res.Text)
	if res.Text == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyContent, src.Name)
	}

	return res, nil
}
