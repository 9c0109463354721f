package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"
)

// ExtractArchive reads a zip buffer and concatenates the text of every
// supported entry (.txt, .pdf, .docx) in archive enumeration order. Directory
// markers and unsupported extensions are skipped silently. A failing entry is
// annotated inline and never aborts the rest of the archive.
//
// Archives deliberately return no page count, even when an entry was a PDF.
// Nested archives are not descended into; a .zip entry is skipped like any
// other unsupported extension.
func ExtractArchive(data []byte) (*Result, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	var sb strings.Builder
	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() {
			continue
		}

		ext := strings.ToLower(path.Ext(entry.Name))
		if ext != ".txt" && ext != ".pdf" && ext != ".docx" {
			continue
		}

		text, err := extractEntry(entry, ext)
		if err != nil {
			sb.WriteString(fmt.Sprintf("\n\n--- %s ---\n[Error processing file]", entry.Name))
			continue
		}
		sb.WriteString(fmt.Sprintf("\n\n--- %s ---\n%s", entry.Name, text))
	}

	combined := strings.TrimSpace(sb.String())
	if combined == "" {
		return nil, ErrNoSupportedEntries
	}

	return &Result{Text: combined}, nil
}

func extractEntry(entry *zip.File, ext string) (string, error) {
	rc, err := entry.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	switch ext {
	case ".txt":
		return string(data), nil
	case ".pdf":
		res, err := ExtractPDF(data)
		if err != nil {
			return "", err
		}
		return res.Text, nil
	case ".docx":
		res, err := ExtractWord(data)
		if err != nil {
			return "", err
		}
		return res.Text, nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, entry.Name)
}
