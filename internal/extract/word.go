package extract

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// ExtractWord reads a .docx buffer and returns its text. The docx library
// hands back the raw WordprocessingML of word/document.xml, so the markup is
// flattened here: w:t runs carry the text, paragraphs become newlines, tabs
// and line breaks are kept.
func ExtractWord(data []byte) (*Result, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedWord, err)
	}
	defer doc.Close()

	text, err := flattenWordXML(doc.Editable().GetContent())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedWord, err)
	}

	return &Result{Text: text}, nil
}

// flattenWordXML strips WordprocessingML markup, keeping only text runs and
// structural whitespace.
func flattenWordXML(content string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))
	dec.Strict = false

	var sb strings.Builder
	inText := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return strings.TrimSpace(sb.String()), nil
}
