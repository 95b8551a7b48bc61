package pipeline

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/unidoc/unipdf/v3/extractor"
	pdf "github.com/unidoc/unipdf/v3/model"
)

// extractPDFText pulls the text layer out of a PDF. Pages that fail to
// parse are skipped; the error return means no page yielded any text at
// all, which is what scanned-image PDFs look like.
func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("read PDF: %w", err)
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return "", fmt.Errorf("read PDF page count: %w", err)
	}
	if numPages == 0 {
		return "", fmt.Errorf("PDF has no pages")
	}

	var b strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := reader.GetPage(i)
		if err != nil {
			continue
		}
		ex, err := extractor.New(page)
		if err != nil {
			continue
		}
		pageText, err := ex.ExtractText()
		if err != nil || pageText == "" {
			continue
		}
		b.WriteString(pageText)
		b.WriteString("\n\n")
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("no text could be extracted from any page")
	}
	return text, nil
}
