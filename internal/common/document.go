package common

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"resumepanel/internal/errors"
	"resumepanel/internal/utils"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

var (
	xmlTagPattern     = regexp.MustCompile(`<[^>]+>`)
	inlineSpace       = regexp.MustCompile(`[ \t\r\f\v]+`)
	repeatedNewlines  = regexp.MustCompile(`\n\s*\n+`)
	docxParagraphEnds = strings.NewReplacer("</w:p>", "\n", "<w:tab/>", "\t", "<w:br/>", "\n")
)

// ExtractDocumentText returns the plain text of a resume document. The
// format is chosen by extension: .pdf, .docx, or any text extension.
func ExtractDocumentText(filename string, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch ext := utils.GetFileExtension(filename); {
	case ext == ".pdf":
		text, err = extractPDFText(data)
	case ext == ".docx":
		text, err = extractDocxText(data)
	case utils.IsTextFile(filename):
		text = string(data)
	default:
		return "", errors.NewValidationError(errors.ErrCodeUnsupportedFormat,
			fmt.Sprintf("unsupported resume file type %q (use .json, .txt, .md, .pdf or .docx)", ext), nil)
	}
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeDocumentExtraction,
			fmt.Sprintf("Failed to extract text from %s", filename), err)
	}
	return normalizeWhitespace(text), nil
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read pdf page %d: %w", i, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// extractDocxText reads word/document.xml through the docx package and
// strips the markup, keeping paragraph breaks.
func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	content := docxParagraphEnds.Replace(doc.Editable().GetContent())
	return html.UnescapeString(xmlTagPattern.ReplaceAllString(content, "")), nil
}

func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = inlineSpace.ReplaceAllString(s, " ")
	s = repeatedNewlines.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
