package services

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"jarvis-rag-backend/internal/logger"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
)

// SupportedExtensions lists the upload types the ingest endpoints accept.
var SupportedExtensions = []string{".pdf", ".txt", ".md", ".xlsx"}

// ExtractText pulls plain text out of an uploaded file based on its
// extension. The result feeds straight into IngestionService.Ingest, so
// loaders only need to produce raw text; normalization happens during
// chunking.
func ExtractText(filename string, content []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return extractPDF(content)
	case ".txt", ".md":
		return extractPlain(content)
	case ".xlsx":
		return extractXLSX(content)
	default:
		return "", fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}
}

func extractPDF(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var builder strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		fonts := make(map[string]*pdf.Font)
		text, err := page.GetPlainText(fonts)
		if err != nil {
			logger.Warn("Failed to extract PDF page, skipping", "page", i, "error", err)
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	extracted := builder.String()
	if strings.TrimSpace(extracted) == "" {
		return "", fmt.Errorf("no text extracted from PDF (%d pages)", pages)
	}
	return extracted, nil
}

func extractPlain(content []byte) (string, error) {
	if !utf8.Valid(content) {
		return "", fmt.Errorf("file is not valid UTF-8 text")
	}
	return string(content), nil
}

// extractXLSX flattens every sheet row-by-row, cells joined with tabs,
// so sheet structure survives loosely enough for retrieval to work.
func extractXLSX(content []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	var builder strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			logger.Warn("Failed to read sheet, skipping", "sheet", sheet, "error", err)
			continue
		}
		for _, row := range rows {
			line := strings.TrimSpace(strings.Join(row, "\t"))
			if line == "" {
				continue
			}
			builder.WriteString(line)
			builder.WriteString("\n")
		}
	}

	extracted := builder.String()
	if strings.TrimSpace(extracted) == "" {
		return "", fmt.Errorf("no text extracted from spreadsheet")
	}
	return extracted, nil
}
