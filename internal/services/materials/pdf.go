package materials

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"
)

// extractPDFText extracts all text content from an uploaded PDF using
// pdfcpu. The bytes are written to a temp file because pdfcpu's extraction
// API is file-based.
func extractPDFText(data []byte, logger arbor.ILogger) (string, error) {
	tempDir, err := os.MkdirTemp("", "studeo-pdf")
	if err != nil {
		return "", fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	tempFile := filepath.Join(tempDir, "upload.pdf")
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return "", fmt.Errorf("writing temp PDF file: %w", err)
	}

	pdfCtx, err := api.ReadContextFile(tempFile)
	if err != nil {
		return "", fmt.Errorf("reading PDF: %w", err)
	}
	pageCount := pdfCtx.PageCount

	outDir := filepath.Join(tempDir, "pages")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("creating extraction dir: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractContentFile(tempFile, outDir, nil, conf); err != nil {
		return "", fmt.Errorf("extracting PDF content: %w", err)
	}

	// pdfcpu writes one content file per page; collect them in page order
	files, err := os.ReadDir(outDir)
	if err != nil {
		return "", fmt.Errorf("reading extraction dir: %w", err)
	}
	pageTexts := make(map[int]string)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(outDir, file.Name()))
		if err != nil {
			logger.Warn().Err(err).Str("file", file.Name()).Msg("Failed to read extracted page")
			continue
		}
		var pageNum int
		if _, err := fmt.Sscanf(file.Name(), "page_%d", &pageNum); err != nil {
			if _, err := fmt.Sscanf(file.Name(), "Content_page_%d", &pageNum); err != nil {
				continue
			}
		}
		pageTexts[pageNum] = string(content)
	}

	var builder strings.Builder
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		text := strings.TrimSpace(pageTexts[pageNum])
		if text == "" {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteString("\n\n")
		}
		builder.WriteString(text)
	}

	result := builder.String()
	if result == "" {
		return "", ErrEmptyContent
	}
	return result, nil
}
