// Package export renders stored summaries and flashcards into printable
// PDF study sheets.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/studeo/internal/common"
	"github.com/ternarybob/studeo/internal/interfaces"
	"github.com/ternarybob/studeo/internal/models"
)

// Service writes study sheet PDFs to the configured export directory
type Service struct {
	materials  interfaces.MaterialStorage
	summaries  interfaces.SummaryStorage
	flashcards interfaces.FlashcardStorage
	config     common.ExportConfig
	logger     arbor.ILogger
}

// NewService creates an export service
func NewService(materials interfaces.MaterialStorage, summaries interfaces.SummaryStorage, flashcards interfaces.FlashcardStorage, config common.ExportConfig, logger arbor.ILogger) *Service {
	return &Service{
		materials:  materials,
		summaries:  summaries,
		flashcards: flashcards,
		config:     config,
		logger:     logger,
	}
}

// ExportStudySheet renders the material's most recent summary (and
// optionally its flashcards) to a PDF and returns the file path
func (s *Service) ExportStudySheet(ctx context.Context, materialID string, includeFlashcards bool) (string, error) {
	material, err := s.materials.GetMaterial(ctx, materialID)
	if err != nil {
		return "", fmt.Errorf("loading material %s: %w", materialID, err)
	}

	summaries, err := s.summaries.GetSummariesByMaterial(ctx, materialID)
	if err != nil {
		return "", fmt.Errorf("loading summaries: %w", err)
	}
	if len(summaries) == 0 {
		return "", fmt.Errorf("material %s has no stored summary to export", materialID)
	}
	latest := summaries[0]
	for _, candidate := range summaries[1:] {
		if candidate.CreatedAt.After(latest.CreatedAt) {
			latest = candidate
		}
	}

	var cards []*models.Flashcard
	if includeFlashcards {
		cards, err = s.flashcards.GetFlashcardsByMaterial(ctx, materialID)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Failed to load flashcards for export")
		}
	}

	if err := os.MkdirAll(s.config.Dir, 0755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(s.config.Dir, fmt.Sprintf("study-sheet-%s-%d.pdf", material.ID, time.Now().Unix()))

	if err := renderStudySheet(path, material, latest, cards); err != nil {
		return "", fmt.Errorf("rendering study sheet: %w", err)
	}

	s.logger.Info().Str("material_id", materialID).Str("path", path).Msg("Exported study sheet")
	return path, nil
}

func renderStudySheet(path string, material *models.Material, summary *models.StoredSummary, cards []*models.Flashcard) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.MultiCell(0, 8, material.Title, "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Arial", "I", 9)
	pdf.MultiCell(0, 5, fmt.Sprintf("Source: %s | Generated %s", material.SourceRef, summary.CreatedAt.Format("2 Jan 2006")), "", "L", false)
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 7, "Key Points", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, point := range summary.Points {
		pdf.MultiCell(0, 6, "- "+point, "", "L", false)
	}

	if len(summary.Topics.KeyTopics) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 7, "Topics", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		for _, topic := range summary.Topics.KeyTopics {
			pdf.MultiCell(0, 6, "- "+topic, "", "L", false)
		}
	}

	if len(cards) > 0 {
		pdf.AddPage()
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 7, "Flashcards", "", 1, "L", false, 0, "")
		for i, card := range cards {
			pdf.SetFont("Arial", "B", 10)
			pdf.MultiCell(0, 6, fmt.Sprintf("%d. %s", i+1, card.Front), "", "L", false)
			pdf.SetFont("Arial", "", 10)
			pdf.MultiCell(0, 6, "   "+card.Back, "", "L", false)
			pdf.Ln(2)
		}
	}

	return pdf.OutputFileAndClose(path)
}
