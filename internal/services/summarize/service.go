// Package summarize implements the summarization-validation pipeline:
// topic extraction, topic-guided generation, per-point support validation,
// and the filter-or-regenerate decision.
package summarize

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/studeo/internal/common"
	"github.com/ternarybob/studeo/internal/interfaces"
	"github.com/ternarybob/studeo/internal/llm"
	"github.com/ternarybob/studeo/internal/models"
	"github.com/ternarybob/studeo/internal/services/prompts"
)

const (
	defaultMaxPoints = 5

	// tooShortMessage is returned without any backend call when the input
	// is below the minimum content length
	tooShortMessage = "This material is too short to summarize. Please provide at least a paragraph of content."

	// timeoutFallbackPoint is the fixed apologetic bullet used when
	// generation times out even after the shortened retry
	timeoutFallbackPoint = "Sorry, the summary could not be generated in time. Try again with shorter material."
)

// Service runs the pipeline against a completion backend
type Service struct {
	completion interfaces.CompletionService
	materials  interfaces.MaterialStorage
	summaries  interfaces.SummaryStorage
	config     common.SummarizeConfig
	logger     arbor.ILogger
}

// NewService creates a summarization service
func NewService(completion interfaces.CompletionService, materials interfaces.MaterialStorage, summaries interfaces.SummaryStorage, config common.SummarizeConfig, logger arbor.ILogger) *Service {
	return &Service{
		completion: completion,
		materials:  materials,
		summaries:  summaries,
		config:     config,
		logger:     logger,
	}
}

// Summarize runs the full pipeline over raw content. It never returns an
// error: backend faults degrade to fallback content, and the only
// caller-visible failure is an empty point list.
func (s *Service) Summarize(ctx context.Context, content string, opts interfaces.SummarizeOptions) *models.SummaryResult {
	maxPoints := opts.MaxPoints
	if maxPoints <= 0 {
		maxPoints = defaultMaxPoints
	}

	// Reject-too-short: no backend calls at all
	if len(content) < s.config.MinContentChars {
		return &models.SummaryResult{
			Failed:  true,
			Message: tooShortMessage,
			Topics:  models.FallbackTopics(),
		}
	}

	if len(content) > s.config.MaxContentChars {
		content = content[:s.config.MaxContentChars]
	}

	topics := s.extractTopics(ctx, content)

	points := s.generatePoints(ctx, prompts.Summary(content, topics, maxPoints), content, maxPoints, interfaces.PresetFactual)

	result := &models.SummaryResult{
		Points: points,
		Topics: topics,
	}

	if len(points) == 0 || !opts.ValidationEnabled {
		return result
	}

	validation := s.validatePoints(ctx, content, points)
	if validation == nil {
		// Validation failure is absorbed: the unvalidated summary stands
		return result
	}
	result.Validation = validation

	if validation.InvalidPoints == 0 {
		return result
	}

	validCount := validation.TotalPoints - validation.InvalidPoints
	if float64(validCount) >= s.config.ValidThreshold*float64(validation.TotalPoints) {
		// Filter: keep only the supported points
		kept := make([]string, 0, validCount)
		for _, pv := range validation.Points {
			if pv.Supported {
				kept = append(kept, pv.Point)
			}
		}
		result.Points = kept
		result.Filtered = true
		s.logger.Info().
			Int("kept", len(kept)).
			Int("total", validation.TotalPoints).
			Msg("Filtered unsupported summary points")
		return result
	}

	// Losing more than the allowed share of points: full regeneration with
	// the strict preset and no re-validation
	s.logger.Warn().
		Int("invalid", validation.InvalidPoints).
		Int("total", validation.TotalPoints).
		Msg("Validation shortfall, regenerating summary")

	regenerated := s.generatePoints(ctx, prompts.StrictSummary(content, topics, maxPoints), content, maxPoints, interfaces.PresetStrict)
	result.Points = regenerated
	result.Filtered = false
	result.Regenerated = true
	return result
}

// SummarizeMaterial runs the pipeline over a stored material and persists
// the accepted summary. A missing material is the one hard error.
func (s *Service) SummarizeMaterial(ctx context.Context, materialID string, opts interfaces.SummarizeOptions) (*models.SummaryResult, error) {
	material, err := s.materials.GetMaterial(ctx, materialID)
	if err != nil {
		return nil, fmt.Errorf("loading material %s: %w", materialID, err)
	}

	result := s.Summarize(ctx, material.ContentText, opts)

	if !result.Failed && len(result.Points) > 0 {
		stored := &models.StoredSummary{
			ID:          common.NewSummaryID(),
			MaterialID:  material.ID,
			UserID:      material.UserID,
			Points:      result.Points,
			Topics:      result.Topics,
			Filtered:    result.Filtered,
			Regenerated: result.Regenerated,
			CreatedAt:   time.Now(),
		}
		if err := s.summaries.StoreSummary(ctx, stored); err != nil {
			s.logger.Warn().Err(err).Str("material_id", material.ID).Msg("Failed to persist summary")
		}
	}

	return result, nil
}

// extractTopics asks the model for topical guidance, falling back to the
// fixed generic set on any failure or empty result
func (s *Service) extractTopics(ctx context.Context, content string) models.TopicSet {
	parsed, err := s.completion.CompleteStructured(ctx, prompts.TopicExtraction(content), interfaces.PresetFactual, 500)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Topic extraction failed, using fallback topics")
		return models.FallbackTopics()
	}

	topics := models.TopicSet{
		SubjectAreas: stringSlice(parsed["subject_areas"]),
		KeyTopics:    stringSlice(parsed["key_topics"]),
	}
	if topics.IsEmpty() {
		return models.FallbackTopics()
	}
	return topics
}

// generatePoints runs one generation call and post-processes the bullets.
// A timeout triggers a single shortened-prompt retry; any remaining
// timeout yields the fixed apologetic fallback. Other faults yield nil.
func (s *Service) generatePoints(ctx context.Context, prompt, content string, maxPoints int, preset interfaces.CompletionPreset) []string {
	parsed, err := s.completion.CompleteStructured(ctx, prompt, preset, 1000)
	if err != nil {
		if !llm.IsTimeout(err) {
			s.logger.Warn().Err(err).Msg("Summary generation failed")
			return nil
		}

		// Single retry with shortened content and a simpler prompt
		short := content
		if len(short) > s.config.RetryChars {
			short = short[:s.config.RetryChars]
		}
		s.logger.Warn().Int("retry_chars", len(short)).Msg("Summary generation timed out, retrying with shortened prompt")

		parsed, err = s.completion.CompleteStructured(ctx, prompts.ShortSummary(short, maxPoints), preset, 1000)
		if err != nil {
			if llm.IsTimeout(err) {
				return []string{timeoutFallbackPoint}
			}
			s.logger.Warn().Err(err).Msg("Shortened summary retry failed")
			return nil
		}
	}

	points := stringSlice(parsed["key_points"])
	return s.cleanPoints(points, maxPoints)
}

// cleanPoints strips list markers, drops empties, truncates each point to
// the configured length, and caps the count
func (s *Service) cleanPoints(points []string, maxPoints int) []string {
	cleaned := make([]string, 0, len(points))
	for _, p := range points {
		p = strings.TrimSpace(p)
		p = strings.TrimPrefix(p, "- ")
		p = strings.TrimPrefix(p, "• ")
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if len(p) > s.config.MaxPointChars {
			p = p[:s.config.MaxPointChars-3] + "..."
		}
		cleaned = append(cleaned, p)
		if len(cleaned) == maxPoints {
			break
		}
	}
	return cleaned
}

// validatePoints asks for a per-point support verdict in one batched call.
// Any failure returns nil and is absorbed by the caller.
func (s *Service) validatePoints(ctx context.Context, content string, points []string) *models.ValidationRecord {
	parsed, err := s.completion.CompleteStructured(ctx, prompts.SummaryValidation(content, points), interfaces.PresetFactual, 1000)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Summary validation failed, keeping unvalidated summary")
		return nil
	}

	rawResults, ok := parsed["results"].([]interface{})
	if !ok || len(rawResults) == 0 {
		return nil
	}

	record := &models.ValidationRecord{TotalPoints: len(points)}
	verdicts := make(map[int]models.PointValidation, len(rawResults))
	for i, raw := range rawResults {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		pv := models.PointValidation{
			Supported: true, // missing verdict counts as supported
		}
		if point, ok := entry["point"].(string); ok {
			pv.Point = point
		}
		if supported, ok := entry["supported"].(bool); ok {
			pv.Supported = supported
		}
		if reason, ok := entry["reason"].(string); ok {
			pv.Reason = reason
		}
		verdicts[i] = pv
	}

	// Verdicts are matched to points by position. Points without a verdict
	// count as supported.
	for i, p := range points {
		pv, ok := verdicts[i]
		if !ok {
			pv = models.PointValidation{Point: p, Supported: true}
		}
		pv.Point = p
		if !pv.Supported {
			record.InvalidPoints++
		}
		record.Points = append(record.Points, pv)
	}
	return record
}

// stringSlice coerces a loosely-typed JSON array into []string
func stringSlice(v interface{}) []string {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if str, ok := item.(string); ok && strings.TrimSpace(str) != "" {
			out = append(out, strings.TrimSpace(str))
		}
	}
	return out
}
