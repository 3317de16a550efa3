// Package qa implements question generation, adversarial variants, and the
// feedback-driven quality loop that improves or retires questions.
package qa

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/studeo/internal/common"
	"github.com/ternarybob/studeo/internal/interfaces"
	"github.com/ternarybob/studeo/internal/models"
	"github.com/ternarybob/studeo/internal/services/prompts"
)

// maxContentChars bounds the material text embedded in generation prompts
const maxContentChars = 12000

// helpfulnessFloor is the retirement cutoff: a below-threshold question
// that users also found unhelpful is deleted rather than rewritten
const helpfulnessFloor = 0.2

// Service generates questions and runs the quality loop
type Service struct {
	completion interfaces.CompletionService
	materials  interfaces.MaterialStorage
	questions  interfaces.QuestionStorage
	feedback   interfaces.FeedbackStorage
	changelog  interfaces.ChangelogStorage
	config     common.QAConfig
	logger     arbor.ILogger
}

// NewService creates a QA service
func NewService(completion interfaces.CompletionService, materials interfaces.MaterialStorage, questions interfaces.QuestionStorage, feedback interfaces.FeedbackStorage, changelog interfaces.ChangelogStorage, config common.QAConfig, logger arbor.ILogger) *Service {
	return &Service{
		completion: completion,
		materials:  materials,
		questions:  questions,
		feedback:   feedback,
		changelog:  changelog,
		config:     config,
		logger:     logger,
	}
}

// GenerateQuestions generates count questions split as evenly as possible
// across the requested types, persists them, and logs one created
// changelog entry per question.
func (s *Service) GenerateQuestions(ctx context.Context, materialID string, req interfaces.QuestionRequest) ([]*models.Question, error) {
	material, err := s.materials.GetMaterial(ctx, materialID)
	if err != nil {
		return nil, fmt.Errorf("loading material %s: %w", materialID, err)
	}

	count := req.Count
	if count <= 0 {
		count = s.config.DefaultCount
	}
	types := req.Types
	if len(types) == 0 {
		types = []string{models.QuestionTypeMultipleChoice}
	}

	content := truncate(material.ContentText, maxContentChars)

	var generated []*models.Question
	for i, qType := range types {
		batch := splitCount(count, len(types), i)
		if batch == 0 {
			continue
		}

		prompt := prompts.Questions(content, batch, qType, req.Difficulty, req.Topics)
		parsed, err := s.completion.CompleteStructured(ctx, prompt, interfaces.PresetFactual, 2000)
		if err != nil {
			s.logger.Warn().Err(err).Str("question_type", qType).Msg("Question generation failed")
			continue
		}

		for _, q := range s.parseQuestions(parsed, material, qType, req.Difficulty) {
			generated = append(generated, q)
		}
	}

	if err := s.persistNew(ctx, generated); err != nil {
		return nil, err
	}
	return generated, nil
}

// GenerateAdversarial generates intentionally difficult questions, sampling
// up to the configured number of existing questions as exemplars.
func (s *Service) GenerateAdversarial(ctx context.Context, materialID string, count int, baseOnExisting bool) ([]*models.Question, error) {
	material, err := s.materials.GetMaterial(ctx, materialID)
	if err != nil {
		return nil, fmt.Errorf("loading material %s: %w", materialID, err)
	}

	var exemplars []*models.Question
	if baseOnExisting {
		existing, err := s.questions.GetQuestionsByMaterial(ctx, materialID)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Failed to load exemplar questions")
		} else {
			if len(existing) > s.config.MaxAdversarial {
				existing = existing[:s.config.MaxAdversarial]
			}
			exemplars = existing
		}
	}

	content := truncate(material.ContentText, maxContentChars)
	parsed, err := s.completion.CompleteStructured(ctx, prompts.Adversarial(content, count, exemplars), interfaces.PresetCreative, 2000)
	if err != nil {
		return nil, fmt.Errorf("adversarial generation: %w", err)
	}

	generated := s.parseQuestions(parsed, material, models.QuestionTypeMultipleChoice, models.DifficultyHard)
	for _, q := range generated {
		q.IsAdversarial = true
		q.Difficulty = models.DifficultyHard
		if q.AdversarialType == "" {
			q.AdversarialType = "general"
		}
	}

	if err := s.persistNew(ctx, generated); err != nil {
		return nil, err
	}
	return generated, nil
}

// RecordFeedback appends a feedback record and recomputes the question's
// quality metrics from the full feedback set.
func (s *Service) RecordFeedback(ctx context.Context, record *models.FeedbackRecord) error {
	question, err := s.questions.GetQuestion(ctx, record.QuestionID)
	if err != nil {
		return fmt.Errorf("loading question %s: %w", record.QuestionID, err)
	}

	if record.ID == "" {
		record.ID = common.NewFeedbackID()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	if err := s.feedback.StoreFeedback(ctx, record); err != nil {
		return fmt.Errorf("storing feedback: %w", err)
	}

	records, err := s.feedback.GetFeedbackByQuestion(ctx, record.QuestionID)
	if err != nil {
		return fmt.Errorf("loading feedback for %s: %w", record.QuestionID, err)
	}

	question.Metrics = models.ComputeMetrics(records)
	if err := s.questions.StoreQuestion(ctx, question); err != nil {
		return fmt.Errorf("updating question metrics: %w", err)
	}

	s.logger.Debug().
		Str("question_id", question.ID).
		Float64("accuracy", question.Metrics.Accuracy).
		Float64("helpfulness", question.Metrics.Helpfulness).
		Msg("Recorded feedback")
	return nil
}

// EvaluateQuestions computes the quality score for every question with
// feedback and retires or rewrites those below threshold.
func (s *Service) EvaluateQuestions(ctx context.Context, materialID string, threshold float64) (*models.EvaluationSummary, error) {
	material, err := s.materials.GetMaterial(ctx, materialID)
	if err != nil {
		return nil, fmt.Errorf("loading material %s: %w", materialID, err)
	}

	questionList, err := s.questions.GetQuestionsByMaterial(ctx, materialID)
	if err != nil {
		return nil, fmt.Errorf("loading questions: %w", err)
	}

	if threshold <= 0 {
		threshold = s.config.QualityThreshold
	}

	summary := &models.EvaluationSummary{TotalQuestions: len(questionList)}
	content := truncate(material.ContentText, maxContentChars)

	for _, question := range questionList {
		records, err := s.feedback.GetFeedbackByQuestion(ctx, question.ID)
		if err != nil {
			s.logger.Warn().Err(err).Str("question_id", question.ID).Msg("Failed to load feedback")
			summary.NoAction++
			continue
		}
		if len(records) == 0 {
			summary.NoAction++
			continue
		}

		metrics := models.ComputeMetrics(records)
		score := metrics.Score()
		if score >= threshold {
			summary.NoAction++
			continue
		}

		if metrics.Helpfulness < helpfulnessFloor {
			if err := s.retireQuestion(ctx, question, score); err != nil {
				s.logger.Error().Err(err).Str("question_id", question.ID).Msg("Failed to retire question")
				summary.NoAction++
				continue
			}
			summary.Removed++
			continue
		}

		if s.improveQuestion(ctx, question, content, records) {
			summary.Updated++
		} else {
			summary.NoAction++
		}
	}

	s.logger.Info().
		Str("material_id", materialID).
		Int("total", summary.TotalQuestions).
		Int("removed", summary.Removed).
		Int("updated", summary.Updated).
		Int("no_action", summary.NoAction).
		Msg("Question evaluation complete")
	return summary, nil
}

// retireQuestion deletes a question and logs exactly one removed entry
func (s *Service) retireQuestion(ctx context.Context, question *models.Question, score float64) error {
	if err := s.questions.DeleteQuestion(ctx, question.ID); err != nil {
		return err
	}
	return s.changelog.AppendEntry(ctx, &models.ChangelogEntry{
		ID:         common.NewChangelogID(),
		QuestionID: question.ID,
		MaterialID: question.MaterialID,
		Action:     models.ChangelogActionRemoved,
		Details:    fmt.Sprintf("quality score %.3f below threshold with helpfulness %.3f", score, question.Metrics.Helpfulness),
		QAData:     question,
		Timestamp:  time.Now(),
	})
}

// improveQuestion asks the model for a rewrite and applies it as a partial
// update. A response that cannot be parsed into usable fields leaves the
// question untouched and reports false.
func (s *Service) improveQuestion(ctx context.Context, question *models.Question, content string, records []models.FeedbackRecord) bool {
	digest := feedbackDigest(records)
	parsed, err := s.completion.CompleteStructured(ctx, prompts.Improvement(question, content, digest), interfaces.PresetCreative, 1500)
	if err != nil {
		s.logger.Warn().Err(err).Str("question_id", question.ID).Msg("Question improvement failed")
		return false
	}

	previous := *question
	changed := false

	if text, ok := parsed["question"].(string); ok && strings.TrimSpace(text) != "" {
		question.Question = strings.TrimSpace(text)
		changed = true
	}
	if topic, ok := parsed["topic"].(string); ok && strings.TrimSpace(topic) != "" {
		question.Topic = strings.TrimSpace(topic)
		changed = true
	}
	if rawOptions, ok := parsed["options"].([]interface{}); ok {
		options := toStrings(rawOptions)
		if len(options) == 4 {
			question.Options = options
			changed = true
		}
	}
	if idx, ok := parsed["correct_index"].(float64); ok {
		i := int(idx)
		if i >= 0 && i < len(question.Options) {
			question.CorrectIndex = i
			changed = true
		}
	}
	if answer, ok := parsed["correct_answer"].(string); ok && strings.TrimSpace(answer) != "" {
		question.CorrectAnswer = strings.TrimSpace(answer)
		changed = true
	}
	if notes, ok := parsed["improvement_notes"].(string); ok && strings.TrimSpace(notes) != "" {
		question.ImprovementNotes = strings.TrimSpace(notes)
	}

	if !changed {
		return false
	}

	question.Version++
	question.UpdatedAt = time.Now()

	if err := s.questions.StoreQuestion(ctx, question); err != nil {
		s.logger.Error().Err(err).Str("question_id", question.ID).Msg("Failed to store improved question")
		return false
	}
	if err := s.changelog.AppendEntry(ctx, &models.ChangelogEntry{
		ID:           common.NewChangelogID(),
		QuestionID:   question.ID,
		MaterialID:   question.MaterialID,
		Action:       models.ChangelogActionUpdated,
		Details:      "rewritten from user feedback",
		QAData:       question,
		PreviousData: &previous,
		Timestamp:    time.Now(),
	}); err != nil {
		s.logger.Error().Err(err).Str("question_id", question.ID).Msg("Failed to log question update")
	}
	return true
}

// parseQuestions converts a structured completion into validated questions
func (s *Service) parseQuestions(parsed map[string]interface{}, material *models.Material, qType, difficulty string) []*models.Question {
	rawQuestions, ok := parsed["questions"].([]interface{})
	if !ok {
		return nil
	}
	if difficulty == "" {
		difficulty = models.DifficultyMedium
	}

	now := time.Now()
	out := make([]*models.Question, 0, len(rawQuestions))
	for _, raw := range rawQuestions {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}

		q := &models.Question{
			ID:         common.NewQuestionID(),
			MaterialID: material.ID,
			UserID:     material.UserID,
			Type:       qType,
			Difficulty: difficulty,
			CreatedAt:  now,
			UpdatedAt:  now,
			Version:    1,
		}
		if text, ok := entry["question"].(string); ok {
			q.Question = strings.TrimSpace(text)
		}
		if topic, ok := entry["topic"].(string); ok {
			q.Topic = strings.TrimSpace(topic)
		}
		if rawOptions, ok := entry["options"].([]interface{}); ok {
			q.Options = toStrings(rawOptions)
		}
		if idx, ok := entry["correct_index"].(float64); ok {
			q.CorrectIndex = int(idx)
		}
		if answer, ok := entry["correct_answer"].(string); ok {
			q.CorrectAnswer = strings.TrimSpace(answer)
		}
		if advType, ok := entry["adversarial_type"].(string); ok {
			q.AdversarialType = strings.TrimSpace(advType)
		}

		if err := q.Validate(); err != nil {
			s.logger.Warn().Err(err).Msg("Discarding malformed generated question")
			continue
		}
		out = append(out, q)
	}
	return out
}

// persistNew stores freshly generated questions and logs one created entry each
func (s *Service) persistNew(ctx context.Context, generated []*models.Question) error {
	if len(generated) == 0 {
		return nil
	}
	if err := s.questions.StoreQuestions(ctx, generated); err != nil {
		return fmt.Errorf("storing questions: %w", err)
	}
	for _, q := range generated {
		entry := &models.ChangelogEntry{
			ID:         common.NewChangelogID(),
			QuestionID: q.ID,
			MaterialID: q.MaterialID,
			Action:     models.ChangelogActionCreated,
			QAData:     q,
			Timestamp:  time.Now(),
		}
		if err := s.changelog.AppendEntry(ctx, entry); err != nil {
			s.logger.Error().Err(err).Str("question_id", q.ID).Msg("Failed to log question creation")
		}
	}
	return nil
}

// splitCount distributes total across buckets as evenly as possible, with
// the remainder going to the earlier buckets in order
func splitCount(total, buckets, index int) int {
	if buckets <= 0 {
		return 0
	}
	base := total / buckets
	if index < total%buckets {
		base++
	}
	return base
}

// feedbackDigest renders the feedback set as prompt-ready text
func feedbackDigest(records []models.FeedbackRecord) string {
	correct := 0
	helpfulTrue := 0
	helpfulRated := 0
	var comments []string
	for _, r := range records {
		if r.IsCorrect {
			correct++
		}
		if r.IsHelpful != nil {
			helpfulRated++
			if *r.IsHelpful {
				helpfulTrue++
			}
		}
		if r.FeedbackText != nil && strings.TrimSpace(*r.FeedbackText) != "" {
			comments = append(comments, strings.TrimSpace(*r.FeedbackText))
		}
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d of %d users answered correctly.", correct, len(records)))
	if helpfulRated > 0 {
		b.WriteString(fmt.Sprintf(" %d of %d helpfulness ratings were positive.", helpfulTrue, helpfulRated))
	}
	for _, c := range comments {
		b.WriteString("\n- ")
		b.WriteString(c)
	}
	return b.String()
}

func toStrings(raw []interface{}) []string {
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if str, ok := item.(string); ok {
			out = append(out, strings.TrimSpace(str))
		}
	}
	return out
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
