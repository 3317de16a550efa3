package qa

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/studeo/internal/common"
	"github.com/ternarybob/studeo/internal/interfaces"
	"github.com/ternarybob/studeo/internal/models"
)

// --- in-memory fakes ---

type fakeMaterials struct {
	items map[string]*models.Material
}

func (f *fakeMaterials) StoreMaterial(ctx context.Context, m *models.Material) error {
	f.items[m.ID] = m
	return nil
}
func (f *fakeMaterials) GetMaterial(ctx context.Context, id string) (*models.Material, error) {
	m, ok := f.items[id]
	if !ok {
		return nil, fmt.Errorf("material %s not found", id)
	}
	return m, nil
}
func (f *fakeMaterials) GetMaterialsByUser(ctx context.Context, userID string) ([]*models.Material, error) {
	return nil, nil
}
func (f *fakeMaterials) GetAllMaterials(ctx context.Context) ([]*models.Material, error) {
	var out []*models.Material
	for _, m := range f.items {
		out = append(out, m)
	}
	return out, nil
}
func (f *fakeMaterials) FindByFingerprint(ctx context.Context, userID, fingerprint string) (*models.Material, error) {
	return nil, nil
}
func (f *fakeMaterials) DeleteMaterial(ctx context.Context, id string) error { return nil }
func (f *fakeMaterials) CountMaterials(ctx context.Context) (int, error)     { return len(f.items), nil }

type fakeQuestions struct {
	items map[string]*models.Question
	order []string
}

func (f *fakeQuestions) StoreQuestion(ctx context.Context, q *models.Question) error {
	if _, exists := f.items[q.ID]; !exists {
		f.order = append(f.order, q.ID)
	}
	copied := *q
	f.items[q.ID] = &copied
	return nil
}
func (f *fakeQuestions) StoreQuestions(ctx context.Context, qs []*models.Question) error {
	for _, q := range qs {
		if err := f.StoreQuestion(ctx, q); err != nil {
			return err
		}
	}
	return nil
}
func (f *fakeQuestions) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	q, ok := f.items[id]
	if !ok {
		return nil, fmt.Errorf("question %s not found", id)
	}
	copied := *q
	return &copied, nil
}
func (f *fakeQuestions) GetQuestionsByMaterial(ctx context.Context, materialID string) ([]*models.Question, error) {
	var out []*models.Question
	for _, id := range f.order {
		q, ok := f.items[id]
		if ok && q.MaterialID == materialID {
			copied := *q
			out = append(out, &copied)
		}
	}
	return out, nil
}
func (f *fakeQuestions) DeleteQuestion(ctx context.Context, id string) error {
	delete(f.items, id)
	return nil
}
func (f *fakeQuestions) CountQuestions(ctx context.Context) (int, error) { return len(f.items), nil }

type fakeFeedback struct {
	records []models.FeedbackRecord
}

func (f *fakeFeedback) StoreFeedback(ctx context.Context, r *models.FeedbackRecord) error {
	f.records = append(f.records, *r)
	return nil
}
func (f *fakeFeedback) GetFeedbackByQuestion(ctx context.Context, questionID string) ([]models.FeedbackRecord, error) {
	var out []models.FeedbackRecord
	for _, r := range f.records {
		if r.QuestionID == questionID {
			out = append(out, r)
		}
	}
	return out, nil
}
func (f *fakeFeedback) CountFeedback(ctx context.Context) (int, error) { return len(f.records), nil }

type fakeChangelog struct {
	entries []models.ChangelogEntry
}

func (f *fakeChangelog) AppendEntry(ctx context.Context, e *models.ChangelogEntry) error {
	f.entries = append(f.entries, *e)
	return nil
}
func (f *fakeChangelog) GetEntriesByQuestion(ctx context.Context, questionID string) ([]models.ChangelogEntry, error) {
	var out []models.ChangelogEntry
	for _, e := range f.entries {
		if e.QuestionID == questionID {
			out = append(out, e)
		}
	}
	return out, nil
}
func (f *fakeChangelog) GetEntriesByMaterial(ctx context.Context, materialID string) ([]models.ChangelogEntry, error) {
	var out []models.ChangelogEntry
	for _, e := range f.entries {
		if e.MaterialID == materialID {
			out = append(out, e)
		}
	}
	return out, nil
}

type mockCompletion struct {
	respond func(prompt string, preset interfaces.CompletionPreset) (map[string]interface{}, error)
	prompts []string
	presets []interfaces.CompletionPreset
}

func (m *mockCompletion) Complete(ctx context.Context, prompt string, preset interfaces.CompletionPreset, maxTokens int) (string, error) {
	return "", nil
}
func (m *mockCompletion) CompleteStructured(ctx context.Context, prompt string, preset interfaces.CompletionPreset, maxTokens int) (map[string]interface{}, error) {
	m.prompts = append(m.prompts, prompt)
	m.presets = append(m.presets, preset)
	return m.respond(prompt, preset)
}
func (m *mockCompletion) Embed(ctx context.Context, text string) ([]float64, error) { return nil, nil }
func (m *mockCompletion) ListModels(ctx context.Context) ([]string, error)          { return nil, nil }

// --- harness ---

type harness struct {
	svc       *Service
	mock      *mockCompletion
	materials *fakeMaterials
	questions *fakeQuestions
	feedback  *fakeFeedback
	changelog *fakeChangelog
}

func newHarness(respond func(string, interfaces.CompletionPreset) (map[string]interface{}, error)) *harness {
	h := &harness{
		mock:      &mockCompletion{respond: respond},
		materials: &fakeMaterials{items: map[string]*models.Material{}},
		questions: &fakeQuestions{items: map[string]*models.Question{}},
		feedback:  &fakeFeedback{},
		changelog: &fakeChangelog{},
	}
	cfg := common.NewDefaultConfig().QA
	h.svc = NewService(h.mock, h.materials, h.questions, h.feedback, h.changelog, cfg, common.GetLogger())
	h.materials.items["mat_1"] = &models.Material{
		ID:          "mat_1",
		UserID:      "usr_1",
		ContentText: strings.Repeat("Photosynthesis converts light into chemical energy. ", 10),
	}
	return h
}

func mcQuestion(text string) map[string]interface{} {
	return map[string]interface{}{
		"question":      text,
		"options":       []interface{}{"A", "B", "C", "D"},
		"correct_index": float64(1),
		"topic":         "photosynthesis",
	}
}

func questionsResponse(items ...map[string]interface{}) map[string]interface{} {
	raw := make([]interface{}, len(items))
	for i, item := range items {
		raw[i] = item
	}
	return map[string]interface{}{"questions": raw}
}

func boolPtr(b bool) *bool { return &b }

// --- tests ---

func TestSplitCount(t *testing.T) {
	tests := []struct {
		total   int
		buckets int
		want    []int
	}{
		{10, 2, []int{5, 5}},
		{10, 3, []int{4, 3, 3}},
		{7, 3, []int{3, 2, 2}},
		{2, 3, []int{1, 1, 0}},
		{5, 1, []int{5}},
	}
	for _, tt := range tests {
		got := make([]int, tt.buckets)
		sum := 0
		for i := range got {
			got[i] = splitCount(tt.total, tt.buckets, i)
			sum += got[i]
		}
		assert.Equal(t, tt.want, got, "total=%d buckets=%d", tt.total, tt.buckets)
		assert.Equal(t, tt.total, sum)
	}
}

func TestGenerateQuestionsPersistsAndLogsCreation(t *testing.T) {
	h := newHarness(func(prompt string, preset interfaces.CompletionPreset) (map[string]interface{}, error) {
		if strings.Contains(prompt, "multiple choice") {
			return questionsResponse(mcQuestion("Q1?"), mcQuestion("Q2?")), nil
		}
		return questionsResponse(map[string]interface{}{
			"question":       "Define osmosis.",
			"correct_answer": "Movement of water across a membrane",
			"topic":          "transport",
		}), nil
	})

	generated, err := h.svc.GenerateQuestions(context.Background(), "mat_1", interfaces.QuestionRequest{
		Count: 3,
		Types: []string{models.QuestionTypeMultipleChoice, models.QuestionTypeShortAnswer},
	})
	require.NoError(t, err)
	require.Len(t, generated, 3)

	// FACTUAL preset for plain question generation
	for _, p := range h.mock.presets {
		assert.Equal(t, interfaces.PresetFactual, p)
	}

	// All persisted, one created changelog entry each
	stored, _ := h.questions.GetQuestionsByMaterial(context.Background(), "mat_1")
	assert.Len(t, stored, 3)
	assert.Len(t, h.changelog.entries, 3)
	for _, e := range h.changelog.entries {
		assert.Equal(t, models.ChangelogActionCreated, e.Action)
	}
	for _, q := range generated {
		assert.True(t, strings.HasPrefix(q.ID, "q_"))
		assert.Equal(t, 1, q.Version)
	}
}

func TestGenerateQuestionsDiscardsMalformed(t *testing.T) {
	h := newHarness(func(prompt string, preset interfaces.CompletionPreset) (map[string]interface{}, error) {
		return questionsResponse(
			mcQuestion("good question?"),
			map[string]interface{}{ // only 3 options
				"question":      "bad question?",
				"options":       []interface{}{"A", "B", "C"},
				"correct_index": float64(0),
			},
			map[string]interface{}{ // index out of range
				"question":      "worse question?",
				"options":       []interface{}{"A", "B", "C", "D"},
				"correct_index": float64(7),
			},
		), nil
	})

	generated, err := h.svc.GenerateQuestions(context.Background(), "mat_1", interfaces.QuestionRequest{
		Count: 3,
		Types: []string{models.QuestionTypeMultipleChoice},
	})
	require.NoError(t, err)
	require.Len(t, generated, 1)
	assert.Equal(t, "good question?", generated[0].Question)
}

func TestGenerateAdversarialTagsAndCapsExemplars(t *testing.T) {
	h := newHarness(nil)

	// Seed 7 existing questions; only 5 may appear as exemplars
	for i := 0; i < 7; i++ {
		h.questions.StoreQuestion(context.Background(), &models.Question{
			ID:         fmt.Sprintf("q_%d", i),
			MaterialID: "mat_1",
			Type:       models.QuestionTypeMultipleChoice,
			Question:   fmt.Sprintf("existing %d?", i),
		})
	}

	h.mock.respond = func(prompt string, preset interfaces.CompletionPreset) (map[string]interface{}, error) {
		assert.Equal(t, interfaces.PresetCreative, preset)
		assert.Contains(t, prompt, "existing 4?")
		assert.NotContains(t, prompt, "existing 5?")

		withType := mcQuestion("tricky?")
		withType["adversarial_type"] = "misconception"
		return questionsResponse(withType, mcQuestion("also tricky?")), nil
	}

	generated, err := h.svc.GenerateAdversarial(context.Background(), "mat_1", 2, true)
	require.NoError(t, err)
	require.Len(t, generated, 2)

	assert.True(t, generated[0].IsAdversarial)
	assert.Equal(t, models.DifficultyHard, generated[0].Difficulty)
	assert.Equal(t, "misconception", generated[0].AdversarialType)
	// Missing type defaults to general
	assert.Equal(t, "general", generated[1].AdversarialType)
}

func TestRecordFeedbackRecomputesMetrics(t *testing.T) {
	h := newHarness(nil)
	h.questions.StoreQuestion(context.Background(), &models.Question{
		ID:         "q_1",
		MaterialID: "mat_1",
		Type:       models.QuestionTypeShortAnswer,
		Question:   "Define ATP.",
	})

	require.NoError(t, h.svc.RecordFeedback(context.Background(), &models.FeedbackRecord{
		QuestionID: "q_1", UserID: "usr_1", IsCorrect: true, IsHelpful: boolPtr(true),
	}))
	require.NoError(t, h.svc.RecordFeedback(context.Background(), &models.FeedbackRecord{
		QuestionID: "q_1", UserID: "usr_2", IsCorrect: false,
	}))

	q, err := h.questions.GetQuestion(context.Background(), "q_1")
	require.NoError(t, err)
	assert.Equal(t, 2, q.Metrics.TotalAttempts)
	assert.InDelta(t, 0.5, q.Metrics.Accuracy, 1e-9)
	assert.InDelta(t, 1.0, q.Metrics.Helpfulness, 1e-9) // only one rating, positive
}

// seedFeedback adds n records with the given correctness and helpfulness pattern
func seedFeedback(h *harness, questionID string, correct []bool, helpful []*bool) {
	for i := range correct {
		var hp *bool
		if i < len(helpful) {
			hp = helpful[i]
		}
		h.feedback.records = append(h.feedback.records, models.FeedbackRecord{
			ID:         fmt.Sprintf("fb_%s_%d", questionID, i),
			QuestionID: questionID,
			IsCorrect:  correct[i],
			IsHelpful:  hp,
		})
	}
}

func TestQualityScoreBoundaryIsNotActioned(t *testing.T) {
	// 5 records, 2 correct, helpfulness [true, false, true]:
	// score = 0.4*0.4 + 0.6*(2/3) = 0.560, above the 0.3 threshold
	h := newHarness(func(prompt string, preset interfaces.CompletionPreset) (map[string]interface{}, error) {
		t.Fatal("no completion call expected for an above-threshold question")
		return nil, nil
	})
	h.questions.StoreQuestion(context.Background(), &models.Question{
		ID: "q_1", MaterialID: "mat_1", Type: models.QuestionTypeShortAnswer,
		Question: "Q?", CorrectAnswer: "A",
	})
	seedFeedback(h, "q_1",
		[]bool{true, true, false, false, false},
		[]*bool{boolPtr(true), boolPtr(false), boolPtr(true), nil, nil})

	summary, err := h.svc.EvaluateQuestions(context.Background(), "mat_1", 0.3)
	require.NoError(t, err)
	assert.Equal(t, &models.EvaluationSummary{TotalQuestions: 1, NoAction: 1}, summary)
	assert.Empty(t, h.changelog.entries)
}

func TestLowScoreLowHelpfulnessDeletes(t *testing.T) {
	h := newHarness(func(prompt string, preset interfaces.CompletionPreset) (map[string]interface{}, error) {
		t.Fatal("retirement must not call the model")
		return nil, nil
	})
	h.questions.StoreQuestion(context.Background(), &models.Question{
		ID: "q_1", MaterialID: "mat_1", Type: models.QuestionTypeShortAnswer,
		Question: "Q?", CorrectAnswer: "A",
	})
	// All wrong, all unhelpful: score 0, helpfulness 0
	seedFeedback(h, "q_1",
		[]bool{false, false, false},
		[]*bool{boolPtr(false), boolPtr(false), boolPtr(false)})

	summary, err := h.svc.EvaluateQuestions(context.Background(), "mat_1", 0.3)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Removed)

	_, err = h.questions.GetQuestion(context.Background(), "q_1")
	assert.Error(t, err)

	require.Len(t, h.changelog.entries, 1)
	entry := h.changelog.entries[0]
	assert.Equal(t, models.ChangelogActionRemoved, entry.Action)
	assert.Contains(t, entry.Details, "quality score")
	require.NotNil(t, entry.QAData)
	assert.Equal(t, "q_1", entry.QAData.ID)
}

func TestLowScoreHelpfulEnoughIsImproved(t *testing.T) {
	h := newHarness(func(prompt string, preset interfaces.CompletionPreset) (map[string]interface{}, error) {
		assert.Equal(t, interfaces.PresetCreative, preset)
		return map[string]interface{}{
			"question":          "Clearer question?",
			"topic":             "energy",
			"improvement_notes": "simplified wording",
		}, nil
	})
	h.questions.StoreQuestion(context.Background(), &models.Question{
		ID: "q_1", MaterialID: "mat_1", Type: models.QuestionTypeShortAnswer,
		Question: "Muddled question?", CorrectAnswer: "A", Version: 1,
	})
	// All wrong, helpfulness 1/3 = 0.333: score 0.2 below threshold, not retired
	seedFeedback(h, "q_1",
		[]bool{false, false, false},
		[]*bool{boolPtr(true), boolPtr(false), boolPtr(false)})

	summary, err := h.svc.EvaluateQuestions(context.Background(), "mat_1", 0.3)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 0, summary.Removed)

	q, err := h.questions.GetQuestion(context.Background(), "q_1")
	require.NoError(t, err)
	assert.Equal(t, "Clearer question?", q.Question)
	assert.Equal(t, "energy", q.Topic)
	assert.Equal(t, "simplified wording", q.ImprovementNotes)
	assert.Equal(t, 2, q.Version)

	require.Len(t, h.changelog.entries, 1)
	entry := h.changelog.entries[0]
	assert.Equal(t, models.ChangelogActionUpdated, entry.Action)
	require.NotNil(t, entry.PreviousData)
	assert.Equal(t, "Muddled question?", entry.PreviousData.Question)
	assert.Equal(t, "Clearer question?", entry.QAData.Question)
}

func TestImprovementParseFailureLeavesQuestionUntouched(t *testing.T) {
	h := newHarness(func(prompt string, preset interfaces.CompletionPreset) (map[string]interface{}, error) {
		return map[string]interface{}{}, nil // irreparable output became an empty map
	})
	h.questions.StoreQuestion(context.Background(), &models.Question{
		ID: "q_1", MaterialID: "mat_1", Type: models.QuestionTypeShortAnswer,
		Question: "Original?", CorrectAnswer: "A", Version: 1,
	})
	seedFeedback(h, "q_1",
		[]bool{false, false, false},
		[]*bool{boolPtr(true), boolPtr(false), boolPtr(false)})

	summary, err := h.svc.EvaluateQuestions(context.Background(), "mat_1", 0.3)
	require.NoError(t, err)
	assert.Equal(t, &models.EvaluationSummary{TotalQuestions: 1, NoAction: 1}, summary)

	q, _ := h.questions.GetQuestion(context.Background(), "q_1")
	assert.Equal(t, "Original?", q.Question)
	assert.Equal(t, 1, q.Version)
	assert.Empty(t, h.changelog.entries)
}

func TestZeroFeedbackIsAlwaysNoAction(t *testing.T) {
	h := newHarness(func(prompt string, preset interfaces.CompletionPreset) (map[string]interface{}, error) {
		t.Fatal("no completion call expected")
		return nil, nil
	})
	h.questions.StoreQuestion(context.Background(), &models.Question{
		ID: "q_1", MaterialID: "mat_1", Type: models.QuestionTypeShortAnswer,
		Question: "Q?", CorrectAnswer: "A",
	})

	summary, err := h.svc.EvaluateQuestions(context.Background(), "mat_1", 0.3)
	require.NoError(t, err)
	assert.Equal(t, &models.EvaluationSummary{TotalQuestions: 1, NoAction: 1}, summary)
}

func TestComputeMetricsWithNoHelpfulnessData(t *testing.T) {
	records := []models.FeedbackRecord{
		{IsCorrect: true},
		{IsCorrect: false},
	}
	m := models.ComputeMetrics(records)
	assert.InDelta(t, 0.5, m.Accuracy, 1e-9)
	assert.Equal(t, 0.0, m.Helpfulness)
	assert.InDelta(t, 0.2, m.Score(), 1e-9)
}
