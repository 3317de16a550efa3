package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ternarybob/studeo/internal/models"
)

func TestSummaryIncludesTopicGuidance(t *testing.T) {
	topics := models.TopicSet{
		SubjectAreas: []string{"Biology"},
		KeyTopics:    []string{"Osmosis", "Diffusion"},
	}
	prompt := Summary("cell membrane text", topics, 5)

	assert.Contains(t, prompt, "Biology")
	assert.Contains(t, prompt, "Osmosis, Diffusion")
	assert.Contains(t, prompt, "at most 5 key points")
	assert.Contains(t, prompt, "cell membrane text")
}

func TestSummaryOmitsEmptyTopicBlock(t *testing.T) {
	prompt := Summary("some text", models.TopicSet{}, 5)
	assert.NotContains(t, prompt, "subject areas:")
}

func TestSummaryValidationNumbersPoints(t *testing.T) {
	prompt := SummaryValidation("source", []string{"first point", "second point"})
	assert.Contains(t, prompt, "1. first point")
	assert.Contains(t, prompt, "2. second point")
	assert.Contains(t, prompt, `"supported"`)
}

func TestQuestionsVariesByType(t *testing.T) {
	mc := Questions("text", 3, models.QuestionTypeMultipleChoice, models.DifficultyMedium, nil)
	assert.Contains(t, mc, "multiple choice")
	assert.Contains(t, mc, "exactly 4 options")
	assert.Contains(t, mc, "correct_index")

	sa := Questions("text", 3, models.QuestionTypeShortAnswer, "", []string{"mitosis"})
	assert.Contains(t, sa, "short answer")
	assert.Contains(t, sa, "correct_answer")
	assert.Contains(t, sa, "mitosis")
	assert.NotContains(t, sa, "Difficulty level")
}

func TestAdversarialEmbedsExemplars(t *testing.T) {
	exemplars := []*models.Question{
		{Question: "What is ATP?"},
		{Question: "Where does glycolysis occur?"},
	}
	prompt := Adversarial("text", 2, exemplars)
	assert.Contains(t, prompt, "1. What is ATP?")
	assert.Contains(t, prompt, "2. Where does glycolysis occur?")
	assert.Contains(t, prompt, "misconception")

	bare := Adversarial("text", 2, nil)
	assert.NotContains(t, bare, "Existing questions")
}

func TestStrictSummaryWarnsAboutHallucination(t *testing.T) {
	prompt := StrictSummary("text", models.FallbackTopics(), 5)
	assert.True(t, strings.Contains(prompt, "not supported by the text"))
	assert.Contains(t, prompt, "leave it out")
}

func TestImprovementIncludesFeedbackDigest(t *testing.T) {
	q := &models.Question{
		Type:         models.QuestionTypeMultipleChoice,
		Question:     "Which organelle makes energy?",
		Options:      []string{"Nucleus", "Mitochondria", "Ribosome", "Golgi"},
		CorrectIndex: 1,
	}
	prompt := Improvement(q, "source text", "3 of 5 users answered wrong; 2 found it unhelpful")
	assert.Contains(t, prompt, "Which organelle makes energy?")
	assert.Contains(t, prompt, "Correct option index: 1")
	assert.Contains(t, prompt, "3 of 5 users answered wrong")
}
