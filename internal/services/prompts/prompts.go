// Package prompts builds the prompt strings for every model call. All
// functions are pure: content in, prompt out, no side effects.
package prompts

import (
	"fmt"
	"strings"

	"github.com/ternarybob/studeo/internal/models"
)

// TopicExtraction asks for subject areas and key topics as JSON
func TopicExtraction(content string) string {
	var b strings.Builder
	b.WriteString("Analyze the following study material and identify its topics.\n\n")
	b.WriteString("Return ONLY a JSON object with this exact structure:\n")
	b.WriteString(`{"subject_areas": ["..."], "key_topics": ["..."]}` + "\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- subject_areas: 3 to 8 broad academic fields the material belongs to\n")
	b.WriteString("- key_topics: 3 to 8 specific topics covered in the material\n")
	b.WriteString("- Use only topics actually present in the material\n\n")
	b.WriteString("Material:\n")
	b.WriteString(content)
	return b.String()
}

// Summary asks for a topic-guided factual summary as JSON bullet points
func Summary(content string, topics models.TopicSet, maxPoints int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Summarize the following study material in at most %d key points.\n\n", maxPoints))
	if !topics.IsEmpty() {
		b.WriteString("The material covers these subject areas: ")
		b.WriteString(strings.Join(topics.SubjectAreas, ", "))
		b.WriteString("\nFocus on these key topics: ")
		b.WriteString(strings.Join(topics.KeyTopics, ", "))
		b.WriteString("\n\n")
	}
	b.WriteString("Rules:\n")
	b.WriteString("- Use ONLY facts explicitly stated in the material\n")
	b.WriteString("- Do not add outside knowledge, interpretation, or examples\n")
	b.WriteString("- Each point must be a single short sentence\n\n")
	b.WriteString(`Return ONLY a JSON object: {"key_points": ["..."]}` + "\n\n")
	b.WriteString("Material:\n")
	b.WriteString(content)
	return b.String()
}

// StrictSummary is the regeneration prompt used after a validation
// shortfall. It warns the model that its previous output contained
// unsupported claims.
func StrictSummary(content string, topics models.TopicSet, maxPoints int) string {
	var b strings.Builder
	b.WriteString("A previous summary of this material contained claims not supported by the text. ")
	b.WriteString("Produce a new summary containing ONLY statements that appear verbatim or near-verbatim in the material.\n\n")
	b.WriteString(fmt.Sprintf("Produce at most %d key points.\n", maxPoints))
	if !topics.IsEmpty() {
		b.WriteString("Key topics: ")
		b.WriteString(strings.Join(topics.KeyTopics, ", "))
		b.WriteString("\n")
	}
	b.WriteString("\nIf you are not certain a statement is in the material, leave it out. ")
	b.WriteString("Fewer accurate points are better than more speculative ones.\n\n")
	b.WriteString(`Return ONLY a JSON object: {"key_points": ["..."]}` + "\n\n")
	b.WriteString("Material:\n")
	b.WriteString(content)
	return b.String()
}

// ShortSummary is the simplified prompt used for the single retry after a
// generation timeout, paired with shortened content.
func ShortSummary(content string, maxPoints int) string {
	return fmt.Sprintf(
		"List the %d most important facts from this text as a JSON object {\"key_points\": [\"...\"]}.\n\nText:\n%s",
		maxPoints, content)
}

// SummaryValidation asks for a per-point support verdict in one batched call
func SummaryValidation(content string, points []string) string {
	var b strings.Builder
	b.WriteString("Check each summary point below against the source material. ")
	b.WriteString("A point is supported only if the material explicitly states it.\n\n")
	b.WriteString("Summary points:\n")
	for i, p := range points {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, p))
	}
	b.WriteString("\nReturn ONLY a JSON object with this structure:\n")
	b.WriteString(`{"results": [{"point": "...", "supported": true, "reason": "..."}]}` + "\n")
	b.WriteString("Include one result per point, in order.\n\n")
	b.WriteString("Source material:\n")
	b.WriteString(content)
	return b.String()
}

// Questions asks for a batch of quiz questions of one type
func Questions(content string, count int, questionType, difficulty string, topics []string) string {
	var b strings.Builder
	switch questionType {
	case models.QuestionTypeMultipleChoice:
		b.WriteString(fmt.Sprintf("Create %d multiple choice questions from the study material below.\n\n", count))
		b.WriteString("Each question needs exactly 4 options with exactly one correct answer.\n")
		b.WriteString("Return ONLY a JSON object:\n")
		b.WriteString(`{"questions": [{"question": "...", "options": ["...", "...", "...", "..."], "correct_index": 0, "topic": "..."}]}` + "\n\n")
	default:
		b.WriteString(fmt.Sprintf("Create %d short answer questions from the study material below.\n\n", count))
		b.WriteString("Return ONLY a JSON object:\n")
		b.WriteString(`{"questions": [{"question": "...", "correct_answer": "...", "topic": "..."}]}` + "\n\n")
	}
	if difficulty != "" {
		b.WriteString(fmt.Sprintf("Difficulty level: %s\n", difficulty))
	}
	if len(topics) > 0 {
		b.WriteString("Focus on these topics: ")
		b.WriteString(strings.Join(topics, ", "))
		b.WriteString("\n")
	}
	b.WriteString("All questions must be answerable from the material alone.\n\n")
	b.WriteString("Material:\n")
	b.WriteString(content)
	return b.String()
}

// Adversarial asks for intentionally difficult questions probing
// misconceptions and edge cases, optionally shaped by existing exemplars.
func Adversarial(content string, count int, exemplars []*models.Question) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Create %d deliberately tricky multiple choice questions from the study material below.\n\n", count))
	b.WriteString("Each question should target one of these failure modes:\n")
	b.WriteString("- misconception: a commonly believed but wrong idea\n")
	b.WriteString("- edge_case: an unusual condition the material covers\n")
	b.WriteString("- precision: answers differing only in exact detail\n")
	b.WriteString("- ambiguity: wording that rewards careful reading\n\n")
	if len(exemplars) > 0 {
		b.WriteString("Existing questions on this material, for contrast (do not repeat them):\n")
		for i, q := range exemplars {
			b.WriteString(fmt.Sprintf("%d. %s\n", i+1, q.Question))
		}
		b.WriteString("\n")
	}
	b.WriteString("Return ONLY a JSON object:\n")
	b.WriteString(`{"questions": [{"question": "...", "options": ["...", "...", "...", "..."], "correct_index": 0, "topic": "...", "adversarial_type": "misconception"}]}` + "\n\n")
	b.WriteString("Material:\n")
	b.WriteString(content)
	return b.String()
}

// Improvement asks for a rewrite of one underperforming question using a
// digest of the feedback it received
func Improvement(question *models.Question, content, feedbackDigest string) string {
	var b strings.Builder
	b.WriteString("This quiz question scored poorly with users. Rewrite it to be clearer and more useful.\n\n")
	b.WriteString("Current question: ")
	b.WriteString(question.Question)
	b.WriteString("\n")
	if question.Type == models.QuestionTypeMultipleChoice && len(question.Options) > 0 {
		b.WriteString("Options: ")
		b.WriteString(strings.Join(question.Options, " | "))
		b.WriteString(fmt.Sprintf("\nCorrect option index: %d\n", question.CorrectIndex))
	} else if question.CorrectAnswer != "" {
		b.WriteString("Expected answer: ")
		b.WriteString(question.CorrectAnswer)
		b.WriteString("\n")
	}
	b.WriteString("\nUser feedback:\n")
	b.WriteString(feedbackDigest)
	b.WriteString("\n\nReturn ONLY a JSON object with the fields you want to change:\n")
	b.WriteString(`{"question": "...", "topic": "...", "options": ["..."], "correct_index": 0, "correct_answer": "...", "improvement_notes": "what was changed and why"}` + "\n\n")
	b.WriteString("Keep the question answerable from the source material:\n")
	b.WriteString(content)
	return b.String()
}

// Flashcards asks for front/back study cards as JSON
func Flashcards(content string, count int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Create %d flashcards from the study material below.\n\n", count))
	b.WriteString("Each card has a front (a term or question) and a back (the definition or answer). ")
	b.WriteString("Keep both sides short enough to read at a glance.\n\n")
	b.WriteString("Return ONLY a JSON object:\n")
	b.WriteString(`{"flashcards": [{"front": "...", "back": "...", "topic": "..."}]}` + "\n\n")
	b.WriteString("Material:\n")
	b.WriteString(content)
	return b.String()
}
