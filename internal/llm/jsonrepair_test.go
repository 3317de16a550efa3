package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStructured(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantOK  bool
		wantKey string
		wantVal interface{}
	}{
		{
			name:    "clean object",
			input:   `{"summary": "short"}`,
			wantOK:  true,
			wantKey: "summary",
			wantVal: "short",
		},
		{
			name:    "object embedded in prose",
			input:   "Sure! Here is the result:\n{\"topic\": \"biology\"}\nHope that helps.",
			wantOK:  true,
			wantKey: "topic",
			wantVal: "biology",
		},
		{
			name:    "markdown code fence with language tag",
			input:   "```json\n{\"count\": 3}\n```",
			wantOK:  true,
			wantKey: "count",
			wantVal: float64(3),
		},
		{
			name:    "trailing comma",
			input:   `{"points": ["a", "b",],}`,
			wantOK:  true,
			wantKey: "points",
			wantVal: []interface{}{"a", "b"},
		},
		{
			name:    "line comments",
			input:   "{\n  // the extracted topic\n  \"topic\": \"physics\"\n}",
			wantOK:  true,
			wantKey: "topic",
			wantVal: "physics",
		},
		{
			name:    "single quoted strings",
			input:   `{'question': 'What is osmosis?'}`,
			wantOK:  true,
			wantKey: "question",
			wantVal: "What is osmosis?",
		},
		{
			name:   "no json at all",
			input:  "I could not produce a structured answer.",
			wantOK: false,
		},
		{
			name:   "empty input",
			input:  "",
			wantOK: false,
		},
		{
			name:   "hopelessly malformed",
			input:  `{"a": }{{`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseStructured(tt.input)
			if !tt.wantOK {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.wantVal, got[tt.wantKey])
		})
	}
}

func TestParseStructuredPreservesStringContent(t *testing.T) {
	// Braces and slashes inside string values must not confuse extraction
	got, ok := ParseStructured(`{"reason": "see {section 2} // appendix"}`)
	require.True(t, ok)
	assert.Equal(t, "see {section 2} // appendix", got["reason"])
}

func TestParseStructuredSingleQuoteWithEmbeddedDouble(t *testing.T) {
	got, ok := ParseStructured(`{'note': 'he said "yes"'}`)
	require.True(t, ok)
	assert.Equal(t, `he said "yes"`, got["note"])
}
