package llm

import (
	"encoding/json"
	"strings"
)

// ParseStructured locates one JSON value inside free-form model output,
// repairs common model mistakes, and parses it. The repair pass is
// best-effort: it strips markdown code fences, // comments, trailing
// commas, and normalizes single-quoted strings. On irreparable input the
// result is (nil, false), never a panic.
func ParseStructured(raw string) (map[string]interface{}, bool) {
	candidate := extractJSON(raw)
	if candidate == "" {
		return nil, false
	}

	var out map[string]interface{}
	if err := json.Unmarshal([]byte(candidate), &out); err == nil {
		return out, true
	}

	repaired := repairJSON(candidate)
	if err := json.Unmarshal([]byte(repaired), &out); err == nil {
		return out, true
	}
	return nil, false
}

// extractJSON returns the first balanced JSON object or array in the text
func extractJSON(raw string) string {
	s := stripCodeFences(raw)

	start := -1
	var open, close byte
	for i := 0; i < len(s); i++ {
		if s[i] == '{' || s[i] == '[' {
			start = i
			open = s[i]
			if open == '{' {
				close = '}'
			} else {
				close = ']'
			}
			break
		}
	}
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
			// skip structural characters inside strings
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	// Unbalanced: return from start to end and let repair try its luck
	return s[start:]
}

func stripCodeFences(s string) string {
	if !strings.Contains(s, "```") {
		return s
	}
	// Keep the content of the first fenced block if one exists
	first := strings.Index(s, "```")
	rest := s[first+3:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		// Drop a language tag like ```json
		tag := strings.TrimSpace(rest[:nl])
		if len(tag) <= 10 && !strings.ContainsAny(tag, "{}[]") {
			rest = rest[nl+1:]
		}
	}
	if end := strings.Index(rest, "```"); end >= 0 {
		return rest[:end]
	}
	return rest
}

// repairJSON fixes the mistakes local models make most often
func repairJSON(s string) string {
	s = stripLineComments(s)
	s = normalizeQuotes(s)
	s = stripTrailingCommas(s)
	return s
}

// stripLineComments removes // comments outside of string literals
func stripLineComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			b.WriteByte(c)
			escaped = false
			continue
		}
		if inString && c == '\\' {
			b.WriteByte(c)
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			b.WriteByte(c)
			continue
		}
		if !inString && c == '/' && i+1 < len(s) && s[i+1] == '/' {
			// Skip to end of line
			for i < len(s) && s[i] != '\n' {
				i++
			}
			if i < len(s) {
				b.WriteByte('\n')
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// normalizeQuotes converts single-quoted strings to double-quoted ones
func normalizeQuotes(s string) string {
	if !strings.ContainsRune(s, '\'') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inDouble := false
	inSingle := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			b.WriteByte(c)
			escaped = false
			continue
		}
		if (inDouble || inSingle) && c == '\\' {
			b.WriteByte(c)
			escaped = true
			continue
		}
		switch {
		case c == '"' && !inSingle:
			inDouble = !inDouble
			b.WriteByte(c)
		case c == '\'' && !inDouble:
			inSingle = !inSingle
			b.WriteByte('"')
		case c == '"' && inSingle:
			// Escape embedded double quotes when rewriting a single-quoted string
			b.WriteString(`\"`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// stripTrailingCommas removes commas that directly precede a closing brace or bracket
func stripTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			b.WriteByte(c)
			escaped = false
			continue
		}
		if inString && c == '\\' {
			b.WriteByte(c)
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			b.WriteByte(c)
			continue
		}
		if !inString && c == ',' {
			j := i + 1
			for j < len(s) && (s[j] == ' ' || s[j] == '\t' || s[j] == '\n' || s[j] == '\r') {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}
