package tools

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StripCodeFences removes a surrounding Markdown code fence from text,
// including a language tag on the opening fence. Text without a fence is
// returned trimmed.
func StripCodeFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return trimmed
	}
	// Drop the opening line (```lang) and the closing fence.
	return strings.Join(lines[1:len(lines)-1], "\n")
}

// ParseLines splits text into trimmed, non-empty lines with leading bullet
// markers ("-", "*", "•") and numbering ("1.", "2)") stripped. Useful for
// turning a model's list answer into items.
func ParseLines(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = stripListMarker(line)
		if line != "" {
			items = append(items, line)
		}
	}
	return items
}

func stripListMarker(line string) string {
	for _, marker := range []string{"- ", "* ", "• "} {
		if rest, ok := strings.CutPrefix(line, marker); ok {
			return strings.TrimSpace(rest)
		}
	}
	// Numbered markers: digits followed by '.' or ')'.
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') {
		return strings.TrimSpace(line[i+1:])
	}
	return line
}

// ExtractJSON returns the first well-formed JSON object or array embedded in
// text, ignoring any surrounding prose or code fences.
func ExtractJSON(text string) (string, error) {
	content := StripCodeFences(text)
	for i := 0; i < len(content); i++ {
		if content[i] != '{' && content[i] != '[' {
			continue
		}
		candidate, ok := balancedFrom(content[i:])
		if ok && json.Valid([]byte(candidate)) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no JSON object or array found in text")
}

// balancedFrom scans s, which starts with '{' or '[', and returns the prefix
// up to the matching close bracket, skipping brackets inside strings.
func balancedFrom(s string) (string, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return s[:i+1], true
			}
		}
	}
	return "", false
}
