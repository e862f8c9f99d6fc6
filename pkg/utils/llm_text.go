package utils

import "strings"

// CleanJSONResponse removes markdown fences and chatter around a JSON
// document in a model answer. Text without any brace or bracket is returned
// trimmed and otherwise unchanged.
func CleanJSONResponse(response string) string {
	// Remove markdown code blocks
	response = strings.ReplaceAll(response, "```json", "")
	response = strings.ReplaceAll(response, "```JSON", "")
	response = strings.ReplaceAll(response, "```", "")

	prefixes := []string{
		"Here's the travel plan:",
		"Here is the travel plan:",
		"Here is the itinerary:",
		"Travel plan:",
		"Itinerary:",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.TrimSpace(response), prefix) {
			response = strings.TrimPrefix(strings.TrimSpace(response), prefix)
			break
		}
	}

	response = strings.TrimSpace(response)

	objStart := strings.Index(response, "{")
	arrStart := strings.Index(response, "[")

	if objStart != -1 && (arrStart == -1 || objStart < arrStart) {
		if objEnd := findMatchingClose(response, objStart, '{', '}'); objEnd != -1 {
			response = response[objStart : objEnd+1]
		}
	} else if arrStart != -1 {
		if arrEnd := findMatchingClose(response, arrStart, '[', ']'); arrEnd != -1 {
			response = response[arrStart : arrEnd+1]
		}
	}

	return strings.TrimSpace(response)
}

// findMatchingClose finds the index closing the bracket opened at start,
// skipping over string literals.
func findMatchingClose(s string, start int, open, closing byte) int {
	if start >= len(s) || s[start] != open {
		return -1
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		char := s[i]

		if escaped {
			escaped = false
			continue
		}
		if char == '\\' && inString {
			escaped = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch char {
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}
