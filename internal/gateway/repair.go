package gateway

// repairJSON strips trailing commas before closing braces and brackets.
// The legacy FT endpoint is known to emit bodies like {"a": 1,} which
// encoding/json rejects. The scan is string-aware so commas inside quoted
// values are untouched.
func repairJSON(body []byte) []byte {
	out := make([]byte, 0, len(body))
	inString := false
	escaped := false

	for i := 0; i < len(body); i++ {
		c := body[i]

		if inString {
			out = append(out, c)
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

		if c == '"' {
			inString = true
			out = append(out, c)
			continue
		}

		if c == ',' {
			// Drop the comma if the next non-whitespace byte closes a
			// container.
			j := i + 1
			for j < len(body) && isJSONSpace(body[j]) {
				j++
			}
			if j < len(body) && (body[j] == '}' || body[j] == ']') {
				continue
			}
		}

		out = append(out, c)
	}

	return out
}

func isJSONSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
