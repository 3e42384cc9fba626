package parser

type span struct {
	start int
	end   int
}

// inlineSpans finds brace-balanced objects that mention a marker key in one
// pass. Nested objects are kept inside their parent fragment, and braces that
// never close are skipped. Braces inside JSON strings are ignored.
func inlineSpans(text string) []span {
	var (
		open     []int
		closed   []span
		inString bool
		escaped  bool
	)

	for i := 0; i < len(text); i++ {
		c := text[i]
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
			// Quotes only matter inside an object; prose may hold stray ones
			inString = len(open) > 0
		case '{':
			open = append(open, i)
		case '}':
			if len(open) == 0 {
				continue
			}
			start := open[len(open)-1]
			open = open[:len(open)-1]

			// An object closing here contains every object closed since it
			// opened, so only the outermost one survives
			for len(closed) > 0 && closed[len(closed)-1].start > start {
				closed = closed[:len(closed)-1]
			}
			closed = append(closed, span{start: start, end: i + 1})
		}
	}

	var spans []span
	for _, sp := range closed {
		if markerRegex.MatchString(text[sp.start:sp.end]) {
			spans = append(spans, sp)
		}
	}
	return spans
}
