// Package extract recovers JSON records from generated text.
//
// Text generators are asked for a JSON array of records but routinely wrap
// it in a markdown fence or stop mid-object when they hit their output limit.
// Records returns every complete object it can find and never fails: the
// worst case is an empty result.
//
// Example usage:
//
//	raw := gen.Generate(ctx, systemPrompt, userMsg, 4096)
//	for _, rec := range extract.Records(raw) {
//		fmt.Println(rec["id"])
//	}
package extract

import (
	"encoding/json"
	"strings"
	"unicode"
)

// Record is one decoded JSON object.
type Record map[string]any

// Result describes how a text was decoded.
type Result struct {
	// Records holds the decoded objects in source order.
	Records []Record
	// Salvaged is true when the text did not parse as a whole and the
	// records were recovered by scanning for complete objects.
	Salvaged bool
	// Discarded counts balanced spans that failed to parse.
	Discarded int
	// TruncatedAt is the offset (in the unfenced text) of an object that was
	// opened but never closed, or -1.
	TruncatedAt int
}

// span is a record tagged with its offset in the unfenced text.
type span struct {
	offset int
	record Record
}

// Records returns the maximal set of JSON objects contained in text.
func Records(text string) []Record {
	return Parse(text).Records
}

// Parse decodes text and reports how the records were obtained.
func Parse(text string) Result {
	cleaned := StripFence(text)
	if cleaned == "" {
		return Result{TruncatedAt: -1}
	}

	if records, ok := parseWhole(cleaned); ok {
		return Result{Records: records, TruncatedAt: -1}
	}

	spans, discarded, pending := scan(cleaned, strings.HasPrefix(cleaned, "["))
	res := Result{
		Salvaged:    true,
		Discarded:   discarded,
		TruncatedAt: pending,
	}
	for _, s := range spans {
		res.Records = append(res.Records, s.record)
	}
	return res
}

// Decode maps every record in text onto T, dropping records that do not fit.
func Decode[T any](text string) []T {
	var out []T
	for _, rec := range Records(text) {
		data, err := json.Marshal(rec)
		if err != nil {
			continue
		}
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// StripFence removes one layer of markdown code fencing. The opening fence
// may carry a language tag; the closing fence is optional so that truncated
// output still loses its opener.
func StripFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = s[len("```"):]
	tag := 0
	for tag < len(s) && isWordByte(s[tag]) {
		tag++
	}
	s = strings.TrimLeftFunc(s[tag:], unicode.IsSpace)

	s = strings.TrimRightFunc(s, unicode.IsSpace)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// parseWhole attempts to decode text as a single JSON value.
func parseWhole(text string) ([]Record, bool) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, false
	}

	switch val := v.(type) {
	case []any:
		var records []Record
		for _, item := range val {
			if obj, ok := item.(map[string]any); ok {
				records = append(records, Record(obj))
			}
		}
		return records, true
	case map[string]any:
		return []Record{Record(val)}, true
	default:
		return nil, false
	}
}

// scan walks text once, tracking object depth outside string literals.
// Each time the depth returns to zero the enclosed span is parsed as one
// object. It returns the decoded spans, the number of balanced spans that
// failed to parse, and the start of an unclosed object (or -1).
//
// Quotes at depth zero open strings only when topLevelStrings is set, that
// is when text is a JSON array whose scalar elements may hold braces.
func scan(text string, topLevelStrings bool) ([]span, int, int) {
	var spans []span
	discarded, depth, start := 0, 0, -1
	inString, escaped := false, false

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
			// Outside an array, prose around the payload may contain
			// unbalanced quotes.
			if depth > 0 || topLevelStrings {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth > 0 {
				continue
			}

			var rec Record
			if err := json.Unmarshal([]byte(text[start:i+1]), &rec); err != nil {
				discarded++
			} else {
				spans = append(spans, span{offset: start, record: rec})
			}
			start = -1
		}
	}

	if depth > 0 {
		return spans, discarded, start
	}
	return spans, discarded, -1
}

func isWordByte(c byte) bool {
	return c == '_' || c == '-' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}
