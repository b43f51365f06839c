package extract

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecords_WellFormedArray(t *testing.T) {
	input := `[{"id":"a","n":1},{"id":"b","n":2},{"id":"c","tags":["x","y"]}]`

	want := []Record{
		{"id": "a", "n": float64(1)},
		{"id": "b", "n": float64(2)},
		{"id": "c", "tags": []any{"x", "y"}},
	}
	if diff := cmp.Diff(want, Records(input)); diff != "" {
		t.Errorf("Records mismatch (-want +got):\n%s", diff)
	}
}

func TestRecords_SingleObject(t *testing.T) {
	got := Records(`{"id":"solo","score":0.9}`)
	require.Len(t, got, 1)
	assert.Equal(t, "solo", got[0]["id"])
}

func TestRecords_TruncatedArray(t *testing.T) {
	got := Records(`[{"id":"a"},{"id":"b"},{"id":"c`)

	want := []Record{{"id": "a"}, {"id": "b"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Records mismatch (-want +got):\n%s", diff)
	}
}

func TestRecords_Fenced(t *testing.T) {
	plain := `[{"id":"a"},{"id":"b"}]`

	tests := []struct {
		name  string
		input string
	}{
		{"json tag", "```json\n" + plain + "\n```"},
		{"no tag", "```\n" + plain + "\n```"},
		{"surrounding whitespace", "\n\n  ```json\n" + plain + "\n```  \n"},
		{"tag on same line", "```json" + plain + "```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(Records(plain), Records(tt.input)); diff != "" {
				t.Errorf("fenced records differ (-plain +fenced):\n%s", diff)
			}
		})
	}
}

func TestRecords_FencedAndTruncated(t *testing.T) {
	input := "```json\n[\n  {\"id\": \"a\", \"mood\": \"quiet\"},\n  {\"id\": \"b\", \"mood\": \"lou"

	got := Records(input)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0]["id"])
}

func TestRecords_Salvage(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ids   []string
	}{
		{
			name:  "prose around payload",
			input: `Here are the matches: [{"id":"a"},{"id":"b"}] Hope that helps!`,
			ids:   []string{"a", "b"},
		},
		{
			name:  "braces inside strings",
			input: `[{"id":"a","quote":"a } brace { here"},{"id":"b","quote":"cut {`,
			ids:   []string{"a"},
		},
		{
			name:  "escaped quotes inside strings",
			input: `[{"id":"a","quote":"she said \"}\" twice"},{"id":"b"},{"id":`,
			ids:   []string{"a", "b"},
		},
		{
			name:  "nested objects",
			input: `[{"id":"a","meta":{"depth":{"n":2}}},{"id":"b","meta":{`,
			ids:   []string{"a"},
		},
		{
			name:  "invalid object is skipped",
			input: `[{"id":"a"},{id: b},{"id":"c"}`,
			ids:   []string{"a", "c"},
		},
		{
			name:  "stray closing braces",
			input: `}} oops {"id":"a"}`,
			ids:   []string{"a"},
		},
		{
			name:  "brace inside a top-level string",
			input: `["{", {"id":"a"}, {"id":"b`,
			ids:   []string{"a"},
		},
		{
			name:  "braces inside top-level strings around objects",
			input: `["}{", {"id":"a"}, "{\"x", {"id":"b"}, {"id":"c`,
			ids:   []string{"a", "b"},
		},
		{
			name:  "unbalanced quote in prose",
			input: `The model's "answer: [{"id":"a"}`,
			ids:   []string{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Records(tt.input)
			var ids []string
			for _, rec := range got {
				ids = append(ids, rec["id"].(string))
			}
			assert.Equal(t, tt.ids, ids)
		})
	}
}

func TestRecords_NeverFails(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"```",
		"```json\n```",
		"not json at all",
		"42",
		`"a string with {braces}"`,
		"[1, 2, 3]",
		"{{{{",
		"}}}}",
		`{"unterminated": "string`,
		"null",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Empty(t, Records(input))
			})
		})
	}
}

func TestRecords_ArrayWithScalars(t *testing.T) {
	got := Records(`[1, {"id":"a"}, "x", null, {"id":"b"}]`)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[1]["id"])
}

func TestRecords_EveryPrefix(t *testing.T) {
	full := `[{"id":"a","note":"x"},{"id":"b","note":"y"},{"id":"c","note":"z"}]`

	for n := 0; n <= len(full); n++ {
		prefix := full[:n]
		complete := strings.Count(prefix, "}")

		got := Records(prefix)
		if len(got) != complete {
			t.Fatalf("prefix %q: got %d records, want %d", prefix, len(got), complete)
		}
	}
}

func TestParse_ReportsSalvage(t *testing.T) {
	input := `[{"id":"a"},{"id":"b"},{"id":"c`

	res := Parse(input)
	assert.True(t, res.Salvaged)
	assert.Equal(t, 0, res.Discarded)
	assert.Equal(t, strings.LastIndex(input, "{"), res.TruncatedAt)
	assert.Len(t, res.Records, 2)
}

func TestParse_WholeDocument(t *testing.T) {
	res := Parse(`[{"id":"a"}]`)
	assert.False(t, res.Salvaged)
	assert.Equal(t, -1, res.TruncatedAt)
}

func TestParse_CountsDiscarded(t *testing.T) {
	res := Parse(`{"a":1} {bad} {"b":2} {also: bad}`)
	assert.True(t, res.Salvaged)
	assert.Equal(t, 2, res.Discarded)
	assert.Len(t, res.Records, 2)
}

func TestStripFence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"```json\n[1]\n```", "[1]"},
		{"```\n{}\n```", "{}"},
		{"```json\n[{\"a\":", "[{\"a\":"},
		{"[1]", "[1]"},
		{"  [1]  ", "[1]"},
		{"```geo-json\n[]\n```", "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFence(tt.input))
		})
	}
}

func TestDecode(t *testing.T) {
	type location struct {
		ID        string `json:"id"`
		Relevance int    `json:"relevance"`
	}

	input := `[{"id":"a","relevance":9},{"id":"b","relevance":"high"},{"id":"c","relevance":4},{"id":"d","rel`

	got := Decode[location](input)
	want := []location{{ID: "a", Relevance: 9}, {ID: "c", Relevance: 4}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Decode mismatch (-want +got):\n%s", diff)
	}
}
