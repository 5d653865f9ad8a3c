package quiz

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnfence(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: `{"a": 1}`, want: `{"a": 1}`},
		{in: "  \n{\"a\": 1}\n ", want: `{"a": 1}`},
		{in: "```json\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{in: "```\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{in: "```{\"a\": 1}```", want: `{"a": 1}`},
		{in: "```", want: "```"},
		{in: "```json\n{\"a\": 1}", want: "```json\n{\"a\": 1}"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, unfence(tt.in), "input %q", tt.in)
	}
}

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    map[string]string
		wantErr error
	}{
		{
			name: "object",
			raw:  `{"A": "Paris", "b": "London", "c": "Rome", "d": "Berlin"}`,
			want: map[string]string{"a": "Paris", "b": "London", "c": "Rome", "d": "Berlin"},
		},
		{
			name: "list of strings",
			raw:  `["Paris", "London", "Rome", "Berlin"]`,
			want: map[string]string{"a": "Paris", "b": "London", "c": "Rome", "d": "Berlin"},
		},
		{
			name: "list of labeled strings",
			raw:  `["A) Paris", "b. London", "(c) Rome", "D: Berlin"]`,
			want: map[string]string{"a": "Paris", "b": "London", "c": "Rome", "d": "Berlin"},
		},
		{
			name: "prefix of another label is kept",
			raw:  `["B) Paris", "London"]`,
			want: map[string]string{"a": "B) Paris", "b": "London"},
		},
		{
			name: "list of single-key objects",
			raw:  `[{"a": "Paris"}, {"b": "London"}]`,
			want: map[string]string{"a": "Paris", "b": "London"},
		},
		{
			name: "list of label and text objects",
			raw:  `[{"label": "A", "text": "Paris"}, {"label": "B", "text": "London"}]`,
			want: map[string]string{"a": "Paris", "b": "London"},
		},
		{
			name: "non-string values",
			raw:  `[1, 2.5, true]`,
			want: map[string]string{"a": "1", "b": "2.5", "c": "true"},
		},
		{name: "missing", raw: ``, wantErr: ErrMissingField},
		{name: "null", raw: `null`, wantErr: ErrMissingField},
		{name: "empty object", raw: `{}`, wantErr: ErrMissingField},
		{name: "empty list", raw: `[]`, wantErr: ErrMissingField},
		{name: "string", raw: `"a, b, c"`, wantErr: ErrMalformedReply},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseOptions(json.RawMessage(tt.raw))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCorrectAnswer(t *testing.T) {
	opts := map[string]string{"a": "Paris", "b": "London", "c": "Rome", "d": "Berlin"}

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{name: "label", raw: `"b"`, want: "b"},
		{name: "upper label", raw: `" C "`, want: "c"},
		{name: "label with parenthesis", raw: `"D) Berlin"`, want: "d"},
		{name: "label with dot", raw: `"a."`, want: "a"},
		{name: "option text", raw: `"Rome"`, want: "Rome"},
		{name: "unknown label", raw: `"e"`, want: "e"},
		{name: "number", raw: `2`, want: "2"},
		{name: "float", raw: `2.5`, want: "2.5"},
		{name: "missing", raw: ``, wantErr: ErrMissingField},
		{name: "null", raw: `null`, wantErr: ErrMissingField},
		{name: "empty", raw: `""`, wantErr: ErrMissingField},
		{name: "object", raw: `{"label": "a"}`, wantErr: ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCorrectAnswer(json.RawMessage(tt.raw), opts)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAnswer_Explanation(t *testing.T) {
	ans, err := parseAnswer(`{"question": "q?", "options": ["x", "y"], "correct_answer": "B"}`)
	require.NoError(t, err)
	assert.Equal(t, answer{
		Question:      "q?",
		Options:       map[string]string{"a": "x", "b": "y"},
		CorrectAnswer: "b",
	}, ans)

	ans, err = parseAnswer(`{"question": "q?", "options": ["x"], "correct_answer": "a", "explanation": ["one", "two"]}`)
	require.NoError(t, err)
	assert.Equal(t, `["one","two"]`, ans.Explanation)
}
