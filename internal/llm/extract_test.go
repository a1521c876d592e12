package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare object",
			input: `{"day": "Monday"}`,
			want:  `{"day": "Monday"}`,
		},
		{
			name:  "bare array with whitespace",
			input: "\n  [1, 2, 3]\n",
			want:  `[1, 2, 3]`,
		},
		{
			name:  "fenced json block",
			input: "Here is your plan:\n```json\n{\"day\": \"Monday\"}\n```\nEnjoy!",
			want:  `{"day": "Monday"}`,
		},
		{
			name:  "fence without language tag",
			input: "```\n[{\"day\": \"Monday\"}]\n```",
			want:  `[{"day": "Monday"}]`,
		},
		{
			name:  "object embedded in prose",
			input: `Sure! The result is {"goal_type": "weight_loss"} as requested.`,
			want:  `{"goal_type": "weight_loss"}`,
		},
		{
			name:  "array embedded in prose",
			input: `Plan: ["a", "b"] done`,
			want:  `["a", "b"]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.input)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestExtractJSONNoValue(t *testing.T) {
	for _, input := range []string{"", "no json here", "{broken", "{]"} {
		_, err := ExtractJSON(input)
		assert.ErrorIs(t, err, ErrNoJSON, input)
	}
}
