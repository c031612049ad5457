package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractAnswerShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"result_field", `{"result":"政府采购是指..."}`},
		{"response_field", `{"response":"政府采购是指..."}`},
		{"choices_array", `{"choices":[{"message":{"role":"assistant","content":"政府采购是指..."}}]}`},
	}
	for _, cse := range cases {
		t.Run(cse.name, func(t *testing.T) {
			answer, ok := ExtractAnswer([]byte(cse.body))
			assert.True(t, ok)
			assert.Equal(t, "政府采购是指...", answer)
		})
	}
}

func TestExtractAnswerPriority(t *testing.T) {
	// result wins over the other shapes when several are present
	answer, ok := ExtractAnswer([]byte(`{"result":"a","response":"b","choices":[{"message":{"content":"c"}}]}`))
	assert.True(t, ok)
	assert.Equal(t, "a", answer)
}

func TestExtractAnswerUnrecognized(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"unknown_shape", `{"output":"text"}`},
		{"empty_choices", `{"choices":[]}`},
		{"choices_wrong_type", `{"choices":"nope"}`},
		{"message_missing", `{"choices":[{"text":"x"}]}`},
		{"content_not_string", `{"choices":[{"message":{"content":42}}]}`},
		{"result_not_string", `{"result":{"text":"x"}}`},
		{"not_json", `<html>gateway error</html>`},
		{"empty", ``},
	}
	for _, cse := range cases {
		t.Run(cse.name, func(t *testing.T) {
			answer, ok := ExtractAnswer([]byte(cse.body))
			assert.False(t, ok)
			assert.Equal(t, UnparseableAnswer, answer)
		})
	}
}
