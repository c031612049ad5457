package generation

import "encoding/json"

// UnparseableAnswer is returned when no extractor recognizes the provider's
// response envelope. The provider has changed its shape before; the query
// path must survive it doing so again.
const UnparseableAnswer = "无法解析API返回结果，请查看日志了解详情。"

// extractor probes one possible reply shape and reports whether it matched.
type extractor struct {
	name string
	fn   func(map[string]any) (string, bool)
}

// Tried strictly in order; the first match wins.
var extractors = []extractor{
	{"result", fromResultField},
	{"response", fromResponseField},
	{"choices", fromChoices},
}

// ExtractAnswer normalizes a chat-completion reply body into plain answer
// text. Never fails: an unrecognized envelope yields the sentinel.
func ExtractAnswer(body []byte) (string, bool) {
	var reply map[string]any
	if err := json.Unmarshal(body, &reply); err != nil {
		return UnparseableAnswer, false
	}
	for _, e := range extractors {
		if answer, ok := e.fn(reply); ok {
			return answer, true
		}
	}
	return UnparseableAnswer, false
}

func fromResultField(reply map[string]any) (string, bool) {
	s, ok := reply["result"].(string)
	return s, ok
}

func fromResponseField(reply map[string]any) (string, bool) {
	s, ok := reply["response"].(string)
	return s, ok
}

func fromChoices(reply map[string]any) (string, bool) {
	choices, ok := reply["choices"].([]any)
	if !ok || len(choices) == 0 {
		return "", false
	}
	choice, ok := choices[0].(map[string]any)
	if !ok {
		return "", false
	}
	message, ok := choice["message"].(map[string]any)
	if !ok {
		return "", false
	}
	content, ok := message["content"].(string)
	return content, ok
}
