package generation

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type webSearchOptions struct {
	Enable         bool `json:"enable"`
	EnableCitation bool `json:"enable_citation"`
	EnableTrace    bool `json:"enable_trace"`
}

type requestPayload struct {
	Model     string           `json:"model"`
	Messages  []Message        `json:"messages"`
	WebSearch webSearchOptions `json:"web_search"`
}
