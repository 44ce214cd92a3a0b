package model

// TextChunk is one window of a longer text. Start and End are rune offsets
// into the source, End exclusive.
type TextChunk struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// CompletionRequest is what a single completion call receives.
type CompletionRequest struct {
	Instruction string
	Temperature float32
	MaxTokens   int
}

// SubmitRequest is the JSON body of POST /api/forms/:id.
type SubmitRequest struct {
	Credential string            `json:"credential"`
	Fields     map[string]string `json:"fields"`
}

// SubmitResponse is the JSON reply for a successful submission.
type SubmitResponse struct {
	Form   string `json:"form"`
	Output string `json:"output"`
	Chunks int    `json:"chunks,omitempty"`
}

// ModelsRequest is the JSON body of POST /api/models.
type ModelsRequest struct {
	Credential string `json:"credential"`
}

// ErrorResponse is the JSON reply for any failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
