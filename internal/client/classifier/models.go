package classifier

// chatMessage is one entry of the completion prompt.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// responseFormat requests a structured JSON-object completion.
type responseFormat struct {
	Type string `json:"type"`
}

// chatRequest is the completion API request body. Model and token limit are
// fixed configuration, not runtime-negotiable.
type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	MaxTokens      int            `json:"max_tokens"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

// chatResponse is the completion API response envelope.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Request carries the ticket fields submitted for classification.
type Request struct {
	Title       string
	Description string
	Category    string
	Subcategory string
	StudioID    string
}
