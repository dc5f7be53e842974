package models

import "time"

// Chat roles understood by the chat model providers.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatTurn is a single message in a conversation, ordered chronologically
// by position in its slice.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the /chat request body. History is the caller-held
// conversation; the server only ever sees the window it is sent.
type ChatRequest struct {
	Message string     `json:"message" binding:"required"`
	History []ChatTurn `json:"history"`
}

// ChatResponse carries the model answer and the citations for the context
// chunks that grounded it.
type ChatResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// ChatResult is the retrieval pipeline outcome before HTTP translation.
type ChatResult struct {
	Answer    string
	Sources   []string
	Retrieved int
	Latency   time.Duration
}
