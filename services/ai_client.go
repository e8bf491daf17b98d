package services

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// Groq exposes an OpenAI-compatible API, so the go-openai client pointed at
// the Groq base URL covers both chat completions and Whisper transcription.
const groqBaseURL = "https://api.groq.com/openai/v1"

const (
	chatModel          = "llama-3.3-70b-versatile"
	transcriptionModel = "whisper-large-v3"
)

// aiClient is the slice of *openai.Client the services use. Tests stub it.
type aiClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// NewGroqClient builds the shared Groq client, or nil when no key is set.
// Services treat a nil client as a call-time configuration error.
func NewGroqClient(apiKey string) *openai.Client {
	if apiKey == "" {
		return nil
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = groqBaseURL
	return openai.NewClientWithConfig(cfg)
}
