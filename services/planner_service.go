package services

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"smartStudyAPI/internal/apperr"
)

const plannerPromptTemplate = `
Create a simple 7-day study plan.
Subjects: %s

Give day-wise plan in bullet points.
`

type PlannerService struct {
	ai     aiClient
	apiKey string
}

func NewPlannerService(ai aiClient, apiKey string) *PlannerService {
	return &PlannerService{ai: ai, apiKey: apiKey}
}

// GeneratePlan asks the model for a 7-day plan over the given subjects and
// returns the generated text verbatim. An empty subject list is not rejected;
// it just produces a degenerate prompt.
func (s *PlannerService) GeneratePlan(ctx context.Context, subjects []string) (string, error) {
	if s.apiKey == "" {
		return "", apperr.New(apperr.KindConfig, "GROQ_API_KEY not found")
	}

	prompt := fmt.Sprintf(plannerPromptTemplate, strings.Join(subjects, ", "))

	resp, err := s.ai.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.6,
		MaxTokens:   400,
	})
	if err != nil {
		return "", apperr.Wrap(apperr.KindUpstream, "plan generation failed", err)
	}

	if len(resp.Choices) == 0 {
		return "", apperr.New(apperr.KindUpstream, "model returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
