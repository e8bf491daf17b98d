package services

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartStudyAPI/internal/apperr"
)

type fakeAI struct {
	chatResp openai.ChatCompletionResponse
	chatErr  error
	chatReqs []openai.ChatCompletionRequest

	audioResp openai.AudioResponse
	audioErr  error
	audioReqs []openai.AudioRequest
}

func (f *fakeAI) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.chatReqs = append(f.chatReqs, req)
	return f.chatResp, f.chatErr
}

func (f *fakeAI) CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error) {
	f.audioReqs = append(f.audioReqs, req)
	return f.audioResp, f.audioErr
}

func chatResponse(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func TestGeneratePlan_Success(t *testing.T) {
	ai := &fakeAI{chatResp: chatResponse("Day 1: Math\nDay 2: Physics")}
	svc := NewPlannerService(ai, "test-key")

	plan, err := svc.GeneratePlan(context.Background(), []string{"Math", "Physics"})
	require.NoError(t, err)
	assert.Equal(t, "Day 1: Math\nDay 2: Physics", plan)

	require.Len(t, ai.chatReqs, 1)
	req := ai.chatReqs[0]
	assert.Equal(t, "llama-3.3-70b-versatile", req.Model)
	assert.InDelta(t, 0.6, req.Temperature, 0.001)
	assert.Equal(t, 400, req.MaxTokens)
	require.Len(t, req.Messages, 1)
	assert.Contains(t, req.Messages[0].Content, "Math, Physics")
	assert.Contains(t, req.Messages[0].Content, "7-day study plan")
}

func TestGeneratePlan_MissingAPIKey(t *testing.T) {
	ai := &fakeAI{chatResp: chatResponse("should not be called")}
	svc := NewPlannerService(ai, "")

	_, err := svc.GeneratePlan(context.Background(), []string{"Math"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConfig, apperr.KindOf(err))
	assert.Empty(t, ai.chatReqs, "no provider call should be attempted without a key")
}

func TestGeneratePlan_EmptySubjectsNotRejected(t *testing.T) {
	ai := &fakeAI{chatResp: chatResponse("plan")}
	svc := NewPlannerService(ai, "test-key")

	_, err := svc.GeneratePlan(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, ai.chatReqs, 1)
	assert.Contains(t, ai.chatReqs[0].Messages[0].Content, "Subjects: \n")
}

func TestGeneratePlan_UpstreamError(t *testing.T) {
	ai := &fakeAI{chatErr: errors.New("rate limit exceeded")}
	svc := NewPlannerService(ai, "test-key")

	_, err := svc.GeneratePlan(context.Background(), []string{"Math"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "rate limit exceeded")
}
