package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"smartStudyAPI/internal/apperr"
	"smartStudyAPI/internal/types/voicenote"
)

const summarySystemPrompt = "You are a helpful study assistant. Extract key points and create a concise summary. Always respond in valid JSON format."

const summaryUserPromptTemplate = `Analyze this lecture/study note transcript and provide:
1. A brief summary (2-3 sentences)
2. 5-7 key points (bullet points)

Transcript: %s

Respond ONLY in this JSON format (no markdown, no code blocks):
{
  "summary": "...",
  "key_points": ["point1", "point2", "point3", "point4", "point5"]
}`

type VoiceNotesService struct {
	ai     aiClient
	apiKey string
	store  *voicenote.Store
	now    func() time.Time
}

func NewVoiceNotesService(ai aiClient, apiKey string, store *voicenote.Store) *VoiceNotesService {
	return &VoiceNotesService{
		ai:     ai,
		apiKey: apiKey,
		store:  store,
		now:    time.Now,
	}
}

// ClientInitialized reports whether the provider client exists, for /health.
func (s *VoiceNotesService) ClientInitialized() bool {
	return s.ai != nil && s.apiKey != ""
}

// NoteCount returns the number of stored notes, for /health.
func (s *VoiceNotesService) NoteCount() int {
	return s.store.Count()
}

// Notes returns every stored note in insertion order.
func (s *VoiceNotesService) Notes() []voicenote.VoiceNote {
	return s.store.List()
}

// DeleteNote removes a note by id, reporting whether it existed.
func (s *VoiceNotesService) DeleteNote(id string) bool {
	return s.store.Delete(id)
}

// Transcribe runs the full pipeline: temp file, Whisper transcription, model
// summarization, JSON parse, store. Summarization and parsing failures are
// non-fatal and fall back to canned content; transcription success is what
// matters.
func (s *VoiceNotesService) Transcribe(ctx context.Context, filename, contentType string, audio []byte) (*voicenote.VoiceNote, error) {
	if s.apiKey == "" {
		return nil, apperr.New(apperr.KindConfig, "GROQ_API_KEY not configured. Add it to your .env file.")
	}
	if len(audio) == 0 {
		return nil, apperr.New(apperr.KindValidation, "Audio file is empty")
	}

	ext := audioExtension(contentType)

	tmp, err := os.CreateTemp("", "voice-*"+ext)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, "failed to create temp file", err)
	}
	tmpPath := tmp.Name()
	// Remove on every exit path, not just success.
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(audio); err != nil {
		tmp.Close()
		return nil, apperr.Wrap(apperr.KindUpstream, "failed to write temp file", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, apperr.Wrap(apperr.KindUpstream, "failed to write temp file", err)
	}

	if filename == "" {
		filename = "recording" + ext
	}

	log.Printf("VoiceNotes: transcribing %s (%d bytes, %s)", filename, len(audio), contentType)

	transcription, err := s.ai.CreateTranscription(ctx, openai.AudioRequest{
		Model:    transcriptionModel,
		FilePath: tmpPath,
		Format:   openai.AudioResponseFormatJSON,
		Language: "en",
	})
	if err != nil {
		return nil, apperr.New(apperr.KindUpstream,
			fmt.Sprintf("Transcription failed: %v. Check your GROQ_API_KEY and audio format.", err))
	}

	transcript := transcription.Text
	if strings.TrimSpace(transcript) == "" {
		return nil, apperr.New(apperr.KindValidation,
			"Transcription resulted in empty text. Please speak louder or check your microphone.")
	}

	summary, keyPoints := s.summarize(ctx, transcript)

	now := s.now()
	note := voicenote.VoiceNote{
		ID:         fmt.Sprintf("note_%d", now.UnixMilli()),
		Title:      "Voice Note - " + now.Format("Jan 02, 2006 03:04 PM"),
		Transcript: transcript,
		Summary:    summary,
		KeyPoints:  keyPoints,
		CreatedAt:  now.Format(time.RFC3339),
	}

	s.store.Append(note)
	log.Printf("VoiceNotes: saved %s", note.ID)

	return &note, nil
}

type summaryPayload struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
}

// summarize asks the model for a summary and key points. Provider failures
// and unparseable responses each substitute their own fallback content; this
// stage never fails the request.
func (s *VoiceNotesService) summarize(ctx context.Context, transcript string) (string, []string) {
	aiResponse := ""

	resp, err := s.ai.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(summaryUserPromptTemplate, transcript)},
		},
		Temperature: 0.5,
		MaxTokens:   500,
	})
	if err != nil || len(resp.Choices) == 0 {
		if err != nil {
			log.Printf("VoiceNotes: summary generation failed: %v", err)
		} else {
			log.Print("VoiceNotes: summary generation returned no choices")
		}
		fallback, _ := json.Marshal(summaryPayload{
			Summary: "Transcription completed successfully. AI summary generation encountered an issue.",
			KeyPoints: []string{
				fmt.Sprintf("Transcript generated with %d characters", len(transcript)),
				"Audio processing completed successfully",
			},
		})
		aiResponse = string(fallback)
	} else {
		aiResponse = resp.Choices[0].Message.Content
	}

	var parsed summaryPayload
	if err := json.Unmarshal([]byte(stripCodeFences(aiResponse)), &parsed); err != nil {
		log.Printf("VoiceNotes: JSON parsing failed: %v", err)
		return "Processing completed successfully", []string{
			"Audio transcribed successfully",
			fmt.Sprintf("Transcript length: %d characters", len(transcript)),
			"AI analysis completed",
		}
	}

	summary := parsed.Summary
	if summary == "" {
		summary = "Summary generated successfully"
	}
	keyPoints := parsed.KeyPoints
	if len(keyPoints) == 0 {
		keyPoints = []string{
			"Transcript generated successfully",
			fmt.Sprintf("Total length: %d characters", len(transcript)),
		}
	}

	return summary, keyPoints
}

// stripCodeFences removes an optional surrounding markdown code block from a
// model response.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// audioExtension infers a file extension from the declared MIME type,
// defaulting to the browser recorder's webm container.
func audioExtension(contentType string) string {
	switch {
	case strings.Contains(contentType, "mp4"):
		return ".mp4"
	case strings.Contains(contentType, "ogg"):
		return ".ogg"
	case strings.Contains(contentType, "wav"):
		return ".wav"
	default:
		return ".webm"
	}
}
