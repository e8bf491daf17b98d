package handlers

import (
	"context"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"smartStudyAPI/internal/types/voicenote"
)

// maxUploadBytes caps recorded audio uploads at 25MB, the provider's own
// file-size limit.
const maxUploadBytes = 25 << 20

// Transcriber is the voice-notes pipeline surface the handler needs.
type Transcriber interface {
	Transcribe(ctx context.Context, filename, contentType string, audio []byte) (*voicenote.VoiceNote, error)
	Notes() []voicenote.VoiceNote
	DeleteNote(id string) bool
	ClientInitialized() bool
	NoteCount() int
}

type VoiceNotesHandler struct {
	voiceService Transcriber
	apiKeySet    bool
}

func NewVoiceNotesHandler(voiceService Transcriber, apiKeySet bool) *VoiceNotesHandler {
	return &VoiceNotesHandler{voiceService: voiceService, apiKeySet: apiKeySet}
}

func (h *VoiceNotesHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	// Two provider round-trips, so this one gets a generous timeout.
	ctx, cancel := context.WithTimeout(r.Context(), 90*time.Second)
	defer cancel()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("audio")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Audio file required")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		log.Printf("Transcribe Handler: failed to read upload: %v", err)
		respondWithError(w, http.StatusBadRequest, "Failed to read audio upload")
		return
	}

	note, err := h.voiceService.Transcribe(ctx, header.Filename, header.Header.Get("Content-Type"), audio)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, note)
}

func (h *VoiceNotesHandler) GetNotes(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"notes": h.voiceService.Notes()})
}

func (h *VoiceNotesHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	noteID := mux.Vars(r)["noteId"]

	if !h.voiceService.DeleteNote(noteID) {
		respondWithError(w, http.StatusNotFound, "Note not found")
		return
	}

	log.Printf("VoiceNotes: deleted %s", noteID)
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Note deleted successfully"})
}

func (h *VoiceNotesHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":                  "healthy",
		"groq_api_configured":     h.apiKeySet,
		"groq_client_initialized": h.voiceService.ClientInitialized(),
		"notes_count":             h.voiceService.NoteCount(),
	})
}
