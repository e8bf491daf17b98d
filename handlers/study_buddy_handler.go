package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"smartStudyAPI/internal/types/buddy"
	"smartStudyAPI/middleware"
)

// BuddyService is the study-buddy operations surface the handler needs.
type BuddyService interface {
	GetAvailableBuddies(ctx context.Context, userID string) ([]buddy.Info, error)
	SendRequest(ctx context.Context, userID, userEmail string, input buddy.SendRequestInput) (string, error)
	GetPendingRequests(ctx context.Context, userID string) ([]buddy.PendingRequest, error)
	AcceptRequest(ctx context.Context, userID, requestID string) error
	DeclineRequest(ctx context.Context, userID, requestID string) error
	GetMyBuddies(ctx context.Context, userID string) ([]buddy.MyBuddy, error)
	UpdatePreferences(ctx context.Context, userID string, prefs buddy.StudyPreferences) (buddy.StudyPreferences, error)
}

type StudyBuddyHandler struct {
	buddyService BuddyService
}

func NewStudyBuddyHandler(buddyService BuddyService) *StudyBuddyHandler {
	return &StudyBuddyHandler{buddyService: buddyService}
}

func (h *StudyBuddyHandler) GetAvailable(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	buddies, err := h.buddyService.GetAvailableBuddies(ctx, userID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"buddies": buddies})
}

func (h *StudyBuddyHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var input buddy.SendRequestInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Printf("SendRequest Handler: failed to decode request body: %v", err)
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	requestID, err := h.buddyService.SendRequest(ctx, userID, middleware.GetUserEmail(ctx), input)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"message":   "Request sent successfully",
		"requestId": requestID,
	})
}

func (h *StudyBuddyHandler) GetRequests(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	requests, err := h.buddyService.GetPendingRequests(ctx, userID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"requests": requests})
}

func (h *StudyBuddyHandler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	requestID := mux.Vars(r)["requestId"]
	if err := h.buddyService.AcceptRequest(ctx, userID, requestID); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Request accepted",
	})
}

func (h *StudyBuddyHandler) DeclineRequest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	requestID := mux.Vars(r)["requestId"]
	if err := h.buddyService.DeclineRequest(ctx, userID, requestID); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Request declined",
	})
}

func (h *StudyBuddyHandler) GetMyBuddies(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	buddies, err := h.buddyService.GetMyBuddies(ctx, userID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"buddies": buddies})
}

func (h *StudyBuddyHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var prefs buddy.StudyPreferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.buddyService.UpdatePreferences(ctx, userID, prefs)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"preferences": updated,
	})
}
