package handlers

import (
	"encoding/json"
	"net/http"

	"smartStudyAPI/internal/apperr"
)

// Helper functions
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithAppError maps a tagged service error to its HTTP status. This is
// the single place error kinds become status codes.
func respondWithAppError(w http.ResponseWriter, err error) {
	respondWithError(w, apperr.HTTPStatus(err), err.Error())
}
