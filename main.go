package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"cloud.google.com/go/firestore"
	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"smartStudyAPI/handlers"
	"smartStudyAPI/internal/config"
	"smartStudyAPI/internal/firebase"
	"smartStudyAPI/internal/types/voicenote"
	"smartStudyAPI/middleware"
	"smartStudyAPI/services"
)

const apiVersion = "1.0.0"

func main() {
	cfg := config.Load()

	// Firebase failure is deliberately non-fatal: the planner and voice
	// routes still work, and /health reports the gap.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	fb, err := firebase.Init(ctx, cfg)
	cancel()
	if err != nil {
		log.Printf("Warning: Firebase initialization failed: %v", err)
	} else {
		log.Println("Firebase initialized successfully")
	}
	defer fb.Close()

	groqClient := services.NewGroqClient(cfg.GroqAPIKey)
	noteStore := voicenote.NewStore()

	plannerService := services.NewPlannerService(groqClient, cfg.GroqAPIKey)
	voiceService := services.NewVoiceNotesService(groqClient, cfg.GroqAPIKey, noteStore)

	plannerHandler := handlers.NewPlannerHandler(plannerService)
	voiceHandler := handlers.NewVoiceNotesHandler(voiceService, cfg.GroqAPIKey != "")

	var fsClient *firestore.Client
	var verifier middleware.TokenVerifier
	if fb != nil {
		fsClient = fb.Firestore
		verifier = fb.Auth
	}
	buddyHandler := handlers.NewStudyBuddyHandler(services.NewStudyBuddyService(fsClient))

	middleware.InitPrometheus()

	r := mux.NewRouter()
	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	go middleware.CleanupVisitors()

	r.Handle("/metrics", middleware.BasicAuthMiddleware(cfg.MetricsUser, cfg.MetricsPass, promhttp.Handler()))

	r.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, map[string]interface{}{
			"message":     "SmartStudy API is running!",
			"version":     apiVersion,
			"environment": cfg.Environment,
			"endpoints": map[string]string{
				"health":           "/health",
				"planner_generate": "/api/planner/generate",
				"voice_transcribe": "/api/voice/transcribe",
				"voice_health":     "/api/voice/health",
			},
		})
	}).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		firebaseStatus := "initialized"
		if fb == nil {
			firebaseStatus = "not initialized"
		}
		writeJSON(w, map[string]interface{}{
			"status":              "healthy",
			"firebase":            firebaseStatus,
			"groq_api_configured": cfg.GroqAPIKey != "",
			"environment":         cfg.Environment,
			"routes":              []string{"planner", "study_buddy", "voice_notes"},
		})
	}).Methods("GET")

	r.HandleFunc("/test-cors", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, map[string]interface{}{
			"message":      "CORS is working!",
			"cors_enabled": true,
			"test":         "success",
			"environment":  cfg.Environment,
		})
	}).Methods("GET")

	planner := r.PathPrefix("/api/planner").Subrouter()
	planner.HandleFunc("/generate", plannerHandler.GeneratePlan).Methods("POST")

	// Every study-buddy route requires a verified bearer token. With Firebase
	// down the group still mounts; the auth middleware reports the
	// configuration failure instead.
	studyBuddy := r.PathPrefix("/api/study-buddy").Subrouter()
	studyBuddy.Use(middleware.FirebaseAuthMiddleware(verifier))
	studyBuddy.HandleFunc("/available", buddyHandler.GetAvailable).Methods("GET")
	studyBuddy.HandleFunc("/request", buddyHandler.SendRequest).Methods("POST")
	studyBuddy.HandleFunc("/requests", buddyHandler.GetRequests).Methods("GET")
	studyBuddy.HandleFunc("/accept/{requestId}", buddyHandler.AcceptRequest).Methods("POST")
	studyBuddy.HandleFunc("/decline/{requestId}", buddyHandler.DeclineRequest).Methods("POST")
	studyBuddy.HandleFunc("/my-buddies", buddyHandler.GetMyBuddies).Methods("GET")
	studyBuddy.HandleFunc("/preferences", buddyHandler.UpdatePreferences).Methods("POST")

	voice := r.PathPrefix("/api/voice").Subrouter()
	voice.HandleFunc("/transcribe", voiceHandler.Transcribe).Methods("POST")
	voice.HandleFunc("/notes", voiceHandler.GetNotes).Methods("GET")
	voice.HandleFunc("/notes/{noteId}", voiceHandler.DeleteNote).Methods("DELETE")
	voice.HandleFunc("/health", voiceHandler.Health).Methods("GET")

	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(cfg.AllowedOrigins),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorillaHandlers.AllowCredentials(),
	)

	server := http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      corsHandler(r),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
