package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries every deployment input the services need. It is built once
// in main and handed to constructors; nothing reads the environment after Load.
type Config struct {
	Port        string
	Environment string

	GroqAPIKey string

	// FirebaseCredentialsJSON is the inline service account (deployment env var).
	// When empty, FirebaseCredentialsFile is tried instead.
	FirebaseCredentialsJSON string
	FirebaseCredentialsFile string

	AllowedOrigins []string

	MetricsUser string
	MetricsPass string
}

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
}

// Load reads .env (if present) and collects the process configuration.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := &Config{
		Port:                    os.Getenv("PORT"),
		Environment:             os.Getenv("ENVIRONMENT"),
		GroqAPIKey:              os.Getenv("GROQ_API_KEY"),
		FirebaseCredentialsJSON: os.Getenv("FIREBASE_SERVICE_ACCOUNT"),
		FirebaseCredentialsFile: "./serviceAccountKey.json",
		MetricsUser:             os.Getenv("METRICS_USER"),
		MetricsPass:             os.Getenv("METRICS_PASS"),
	}

	if cfg.Port == "" {
		cfg.Port = "8000"
	}
	if cfg.Environment == "" {
		cfg.Environment = "production"
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	} else {
		cfg.AllowedOrigins = defaultOrigins
	}

	// All-origins mode is for local development only.
	if cfg.Environment == "development" {
		cfg.AllowedOrigins = []string{"*"}
		log.Println("DEVELOPMENT MODE: allowing all origins")
	}

	if cfg.GroqAPIKey == "" {
		log.Println("WARNING: GROQ_API_KEY not set, planner and voice features will fail")
	}

	return cfg
}
