package firebase

import (
	"context"
	"fmt"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"smartStudyAPI/internal/config"
)

// Clients bundles the Firebase-backed collaborators: the ID token verifier
// and the Firestore document store.
type Clients struct {
	Auth      *auth.Client
	Firestore *firestore.Client
}

// Init builds the Firebase app from the inline FIREBASE_SERVICE_ACCOUNT JSON,
// falling back to the local service account key file. Callers treat a failure
// as non-fatal: the process still serves, and /health reports the gap.
func Init(ctx context.Context, cfg *config.Config) (*Clients, error) {
	var opt option.ClientOption

	if cfg.FirebaseCredentialsJSON != "" {
		opt = option.WithCredentialsJSON([]byte(cfg.FirebaseCredentialsJSON))
		log.Println("Firebase: initializing from FIREBASE_SERVICE_ACCOUNT environment variable")
	} else {
		if _, err := os.Stat(cfg.FirebaseCredentialsFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("firebase credentials not found: set FIREBASE_SERVICE_ACCOUNT or provide %s", cfg.FirebaseCredentialsFile)
		}
		opt = option.WithCredentialsFile(cfg.FirebaseCredentialsFile)
		log.Printf("Firebase: initializing from local file %s", cfg.FirebaseCredentialsFile)
	}

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting auth client: %w", err)
	}

	fsClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firestore client: %w", err)
	}

	return &Clients{Auth: authClient, Firestore: fsClient}, nil
}

// Close releases the Firestore connection. Safe on a nil receiver so main can
// defer it unconditionally.
func (c *Clients) Close() {
	if c == nil || c.Firestore == nil {
		return
	}
	if err := c.Firestore.Close(); err != nil {
		log.Printf("Firebase: error closing firestore client: %v", err)
	}
}
