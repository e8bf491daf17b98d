package services

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"smartStudyAPI/internal/apperr"
	"smartStudyAPI/internal/types/buddy"
)

const (
	usersCollection    = "users"
	requestsCollection = "buddy_requests"
	buddiesCollection  = "buddies"
)

type StudyBuddyService struct {
	db *firestore.Client
}

func NewStudyBuddyService(db *firestore.Client) *StudyBuddyService {
	return &StudyBuddyService{db: db}
}

// userEntry pairs a user document id with its decoded profile.
type userEntry struct {
	id      string
	profile buddy.Profile
}

// GetAvailableBuddies lists every user except the caller, sorted by match
// score. The score is a simulated random value in [75, 98], recomputed on
// every call.
func (s *StudyBuddyService) GetAvailableBuddies(ctx context.Context, userID string) ([]buddy.Info, error) {
	iter := s.db.Collection(usersCollection).Documents(ctx)
	defer iter.Stop()

	entries := []userEntry{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, apperr.Wrap(apperr.KindUpstream, "failed to list users", err)
		}

		var profile buddy.Profile
		if err := doc.DataTo(&profile); err != nil {
			return nil, apperr.Wrap(apperr.KindUpstream, "malformed user document", err)
		}
		entries = append(entries, userEntry{id: doc.Ref.ID, profile: profile})
	}

	return availableBuddies(entries, userID), nil
}

// availableBuddies shapes the /available listing: the caller is excluded,
// names fall back to the email local part, preference defaults are applied,
// and entries sort descending by their freshly rolled match score.
func availableBuddies(entries []userEntry, callerID string) []buddy.Info {
	available := []buddy.Info{}
	for _, e := range entries {
		if e.id == callerID {
			continue
		}
		e.profile.StudyPreferences.ApplyDefaults()

		available = append(available, buddy.Info{
			ID:           e.id,
			Name:         displayName(e.profile.Name, e.profile.Email),
			Email:        e.profile.Email,
			Subject:      e.profile.StudyPreferences.Subject,
			Level:        e.profile.StudyPreferences.Level,
			Availability: e.profile.StudyPreferences.Availability,
			StudyStyle:   e.profile.StudyPreferences.StudyStyle,
			Online:       e.profile.Online,
			MatchScore:   75 + rand.Intn(24),
		})
	}

	sort.SliceStable(available, func(i, j int) bool {
		return available[i].MatchScore > available[j].MatchScore
	})

	return available
}

// SendRequest creates a pending buddy request from the caller to buddyID and
// returns the new request's document ID.
func (s *StudyBuddyService) SendRequest(ctx context.Context, userID, userEmail string, input buddy.SendRequestInput) (string, error) {
	if input.BuddyID == "" {
		return "", apperr.New(apperr.KindValidation, "Buddy ID required")
	}

	now := time.Now()
	req := buddy.Request{
		FromUserID:    userID,
		FromUserEmail: userEmail,
		ToUserID:      input.BuddyID,
		Message:       input.Message,
		Status:        buddy.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	ref := s.db.Collection(requestsCollection).Doc(uuid.New().String())
	if _, err := ref.Set(ctx, req); err != nil {
		return "", apperr.Wrap(apperr.KindUpstream, "failed to create buddy request", err)
	}

	return ref.ID, nil
}

// GetPendingRequests lists pending requests addressed to the caller, each
// enriched with the sender's profile. A missing sender document is tolerated
// and defaults are applied.
func (s *StudyBuddyService) GetPendingRequests(ctx context.Context, userID string) ([]buddy.PendingRequest, error) {
	iter := s.db.Collection(requestsCollection).
		Where("toUserId", "==", userID).
		Where("status", "==", buddy.StatusPending).
		Documents(ctx)
	defer iter.Stop()

	pending := []buddy.PendingRequest{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, apperr.Wrap(apperr.KindUpstream, "failed to list buddy requests", err)
		}

		var req buddy.Request
		if err := doc.DataTo(&req); err != nil {
			return nil, apperr.Wrap(apperr.KindUpstream, "malformed buddy request document", err)
		}

		sender, err := s.getProfile(ctx, req.FromUserID)
		if err != nil {
			return nil, err
		}

		pending = append(pending, pendingRequestFrom(doc.Ref.ID, req, sender))
	}

	return pending, nil
}

// pendingRequestFrom enriches a request with its sender's profile, falling
// back to the sender email's local part and the preference defaults.
func pendingRequestFrom(id string, req buddy.Request, sender buddy.Profile) buddy.PendingRequest {
	sender.StudyPreferences.ApplyDefaults()

	name := sender.Name
	if name == "" {
		name = localPart(req.FromUserEmail)
	}

	return buddy.PendingRequest{
		ID:            id,
		FromUserID:    req.FromUserID,
		FromUserName:  name,
		FromUserEmail: req.FromUserEmail,
		Message:       req.Message,
		CreatedAt:     req.CreatedAt,
		Subject:       sender.StudyPreferences.Subject,
	}
}

// resolveTransition decides whether userID may move req into the target
// status. apply=false with a nil error means the request is already in the
// target state and the call is an idempotent no-op. The status machine is
// one-way: only a pending request may transition.
func resolveTransition(req buddy.Request, userID, target string) (bool, error) {
	if req.ToUserID != userID {
		return false, apperr.New(apperr.KindForbidden, "Unauthorized")
	}

	switch req.Status {
	case target:
		return false, nil
	case buddy.StatusPending:
		return true, nil
	case buddy.StatusAccepted:
		return false, apperr.New(apperr.KindConflict, "Request already accepted")
	case buddy.StatusDeclined:
		return false, apperr.New(apperr.KindConflict, "Request already declined")
	default:
		return false, apperr.New(apperr.KindUpstream, fmt.Sprintf("unexpected request status %q", req.Status))
	}
}

// AcceptRequest marks the request accepted and writes the mirrored connection
// documents under both participants, all in one transaction so a crash cannot
// leave an asymmetric edge. Re-accepting an already-accepted request succeeds
// idempotently; accepting a declined one is a conflict.
func (s *StudyBuddyService) AcceptRequest(ctx context.Context, userID, requestID string) error {
	reqRef := s.db.Collection(requestsCollection).Doc(requestID)

	return s.db.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		req, err := s.getRequestTx(tx, reqRef)
		if err != nil {
			return err
		}

		apply, err := resolveTransition(req, userID, buddy.StatusAccepted)
		if err != nil {
			return err
		}
		if !apply {
			return nil
		}

		now := time.Now()
		if err := tx.Update(reqRef, []firestore.Update{
			{Path: "status", Value: buddy.StatusAccepted},
			{Path: "updatedAt", Value: now},
		}); err != nil {
			return apperr.Wrap(apperr.KindUpstream, "failed to update buddy request", err)
		}

		conn := buddy.Connection{CreatedAt: now, LastInteraction: now}
		mine := s.db.Collection(usersCollection).Doc(userID).Collection(buddiesCollection).Doc(req.FromUserID)
		theirs := s.db.Collection(usersCollection).Doc(req.FromUserID).Collection(buddiesCollection).Doc(userID)

		if err := tx.Set(mine, conn); err != nil {
			return apperr.Wrap(apperr.KindUpstream, "failed to create buddy connection", err)
		}
		if err := tx.Set(theirs, conn); err != nil {
			return apperr.Wrap(apperr.KindUpstream, "failed to create buddy connection", err)
		}

		return nil
	})
}

// DeclineRequest marks the request declined, in a transaction so a decline
// racing an accept cannot read pending and then overwrite the accepted
// status. Declining twice is idempotent; declining an accepted request is a
// conflict.
func (s *StudyBuddyService) DeclineRequest(ctx context.Context, userID, requestID string) error {
	reqRef := s.db.Collection(requestsCollection).Doc(requestID)

	return s.db.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		req, err := s.getRequestTx(tx, reqRef)
		if err != nil {
			return err
		}

		apply, err := resolveTransition(req, userID, buddy.StatusDeclined)
		if err != nil {
			return err
		}
		if !apply {
			return nil
		}

		if err := tx.Update(reqRef, []firestore.Update{
			{Path: "status", Value: buddy.StatusDeclined},
			{Path: "updatedAt", Value: time.Now()},
		}); err != nil {
			return apperr.Wrap(apperr.KindUpstream, "failed to update buddy request", err)
		}

		return nil
	})
}

// getRequestTx loads and decodes a buddy request inside a transaction.
func (s *StudyBuddyService) getRequestTx(tx *firestore.Transaction, ref *firestore.DocumentRef) (buddy.Request, error) {
	doc, err := tx.Get(ref)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return buddy.Request{}, apperr.New(apperr.KindNotFound, "Request not found")
		}
		return buddy.Request{}, apperr.Wrap(apperr.KindUpstream, "failed to load buddy request", err)
	}

	var req buddy.Request
	if err := doc.DataTo(&req); err != nil {
		return buddy.Request{}, apperr.Wrap(apperr.KindUpstream, "malformed buddy request document", err)
	}
	return req, nil
}

// GetMyBuddies lists the caller's connections, each enriched with the buddy's
// profile. Missing profile documents are tolerated with defaults.
func (s *StudyBuddyService) GetMyBuddies(ctx context.Context, userID string) ([]buddy.MyBuddy, error) {
	iter := s.db.Collection(usersCollection).Doc(userID).Collection(buddiesCollection).Documents(ctx)
	defer iter.Stop()

	buddies := []buddy.MyBuddy{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, apperr.Wrap(apperr.KindUpstream, "failed to list buddies", err)
		}

		var conn buddy.Connection
		if err := doc.DataTo(&conn); err != nil {
			return nil, apperr.Wrap(apperr.KindUpstream, "malformed buddy connection document", err)
		}

		profile, err := s.getProfile(ctx, doc.Ref.ID)
		if err != nil {
			return nil, err
		}

		buddies = append(buddies, myBuddyFrom(doc.Ref.ID, conn, profile))
	}

	return buddies, nil
}

// myBuddyFrom enriches a connection with the buddy's profile, applying the
// usual name and preference defaults.
func myBuddyFrom(id string, conn buddy.Connection, profile buddy.Profile) buddy.MyBuddy {
	profile.StudyPreferences.ApplyDefaults()

	return buddy.MyBuddy{
		ID:              id,
		Name:            displayName(profile.Name, profile.Email),
		Email:           profile.Email,
		Subject:         profile.StudyPreferences.Subject,
		Online:          profile.Online,
		LastInteraction: conn.LastInteraction,
		ConnectedSince:  conn.CreatedAt,
	}
}

// UpdatePreferences overwrites the caller's studyPreferences sub-document
// wholesale and bumps updatedAt. Empty fields get the profile defaults.
func (s *StudyBuddyService) UpdatePreferences(ctx context.Context, userID string, prefs buddy.StudyPreferences) (buddy.StudyPreferences, error) {
	prefs.ApplyDefaults()

	_, err := s.db.Collection(usersCollection).Doc(userID).Update(ctx, []firestore.Update{
		{Path: "studyPreferences", Value: prefs},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		return buddy.StudyPreferences{}, apperr.Wrap(apperr.KindUpstream, "failed to update preferences", err)
	}

	return prefs, nil
}

// getProfile loads a user document, returning an empty profile when it does
// not exist.
func (s *StudyBuddyService) getProfile(ctx context.Context, userID string) (buddy.Profile, error) {
	doc, err := s.db.Collection(usersCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return buddy.Profile{}, nil
		}
		return buddy.Profile{}, apperr.Wrap(apperr.KindUpstream, fmt.Sprintf("failed to load user %s", userID), err)
	}

	var profile buddy.Profile
	if err := doc.DataTo(&profile); err != nil {
		return buddy.Profile{}, apperr.Wrap(apperr.KindUpstream, "malformed user document", err)
	}
	return profile, nil
}

// displayName falls back to the email's local part when the profile has no
// name.
func displayName(name, email string) string {
	if name != "" {
		return name
	}
	return localPart(email)
}

func localPart(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}
