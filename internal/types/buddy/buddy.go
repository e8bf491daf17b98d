package buddy

import "time"

// Request status values. A request only ever moves pending -> accepted or
// pending -> declined; it is never reversed or deleted.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusDeclined = "declined"
)

// StudyPreferences is the sub-document stored under a user profile. Updates
// overwrite it wholesale.
type StudyPreferences struct {
	Subject      string `json:"subject" firestore:"subject"`
	Level        string `json:"level" firestore:"level"`
	Availability string `json:"availability" firestore:"availability"`
	StudyStyle   string `json:"studyStyle" firestore:"studyStyle"`
}

// ApplyDefaults fills empty fields with the profile defaults.
func (p *StudyPreferences) ApplyDefaults() {
	if p.Subject == "" {
		p.Subject = "General"
	}
	if p.Level == "" {
		p.Level = "Intermediate"
	}
	if p.Availability == "" {
		p.Availability = "Weekdays"
	}
	if p.StudyStyle == "" {
		p.StudyStyle = "Collaborative"
	}
}

// Profile is the users collection document. Profiles are created by the
// signup flow, not by this API.
type Profile struct {
	Name             string           `firestore:"name"`
	Email            string           `firestore:"email"`
	Online           bool             `firestore:"online"`
	StudyPreferences StudyPreferences `firestore:"studyPreferences"`
}

// Request is the buddy_requests collection document.
type Request struct {
	FromUserID    string    `firestore:"fromUserId"`
	FromUserEmail string    `firestore:"fromUserEmail"`
	ToUserID      string    `firestore:"toUserId"`
	Message       string    `firestore:"message"`
	Status        string    `firestore:"status"`
	CreatedAt     time.Time `firestore:"createdAt"`
	UpdatedAt     time.Time `firestore:"updatedAt"`
}

// Connection is one half of the mirrored buddies edge, stored under each
// participant's buddies subcollection keyed by the other user's ID.
type Connection struct {
	CreatedAt       time.Time `firestore:"createdAt"`
	LastInteraction time.Time `firestore:"lastInteraction"`
}

// SendRequestInput is the POST /request body.
type SendRequestInput struct {
	BuddyID string `json:"buddyId"`
	Message string `json:"message"`
}

// Info is one entry of the /available listing.
type Info struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Subject      string `json:"subject"`
	Level        string `json:"level"`
	Availability string `json:"availability"`
	StudyStyle   string `json:"studyStyle"`
	Online       bool   `json:"online"`
	MatchScore   int    `json:"matchScore"`
}

// PendingRequest is one entry of the /requests listing, enriched with the
// sender's profile.
type PendingRequest struct {
	ID            string    `json:"id"`
	FromUserID    string    `json:"fromUserId"`
	FromUserName  string    `json:"fromUserName"`
	FromUserEmail string    `json:"fromUserEmail"`
	Message       string    `json:"message"`
	CreatedAt     time.Time `json:"createdAt"`
	Subject       string    `json:"subject"`
}

// MyBuddy is one entry of the /my-buddies listing.
type MyBuddy struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Subject         string    `json:"subject"`
	Online          bool      `json:"online"`
	LastInteraction time.Time `json:"lastInteraction"`
	ConnectedSince  time.Time `json:"connectedSince"`
}
