package services

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartStudyAPI/internal/apperr"
	"smartStudyAPI/internal/types/buddy"
)

func TestAvailableBuddies_ExcludesCaller(t *testing.T) {
	entries := []userEntry{
		{id: "u1", profile: buddy.Profile{Name: "Alice", Email: "alice@example.com"}},
		{id: "u2", profile: buddy.Profile{Name: "Bob", Email: "bob@example.com"}},
		{id: "u3", profile: buddy.Profile{Name: "Carol", Email: "carol@example.com"}},
	}

	available := availableBuddies(entries, "u2")

	require.Len(t, available, 2)
	for _, info := range available {
		assert.NotEqual(t, "u2", info.ID)
	}
}

func TestAvailableBuddies_ScoreRangeAndDescendingOrder(t *testing.T) {
	entries := make([]userEntry, 40)
	for i := range entries {
		entries[i] = userEntry{id: string(rune('a' + i)), profile: buddy.Profile{Email: "u@example.com"}}
	}

	available := availableBuddies(entries, "caller")

	require.Len(t, available, 40)
	for _, info := range available {
		assert.GreaterOrEqual(t, info.MatchScore, 75)
		assert.LessOrEqual(t, info.MatchScore, 98)
	}
	assert.True(t, sort.SliceIsSorted(available, func(i, j int) bool {
		return available[i].MatchScore > available[j].MatchScore
	}))
}

func TestAvailableBuddies_NameAndPreferenceDefaults(t *testing.T) {
	entries := []userEntry{
		{id: "u2", profile: buddy.Profile{Email: "nameless@example.com"}},
	}

	available := availableBuddies(entries, "u1")

	require.Len(t, available, 1)
	info := available[0]
	assert.Equal(t, "nameless", info.Name)
	assert.Equal(t, "General", info.Subject)
	assert.Equal(t, "Intermediate", info.Level)
	assert.Equal(t, "Weekdays", info.Availability)
	assert.Equal(t, "Collaborative", info.StudyStyle)
}

func TestResolveTransition_AcceptFromPending(t *testing.T) {
	req := buddy.Request{ToUserID: "u1", Status: buddy.StatusPending}

	apply, err := resolveTransition(req, "u1", buddy.StatusAccepted)
	require.NoError(t, err)
	assert.True(t, apply)
}

func TestResolveTransition_ReacceptIsIdempotent(t *testing.T) {
	req := buddy.Request{ToUserID: "u1", Status: buddy.StatusAccepted}

	apply, err := resolveTransition(req, "u1", buddy.StatusAccepted)
	require.NoError(t, err)
	assert.False(t, apply, "second accept succeeds without re-applying writes")
}

func TestResolveTransition_AcceptAfterDeclineConflicts(t *testing.T) {
	req := buddy.Request{ToUserID: "u1", Status: buddy.StatusDeclined}

	_, err := resolveTransition(req, "u1", buddy.StatusAccepted)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestResolveTransition_DeclineFromPending(t *testing.T) {
	req := buddy.Request{ToUserID: "u1", Status: buddy.StatusPending}

	apply, err := resolveTransition(req, "u1", buddy.StatusDeclined)
	require.NoError(t, err)
	assert.True(t, apply)
}

func TestResolveTransition_RedeclineIsIdempotent(t *testing.T) {
	req := buddy.Request{ToUserID: "u1", Status: buddy.StatusDeclined}

	apply, err := resolveTransition(req, "u1", buddy.StatusDeclined)
	require.NoError(t, err)
	assert.False(t, apply)
}

func TestResolveTransition_DeclineAfterAcceptConflicts(t *testing.T) {
	req := buddy.Request{ToUserID: "u1", Status: buddy.StatusAccepted}

	_, err := resolveTransition(req, "u1", buddy.StatusDeclined)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestResolveTransition_WrongRecipientForbidden(t *testing.T) {
	req := buddy.Request{ToUserID: "u1", Status: buddy.StatusPending}

	for _, target := range []string{buddy.StatusAccepted, buddy.StatusDeclined} {
		_, err := resolveTransition(req, "u9", target)
		require.Error(t, err)
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	}
}

func TestResolveTransition_UnexpectedStatus(t *testing.T) {
	req := buddy.Request{ToUserID: "u1", Status: "archived"}

	_, err := resolveTransition(req, "u1", buddy.StatusAccepted)
	require.Error(t, err)
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(err))
}

func TestPendingRequestFrom_SenderEnrichment(t *testing.T) {
	created := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	req := buddy.Request{
		FromUserID:    "u2",
		FromUserEmail: "bob@example.com",
		Message:       "study together?",
		CreatedAt:     created,
	}
	sender := buddy.Profile{
		Name:             "Bob",
		StudyPreferences: buddy.StudyPreferences{Subject: "Physics"},
	}

	pending := pendingRequestFrom("req_1", req, sender)

	assert.Equal(t, "req_1", pending.ID)
	assert.Equal(t, "Bob", pending.FromUserName)
	assert.Equal(t, "Physics", pending.Subject)
	assert.Equal(t, "study together?", pending.Message)
	assert.Equal(t, created, pending.CreatedAt)
}

func TestPendingRequestFrom_MissingSenderTolerated(t *testing.T) {
	req := buddy.Request{
		FromUserID:    "u2",
		FromUserEmail: "bob@example.com",
	}

	pending := pendingRequestFrom("req_1", req, buddy.Profile{})

	assert.Equal(t, "bob", pending.FromUserName)
	assert.Equal(t, "General", pending.Subject)
}

func TestMyBuddyFrom_ProfileEnrichment(t *testing.T) {
	created := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	last := time.Date(2026, 1, 20, 18, 0, 0, 0, time.UTC)
	conn := buddy.Connection{CreatedAt: created, LastInteraction: last}
	profile := buddy.Profile{
		Name:             "Carol",
		Email:            "carol@example.com",
		Online:           true,
		StudyPreferences: buddy.StudyPreferences{Subject: "Biology"},
	}

	mb := myBuddyFrom("u3", conn, profile)

	assert.Equal(t, "u3", mb.ID)
	assert.Equal(t, "Carol", mb.Name)
	assert.Equal(t, "Biology", mb.Subject)
	assert.True(t, mb.Online)
	assert.Equal(t, created, mb.ConnectedSince)
	assert.Equal(t, last, mb.LastInteraction)
}

func TestMyBuddyFrom_MissingProfileTolerated(t *testing.T) {
	mb := myBuddyFrom("u3", buddy.Connection{}, buddy.Profile{})

	assert.Equal(t, "u3", mb.ID)
	assert.Equal(t, "", mb.Name)
	assert.Equal(t, "General", mb.Subject)
	assert.False(t, mb.Online)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Alice", displayName("Alice", "alice@example.com"))
	assert.Equal(t, "alice", displayName("", "alice@example.com"))
	assert.Equal(t, "", displayName("", ""))
}

func TestLocalPart(t *testing.T) {
	assert.Equal(t, "bob", localPart("bob@university.edu"))
	assert.Equal(t, "no-at-sign", localPart("no-at-sign"))
	assert.Equal(t, "", localPart("@domain.com"))
}
