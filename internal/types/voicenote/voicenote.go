package voicenote

import "sync"

// VoiceNote is a transcribed recording with its generated summary. Notes live
// only in process memory; a restart drops them all.
type VoiceNote struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Transcript string   `json:"transcript"`
	Summary    string   `json:"summary"`
	KeyPoints  []string `json:"key_points"`
	CreatedAt  string   `json:"created_at"`
}

// Store is the mutex-guarded in-memory note list. Handlers run concurrently,
// so every access goes through the lock.
type Store struct {
	mu    sync.Mutex
	notes []VoiceNote
}

func NewStore() *Store {
	return &Store{}
}

// Append adds a note to the end of the list.
func (s *Store) Append(note VoiceNote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append(s.notes, note)
}

// List returns all notes in insertion order.
func (s *Store) List() []VoiceNote {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]VoiceNote, len(s.notes))
	copy(out, s.notes)
	return out
}

// Delete removes the note with the given id, reporting whether it was present.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.notes {
		if n.ID == id {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			return true
		}
	}
	return false
}

// Count returns the number of stored notes.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notes)
}
