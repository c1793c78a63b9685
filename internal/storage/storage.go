package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/tagger/internal/keywords"
	"github.com/lehigh-university-libraries/tagger/internal/models"
)

// Session is one review workspace: its items plus the generation settings
// the user picked for it
type Session struct {
	ID        string
	CreatedAt time.Time
	Items     *Collection

	mu         sync.RWMutex
	wordLimit  int
	vocabulary string
}

func NewSession(wordLimit int) *Session {
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Items:     NewCollection(),
		wordLimit: wordLimit,
	}
}

// Settings returns the word limit and user keyword vocabulary
func (s *Session) Settings() (int, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wordLimit, s.vocabulary
}

func (s *Session) SetSettings(wordLimit int, vocabulary string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wordLimit = wordLimit
	s.vocabulary = vocabulary
}

// View renders the session for API responses
func (s *Session) View() *models.Session {
	items := s.Items.Snapshot()
	wordLimit, vocabulary := s.Settings()
	return &models.Session{
		ID:         s.ID,
		Items:      items,
		Counts:     models.CountItems(items),
		WordLimit:  wordLimit,
		Vocabulary: vocabulary,
		Keywords:   keywords.Vocabulary(vocabulary, items),
		CreatedAt:  s.CreatedAt,
	}
}

type SessionStore struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

func New() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
	}
}

func (s *SessionStore) Get(sessionID string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, exists := s.sessions[sessionID]
	return session, exists
}

func (s *SessionStore) Set(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
}

// GetAll returns sessions oldest first
func (s *SessionStore) GetAll() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Session, 0, len(s.sessions))
	for _, v := range s.sessions {
		result = append(result, v)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// Delete drops the session and releases every preview it held
func (s *SessionStore) Delete(sessionID string) bool {
	s.mu.Lock()
	session, exists := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if exists {
		session.Items.Clear()
	}
	return exists
}

// Close clears every session
func (s *SessionStore) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	for _, session := range sessions {
		session.Items.Clear()
	}
}
