package verification

import (
	"sync"
	"time"

	"github.com/Runyun19/arcane-arena-verify-bot/internal/pkg/id"
)

// pendingSession is a panel confirmation awaiting an explicit participant
// action. Owned by the interactive session that created it; never persisted
// and never shared across participants.
type pendingSession struct {
	participantID string
	playerID      string
	createdAt     time.Time
}

// pendingStore keeps panel confirmations keyed by session ID. Expiry is
// checked lazily on the next interaction rather than by a background timer;
// stale entries are additionally pruned whenever a new session is created.
type pendingStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]pendingSession
	now      func() time.Time
}

func newPendingStore(ttl time.Duration) *pendingStore {
	return &pendingStore{
		ttl:      ttl,
		sessions: make(map[string]pendingSession),
		now:      time.Now,
	}
}

// Create registers a validated candidate and returns its session ID.
func (s *pendingStore) Create(participantID, playerID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for sid, p := range s.sessions {
		if now.Sub(p.createdAt) > s.ttl {
			delete(s.sessions, sid)
		}
	}
	sid := id.New()
	s.sessions[sid] = pendingSession{participantID: participantID, playerID: playerID, createdAt: now}
	return sid
}

// Take pops the session and returns its candidate player ID. It returns
// false when the session is unknown, expired, or belongs to a different
// participant; an expired confirm therefore behaves exactly like a cancel.
func (s *pendingStore) Take(sessionID, participantID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.sessions[sessionID]
	if !ok || p.participantID != participantID {
		return "", false
	}
	delete(s.sessions, sessionID)
	if s.now().Sub(p.createdAt) > s.ttl {
		return "", false
	}
	return p.playerID, true
}

// Cancel drops the session if it belongs to the participant.
func (s *pendingStore) Cancel(sessionID, participantID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.sessions[sessionID]; ok && p.participantID == participantID {
		delete(s.sessions, sessionID)
	}
}
