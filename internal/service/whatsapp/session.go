package whatsapp

import (
	"sync"
	"time"
)

const sessionMemory = 32

// senderSession remembers the recent message IDs of one sender.
type senderSession struct {
	seen     []string
	lastSeen time.Time
}

// SessionManager drops webhook redeliveries of messages already handled.
type SessionManager struct {
	sessions map[string]*senderSession
	mu       sync.Mutex
	ttl      time.Duration
}

// NewSessionManager creates a session manager that forgets senders idle for ttl.
func NewSessionManager(ttl time.Duration) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*senderSession),
		ttl:      ttl,
	}
}

// MarkSeen records messageID for sender and reports whether it was new.
func (sm *SessionManager) MarkSeen(sender, messageID string, now time.Time) bool {
	if messageID == "" {
		return true
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.evict(now)

	session, ok := sm.sessions[sender]
	if !ok {
		session = &senderSession{}
		sm.sessions[sender] = session
	}
	session.lastSeen = now

	for _, id := range session.seen {
		if id == messageID {
			return false
		}
	}

	session.seen = append(session.seen, messageID)
	if len(session.seen) > sessionMemory {
		session.seen = session.seen[len(session.seen)-sessionMemory:]
	}
	return true
}

// Len returns the number of tracked senders.
func (sm *SessionManager) Len() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.sessions)
}

func (sm *SessionManager) evict(now time.Time) {
	if sm.ttl <= 0 {
		return
	}
	for sender, session := range sm.sessions {
		if now.Sub(session.lastSeen) > sm.ttl {
			delete(sm.sessions, sender)
		}
	}
}
