package core

import (
	"sync"

	"github.com/dkorolev/huddle/internal/domain"
)

// Frame is a raw encoded signaling message.
type Frame []byte

// SignalConn abstracts the transport endpoint of one client.
// Owned by the adapter; the adapter must Close() it.
type SignalConn interface {
	TrySend(Frame) error
	Close()
}

// SessionState tracks the lifecycle of one connection.
type SessionState int

const (
	StateConnecting SessionState = iota
	StateJoined
	StateLeft
)

func (s SessionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateJoined:
		return "joined"
	case StateLeft:
		return "left"
	default:
		return "unknown"
	}
}

// Session binds one live transport endpoint to its room membership.
// The room assignment is set once on the connecting->joined transition and
// never changes; a client that wants another room opens a new connection.
type Session struct {
	id   domain.ConnectionID
	conn SignalConn

	mu    sync.Mutex
	state SessionState
	room  domain.RoomID
	meta  *domain.Participant
}

func NewSession(id domain.ConnectionID, conn SignalConn) *Session {
	return &Session{id: id, conn: conn, state: StateConnecting}
}

func (s *Session) ID() domain.ConnectionID { return s.id }
func (s *Session) Conn() SignalConn        { return s.conn }

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Meta returns the participant view; nil until the session has joined.
func (s *Session) Meta() *domain.Participant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.meta
}

// Room reports the room this session belongs to, false while connecting
// or after leaving.
func (s *Session) Room() (domain.RoomID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateJoined {
		return "", false
	}
	return s.room, true
}

// Join moves connecting->joined. Returns false if the session already
// joined or already left.
func (s *Session) Join(room domain.RoomID, meta *domain.Participant) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateConnecting {
		return false
	}
	s.state = StateJoined
	s.room = room
	s.meta = meta
	return true
}

// Leave moves the session to its terminal state. Returns true only for the
// first call on a joined session, so explicit leave and transport close can
// both run the same path without double cleanup.
func (s *Session) Leave() (domain.RoomID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateLeft {
		return "", false
	}
	joined := s.state == StateJoined
	s.state = StateLeft
	if !joined {
		return "", false
	}
	return s.room, true
}
