package core

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkorolev/huddle/internal/domain"
)

var (
	ErrAlreadyInRoom = errors.New("connection already in a room")
	ErrNotInRoom     = errors.New("connection not in a room")
)

// RosterEntry is a read-only view of a joined participant (no transport fields).
type RosterEntry struct {
	ID          domain.ConnectionID `json:"id"`
	DisplayName string              `json:"displayName"`
}

type room struct {
	meta     domain.Room
	sessions map[domain.ConnectionID]*Session
}

// Registry is the single source of truth mapping room id -> live sessions.
// It is an owned, injectable object: tests run several independent instances
// in parallel. State is memory only and lost on restart.
type Registry struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*room
	index map[domain.ConnectionID]domain.RoomID
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[domain.RoomID]*room),
		index: make(map[domain.ConnectionID]domain.RoomID),
	}
}

// GetOrCreate returns the room metadata, creating an empty room on first
// reference. Never fails.
func (r *Registry) GetOrCreate(id domain.RoomID) domain.Room {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getOrCreateLocked(id).meta
}

func (r *Registry) getOrCreateLocked(id domain.RoomID) *room {
	if rm, ok := r.rooms[id]; ok {
		return rm
	}
	rm := &room{
		meta:     domain.Room{ID: id, CreatedAt: time.Now().UTC()},
		sessions: make(map[domain.ConnectionID]*Session),
	}
	r.rooms[id] = rm
	log.Info().Str("module", "core.registry").Str("room", string(id)).Msg("room created")
	return rm
}

func (r *Registry) Exists(id domain.RoomID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[id]
	return ok
}

// RemoveIfEmpty deletes the room entry once its participant set is empty.
// Idempotent, side-effect only.
func (r *Registry) RemoveIfEmpty(id domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rm, ok := r.rooms[id]
	if !ok || len(rm.sessions) > 0 {
		return
	}
	delete(r.rooms, id)
	log.Info().Str("module", "core.registry").Str("room", string(id)).Msg("empty room removed")
}

// Add registers a session in a room and returns the sessions that were
// already there. Registration and snapshot happen under one lock so a
// concurrent join never observes a half-updated roster. A connection id is
// never allowed into two rooms at once.
func (r *Registry) Add(id domain.RoomID, s *Session) ([]*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cid := s.ID()
	if _, ok := r.index[cid]; ok {
		return nil, ErrAlreadyInRoom
	}
	rm := r.getOrCreateLocked(id)
	others := make([]*Session, 0, len(rm.sessions))
	for _, existing := range rm.sessions {
		others = append(others, existing)
	}
	rm.sessions[cid] = s
	r.index[cid] = id
	return others, nil
}

// Remove deregisters a session and returns the sessions remaining in its
// room. Removal completes before the snapshot is taken, so the departing
// session never appears in its own leave broadcast.
func (r *Registry) Remove(cid domain.ConnectionID) (domain.RoomID, []*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.index[cid]
	if !ok {
		return "", nil, ErrNotInRoom
	}
	delete(r.index, cid)
	rm := r.rooms[id]
	delete(rm.sessions, cid)
	remaining := make([]*Session, 0, len(rm.sessions))
	for _, s := range rm.sessions {
		remaining = append(remaining, s)
	}
	return id, remaining, nil
}

// Resolve looks up a live session by connection id within one room. Used by
// the relay to validate client-supplied targets; cross-room ids do not
// resolve.
func (r *Registry) Resolve(id domain.RoomID, cid domain.ConnectionID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rm, ok := r.rooms[id]
	if !ok {
		return nil, false
	}
	s, ok := rm.sessions[cid]
	return s, ok
}

// Members returns a snapshot of the sessions currently in a room.
func (r *Registry) Members(id domain.RoomID) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rm, ok := r.rooms[id]
	if !ok {
		return nil
	}
	out := make([]*Session, 0, len(rm.sessions))
	for _, s := range rm.sessions {
		out = append(out, s)
	}
	return out
}

// Roster is the participant view of Members, for presence events.
func Roster(sessions []*Session) []RosterEntry {
	out := make([]RosterEntry, 0, len(sessions))
	for _, s := range sessions {
		meta := s.Meta()
		if meta == nil {
			continue
		}
		out = append(out, RosterEntry{ID: meta.ID, DisplayName: meta.DisplayName})
	}
	return out
}

// RoomCount reports the number of live rooms.
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
