package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MaxMeetingNameLen = 64
	linkLength        = 12
)

var ErrMeetingNameTooLong = errors.New("meeting name too long")

// Meeting is the shareable metadata around a room: a human name, a short
// join link and an optional expiry. The signaling core never sees meetings,
// only the RoomID derived from one.
type Meeting struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Link      string    `json:"link"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

// NewMeeting constructs a meeting with generated identifiers. A zero
// lifetime means the meeting never expires.
func NewMeeting(name string, lifetime time.Duration) (*Meeting, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Untitled meeting"
	}
	if len(name) > MaxMeetingNameLen {
		return nil, ErrMeetingNameTooLong
	}
	now := time.Now().UTC()
	m := &Meeting{
		ID:        uuid.New(),
		Name:      name,
		Link:      generateLink(),
		CreatedAt: now,
	}
	if lifetime > 0 {
		m.ExpiresAt = now.Add(lifetime)
	}
	return m, nil
}

// RoomID returns the room identifier participants of this meeting signal in.
func (m *Meeting) RoomID() RoomID {
	return RoomID(m.ID.String())
}

// IsExpired reports whether the meeting is no longer joinable.
func (m *Meeting) IsExpired() bool {
	if m == nil {
		return true
	}
	if m.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().UTC().After(m.ExpiresAt)
}

func generateLink() string {
	link := strings.ReplaceAll(uuid.NewString(), "-", "")
	return link[:linkLength]
}
