// Package domain contains entity without logic, just meta-data
package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const MaxDisplayNameLen = 36

// ConnectionID identifies one live signaling connection. It is assigned by
// the transport layer on upgrade and never chosen by the client.
type ConnectionID string

func NewConnectionID() ConnectionID {
	return ConnectionID(uuid.NewString())
}

// Participant is the room-facing view of a connected client.
type Participant struct {
	ID          ConnectionID `json:"id"`
	DisplayName string       `json:"displayName"`
	JoinedAt    time.Time    `json:"-"`
}

// NewParticipant normalizes the client-supplied display name: an empty name
// becomes an anonymized placeholder instead of a join failure, an overlong
// one is truncated.
func NewParticipant(id ConnectionID, displayName string) *Participant {
	name := strings.TrimSpace(displayName)
	if name == "" {
		name = anonymousName()
	}
	if len(name) > MaxDisplayNameLen {
		// back off to a rune boundary so truncation never leaves invalid UTF-8
		cut := MaxDisplayNameLen
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = name[:cut]
	}
	return &Participant{
		ID:          id,
		DisplayName: name,
		JoinedAt:    time.Now().UTC(),
	}
}

func anonymousName() string {
	return "guest-" + uuid.NewString()[:8]
}
