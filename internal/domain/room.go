package domain

import "time"

// RoomID is an opaque room identifier. The signaling core is agnostic to
// whether it was minted by the meeting service or made up by a client.
type RoomID string

type Room struct {
	ID        RoomID
	CreatedAt time.Time
}
