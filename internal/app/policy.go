package app

import (
	"github.com/dkorolev/huddle/internal/core"
	"github.com/dkorolev/huddle/internal/domain"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropMessage
	KickParticipant
)

// Policy decides what happens to a participant whose send queue is full.
// A slow consumer must never stall delivery to the rest of the room, so the
// only choices are dropping the frame or evicting the peer.
type Policy interface {
	OnBackpressure(room domain.RoomID, s *core.Session) BackpressureAction
}

type KickSlowPolicy struct{}

func (KickSlowPolicy) OnBackpressure(room domain.RoomID, s *core.Session) BackpressureAction {
	return KickParticipant
}

type DropPolicy struct{}

func (DropPolicy) OnBackpressure(room domain.RoomID, s *core.Session) BackpressureAction {
	return DropMessage
}
