package app

import (
	"github.com/rs/zerolog/log"

	"github.com/dkorolev/huddle/internal/core"
	"github.com/dkorolev/huddle/internal/domain"
)

const (
	errBadPayload    = "bad_payload"
	errEmptyRoomID   = "empty_room_id"
	errAlreadyJoined = "already_joined"
	errNotJoined     = "not_joined"
	errUnknownTarget = "unknown_target"
	errUnsupported   = "unsupported_type"
)

// Coordinator routes every signaling message of a session through one
// function and keeps room presence consistent: roster snapshot on join,
// joined/left fan-out, relay with server-stamped sender identity, and
// pruning of emptied rooms. No error in here is fatal; the worst outcome is
// a dropped message for one sender.
type Coordinator struct {
	registry *core.Registry
	policy   Policy
}

func NewCoordinator(registry *core.Registry, policy Policy) *Coordinator {
	return &Coordinator{registry: registry, policy: policy}
}

func (co *Coordinator) Registry() *core.Registry { return co.registry }

// HandleFrame parses and dispatches one inbound frame. Called from the
// transport's read loop, so per-connection ordering is preserved end to end.
func (co *Coordinator) HandleFrame(s *core.Session, data []byte) {
	msg, err := ParseMessage(data)
	if err != nil {
		log.Warn().Err(err).Str("module", "app.coordinator").Str("cid", string(s.ID())).Msg("bad frame")
		co.sendError(s, errBadPayload)
		return
	}
	co.Handle(s, msg)
}

// Handle is the single routing function for the tagged message envelope.
func (co *Coordinator) Handle(s *core.Session, msg Message) {
	switch msg.Kind {
	case KindJoinRoom:
		co.Join(s, domain.RoomID(msg.Room), msg.Name)
	case KindLeave:
		if co.Leave(s) {
			co.send(s, Message{Kind: KindLeft})
		}
	case KindOffer, KindAnswer, KindICECandidate:
		co.relay(s, msg)
	case KindPing:
		co.send(s, Message{Kind: KindPong})
	default:
		co.sendError(s, errUnsupported)
	}
}

// Join registers the session in a room and fans out presence. The roster
// sent to the newcomer is computed atomically with its registration and
// never contains the newcomer itself.
func (co *Coordinator) Join(s *core.Session, roomID domain.RoomID, name string) {
	if roomID == "" {
		co.sendError(s, errEmptyRoomID)
		return
	}
	meta := domain.NewParticipant(s.ID(), name)
	if !s.Join(roomID, meta) {
		co.sendError(s, errAlreadyJoined)
		return
	}
	others, err := co.registry.Add(roomID, s)
	if err != nil {
		// Session state said connecting but the registry disagrees; treat
		// the connection as poisoned and drop it.
		log.Error().Err(err).Str("module", "app.coordinator").Str("cid", string(s.ID())).Msg("join registration failed")
		co.sendError(s, errAlreadyJoined)
		s.Conn().Close()
		return
	}
	log.Info().Str("module", "app.coordinator").
		Str("cid", string(s.ID())).Str("room", string(roomID)).Str("name", meta.DisplayName).
		Msg("participant joined")

	co.send(s, rosterMessage(core.Roster(others)))
	co.broadcast(roomID, others, userJoinedMessage(meta))
}

// Leave runs the cleanup shared by explicit leave and transport close.
// Idempotent: only the first call on a joined session broadcasts user-left.
func (co *Coordinator) Leave(s *core.Session) bool {
	roomID, wasJoined := s.Leave()
	if !wasJoined {
		return false
	}
	_, remaining, err := co.registry.Remove(s.ID())
	if err != nil {
		log.Warn().Err(err).Str("module", "app.coordinator").Str("cid", string(s.ID())).Msg("leave without registration")
		return false
	}
	log.Info().Str("module", "app.coordinator").
		Str("cid", string(s.ID())).Str("room", string(roomID)).
		Msg("participant left")

	co.broadcast(roomID, remaining, userLeftMessage(s.ID()))
	co.registry.RemoveIfEmpty(roomID)
	return true
}

// relay forwards an offer/answer/candidate to exactly one peer in the
// sender's room. From is overwritten with the sender's true connection id;
// stale or cross-room targets get a targeted error, never a forward.
func (co *Coordinator) relay(s *core.Session, msg Message) {
	roomID, ok := s.Room()
	if !ok {
		co.sendError(s, errNotJoined)
		return
	}
	target, ok := co.registry.Resolve(roomID, msg.To)
	if !ok || target.State() != core.StateJoined {
		log.Debug().Str("module", "app.coordinator").
			Str("cid", string(s.ID())).Str("to", string(msg.To)).Str("kind", string(msg.Kind)).
			Msg("relay target not in room")
		co.sendError(s, errUnknownTarget)
		return
	}
	out := Message{Kind: msg.Kind, From: s.ID(), Payload: msg.Payload}
	if !co.send(target, out) {
		co.applyBackpressure(roomID, target)
	}
}

// broadcast delivers one event to every listed member. A failed send is
// isolated to that recipient: logged, handed to the policy, and the loop
// moves on.
func (co *Coordinator) broadcast(roomID domain.RoomID, members []*core.Session, msg Message) {
	frame, err := msg.Encode()
	if err != nil {
		log.Error().Err(err).Str("module", "app.coordinator").Msg("broadcast encode")
		return
	}
	for _, m := range members {
		if err := m.Conn().TrySend(frame); err != nil {
			log.Warn().Err(err).Str("module", "app.coordinator").
				Str("cid", string(m.ID())).Str("kind", string(msg.Kind)).
				Msg("broadcast send failed")
			co.applyBackpressure(roomID, m)
		}
	}
}

func (co *Coordinator) applyBackpressure(roomID domain.RoomID, s *core.Session) {
	if co.policy == nil {
		return
	}
	switch co.policy.OnBackpressure(roomID, s) {
	case KickParticipant:
		log.Warn().Str("module", "app.coordinator").Str("cid", string(s.ID())).Msg("kicking slow participant")
		co.Leave(s)
		s.Conn().Close()
	case DropMessage, NoAction:
	}
}

// send delivers one event to one session, reporting success.
func (co *Coordinator) send(s *core.Session, msg Message) bool {
	frame, err := msg.Encode()
	if err != nil {
		log.Error().Err(err).Str("module", "app.coordinator").Msg("send encode")
		return false
	}
	if err := s.Conn().TrySend(frame); err != nil {
		log.Warn().Err(err).Str("module", "app.coordinator").
			Str("cid", string(s.ID())).Str("kind", string(msg.Kind)).
			Msg("send failed")
		return false
	}
	return true
}

func (co *Coordinator) sendError(s *core.Session, code string) {
	co.send(s, errorMessage(code))
}
