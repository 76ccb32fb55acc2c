package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dkorolev/huddle/internal/core"
	"github.com/dkorolev/huddle/internal/domain"
)

type Kind string

const (
	// client -> server
	KindJoinRoom Kind = "join-room"
	KindLeave    Kind = "leave"
	KindPing     Kind = "ping"

	// relayed both ways
	KindOffer        Kind = "offer"
	KindAnswer       Kind = "answer"
	KindICECandidate Kind = "ice-candidate"

	// server -> client. Peers receiving user-joined initiate the offer
	// toward the newcomer; the newcomer only answers. One consistent
	// direction keeps each pair on a single peer connection.
	KindExistingParticipants Kind = "existing-participants"
	KindUserJoined           Kind = "user-joined"
	KindUserLeft             Kind = "user-left"
	KindLeft                 Kind = "left"
	KindPong                 Kind = "pong"
	KindError                Kind = "error"
)

// Message is the single tagged-variant envelope carried over the signaling
// transport. The SDP/ICE payload is an opaque blob: the server routes on the
// envelope and never inspects it.
type Message struct {
	Kind Kind `json:"type"`

	// join-room
	Room string `json:"room,omitempty"`
	Name string `json:"name,omitempty"`

	// relay addressing; From is always server-stamped on the way out
	To   domain.ConnectionID `json:"to,omitempty"`
	From domain.ConnectionID `json:"from,omitempty"`

	Payload json.RawMessage `json:"payload,omitempty"`

	// presence events
	ID           domain.ConnectionID `json:"id,omitempty"`
	DisplayName  string              `json:"displayName,omitempty"`
	// omitzero, not omitempty: roster frames must carry participants even
	// when the room was empty, while every other kind leaves the nil slice out.
	Participants []core.RosterEntry `json:"participants,omitzero"`

	Error string `json:"error,omitempty"`
}

// ParseMessage decodes a client frame strictly: unknown fields, trailing
// data and server-only kinds are all rejected before routing.
func ParseMessage(data []byte) (Message, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var msg Message
	if err := dec.Decode(&msg); err != nil {
		return Message{}, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return Message{}, fmt.Errorf("unexpected trailing data")
	}
	if err := msg.validate(); err != nil {
		return Message{}, err
	}
	return msg, nil
}

func (m Message) validate() error {
	switch m.Kind {
	case KindJoinRoom:
		if m.To != "" || m.From != "" || m.Payload != nil {
			return fmt.Errorf("join-room message has unexpected fields")
		}
	case KindLeave, KindPing:
		if m.Room != "" || m.Name != "" || m.To != "" || m.Payload != nil {
			return fmt.Errorf("%s message has unexpected fields", m.Kind)
		}
	case KindOffer, KindAnswer, KindICECandidate:
		if m.To == "" {
			return fmt.Errorf("%s message missing target", m.Kind)
		}
		if len(m.Payload) == 0 {
			return fmt.Errorf("%s message missing payload", m.Kind)
		}
		if m.Room != "" || m.Name != "" {
			return fmt.Errorf("%s message has unexpected fields", m.Kind)
		}
	default:
		return fmt.Errorf("unsupported message type %q", m.Kind)
	}
	return nil
}

func (m Message) Encode() (core.Frame, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return core.Frame(b), nil
}

func rosterMessage(entries []core.RosterEntry) Message {
	if entries == nil {
		entries = []core.RosterEntry{}
	}
	return Message{Kind: KindExistingParticipants, Participants: entries}
}

func userJoinedMessage(p *domain.Participant) Message {
	return Message{Kind: KindUserJoined, ID: p.ID, DisplayName: p.DisplayName}
}

func userLeftMessage(cid domain.ConnectionID) Message {
	return Message{Kind: KindUserLeft, ID: cid}
}

func errorMessage(code string) Message {
	return Message{Kind: KindError, Error: code}
}
