package core

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/dkorolev/huddle/internal/domain"
)

type nopConn struct{}

func (nopConn) TrySend(Frame) error { return nil }
func (nopConn) Close()              {}

func TestSession_Lifecycle(t *testing.T) {
	s := NewSession("c1", nopConn{})
	if s.State() != StateConnecting {
		t.Fatalf("state=%v, want connecting", s.State())
	}
	if _, ok := s.Room(); ok {
		t.Fatalf("connecting session reports a room")
	}

	meta := domain.NewParticipant("c1", "alice")
	if !s.Join("r1", meta) {
		t.Fatalf("join failed")
	}
	if s.State() != StateJoined {
		t.Fatalf("state=%v, want joined", s.State())
	}
	room, ok := s.Room()
	if !ok || room != "r1" {
		t.Fatalf("room=%q ok=%v, want r1", room, ok)
	}

	// second join must not rebind the room
	if s.Join("r2", meta) {
		t.Fatalf("joined session accepted a second join")
	}
	if room, _ := s.Room(); room != "r1" {
		t.Fatalf("room changed to %q", room)
	}

	room, wasJoined := s.Leave()
	if !wasJoined || room != "r1" {
		t.Fatalf("leave: room=%q wasJoined=%v", room, wasJoined)
	}
	if s.State() != StateLeft {
		t.Fatalf("state=%v, want left", s.State())
	}
	if _, wasJoined := s.Leave(); wasJoined {
		t.Fatalf("second leave reported cleanup work")
	}
	if s.Join("r3", meta) {
		t.Fatalf("left session accepted a join")
	}
}

func TestSession_LeaveWhileConnecting(t *testing.T) {
	s := NewSession("c1", nopConn{})
	if _, wasJoined := s.Leave(); wasJoined {
		t.Fatalf("connecting session reported joined cleanup")
	}
	if s.State() != StateLeft {
		t.Fatalf("state=%v, want left", s.State())
	}
}

func TestParticipant_NameDefaults(t *testing.T) {
	p := domain.NewParticipant("c1", "   ")
	if p.DisplayName == "" {
		t.Fatalf("empty display name not defaulted")
	}
	long := make([]byte, 100)
	for i := range long {
		long[i] = 'a'
	}
	p = domain.NewParticipant("c1", string(long))
	if len(p.DisplayName) != domain.MaxDisplayNameLen {
		t.Fatalf("len=%d, want %d", len(p.DisplayName), domain.MaxDisplayNameLen)
	}
}

func TestParticipant_TruncateKeepsValidUTF8(t *testing.T) {
	// the leading ASCII byte shifts every two-byte rune off even offsets, so
	// the cut at byte 36 falls mid-rune; a plain byte-index cut there leaves a
	// name json.Marshal rewrites with replacement characters
	name := "a" + strings.Repeat("é", 18)
	p := domain.NewParticipant("c1", name)
	if !utf8.ValidString(p.DisplayName) {
		t.Fatalf("truncated name is not valid UTF-8: %q", p.DisplayName)
	}
	if len(p.DisplayName) > domain.MaxDisplayNameLen {
		t.Fatalf("len=%d, want <= %d", len(p.DisplayName), domain.MaxDisplayNameLen)
	}
	if p.DisplayName != "a"+strings.Repeat("é", 17) {
		t.Fatalf("name=%q, want a plus 17 runs of é", p.DisplayName)
	}
}
