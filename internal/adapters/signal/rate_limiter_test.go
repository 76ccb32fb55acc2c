package signal

import (
	"testing"
	"time"
)

func TestJoinLimiter_Window(t *testing.T) {
	rl := NewJoinLimiter(2, 100*time.Millisecond)

	if !rl.Allow("tok") || !rl.Allow("tok") {
		t.Fatalf("first attempts rejected")
	}
	if rl.Allow("tok") {
		t.Fatalf("attempt over limit allowed")
	}
	// other keys are independent
	if !rl.Allow("other") {
		t.Fatalf("unrelated key rejected")
	}

	time.Sleep(120 * time.Millisecond)
	if !rl.Allow("tok") {
		t.Fatalf("attempt after window expiry rejected")
	}
}

func TestJoinLimiter_Disabled(t *testing.T) {
	rl := NewJoinLimiter(0, time.Minute)
	for range 100 {
		if !rl.Allow("tok") {
			t.Fatalf("disabled limiter rejected")
		}
	}
}
