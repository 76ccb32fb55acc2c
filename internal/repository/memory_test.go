package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/dkorolev/huddle/internal/domain"
)

func newMeeting(t *testing.T, name string) *domain.Meeting {
	t.Helper()
	m, err := domain.NewMeeting(name, 0)
	if err != nil {
		t.Fatalf("NewMeeting: %v", err)
	}
	return m
}

func TestInMemoryMeetingRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryMeetingRepository()

	m := newMeeting(t, "standup")
	if err := repo.Create(ctx, m); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetByID(ctx, m.ID)
	if err != nil || got.Name != "standup" {
		t.Fatalf("GetByID: %v, %#v", err, got)
	}

	got, err = repo.GetByLink(ctx, m.Link)
	if err != nil || got.ID != m.ID {
		t.Fatalf("GetByLink: %v, %#v", err, got)
	}

	all, err := repo.List(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("List: %v, %d entries", err, len(all))
	}

	if err := repo.Delete(ctx, m.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, m.ID); !errors.Is(err, ErrMeetingNotFound) {
		t.Fatalf("GetByID after delete: %v", err)
	}
	if _, err := repo.GetByLink(ctx, m.Link); !errors.Is(err, ErrMeetingNotFound) {
		t.Fatalf("GetByLink after delete: %v", err)
	}
	if err := repo.Delete(ctx, m.ID); !errors.Is(err, ErrMeetingNotFound) {
		t.Fatalf("double delete: %v", err)
	}
}

func TestInMemoryMeetingRepository_DuplicateLink(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryMeetingRepository()

	a := newMeeting(t, "a")
	b := newMeeting(t, "b")
	b.Link = a.Link

	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("create a: %v", err)
	}
	if err := repo.Create(ctx, b); !errors.Is(err, ErrLinkExists) {
		t.Fatalf("create b: %v, want ErrLinkExists", err)
	}
}

func TestInMemoryMeetingRepository_ContextCancelled(t *testing.T) {
	repo := NewInMemoryMeetingRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := repo.Create(ctx, newMeeting(t, "x")); err == nil {
		t.Fatalf("create with cancelled context succeeded")
	}
	if _, err := repo.GetByID(ctx, uuid.New()); err == nil {
		t.Fatalf("get with cancelled context succeeded")
	}
}
