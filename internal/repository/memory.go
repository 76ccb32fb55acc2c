package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/dkorolev/huddle/internal/domain"
)

var (
	ErrMeetingNotFound = errors.New("meeting not found")
	ErrLinkExists      = errors.New("meeting link already exists")
)

type InMemoryMeetingRepository struct {
	mu       sync.RWMutex
	meetings map[uuid.UUID]*domain.Meeting
	links    map[string]uuid.UUID
}

func NewInMemoryMeetingRepository() *InMemoryMeetingRepository {
	return &InMemoryMeetingRepository{
		meetings: make(map[uuid.UUID]*domain.Meeting),
		links:    make(map[string]uuid.UUID),
	}
}

func (r *InMemoryMeetingRepository) Create(ctx context.Context, meeting *domain.Meeting) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.links[meeting.Link]; ok {
		return ErrLinkExists
	}

	r.meetings[meeting.ID] = meeting
	r.links[meeting.Link] = meeting.ID
	return nil
}

func (r *InMemoryMeetingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	meeting, ok := r.meetings[id]
	if !ok {
		return nil, ErrMeetingNotFound
	}
	return meeting, nil
}

func (r *InMemoryMeetingRepository) GetByLink(ctx context.Context, link string) (*domain.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.links[link]
	if !ok {
		return nil, ErrMeetingNotFound
	}
	meeting, ok := r.meetings[id]
	if !ok {
		return nil, ErrMeetingNotFound
	}
	return meeting, nil
}

func (r *InMemoryMeetingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	meeting, ok := r.meetings[id]
	if !ok {
		return ErrMeetingNotFound
	}

	delete(r.links, meeting.Link)
	delete(r.meetings, id)
	return nil
}

func (r *InMemoryMeetingRepository) List(ctx context.Context) ([]*domain.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Meeting, 0, len(r.meetings))
	for _, meeting := range r.meetings {
		result = append(result, meeting)
	}
	return result, nil
}
