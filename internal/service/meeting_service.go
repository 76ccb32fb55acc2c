package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkorolev/huddle/internal/domain"
	"github.com/dkorolev/huddle/internal/repository"
)

var ErrMeetingExpired = errors.New("meeting expired")

// MeetingService mints shareable meetings and validates links before clients
// are handed a room id. The signaling core never depends on it; a room id
// that bypassed this service still signals fine.
type MeetingService struct {
	repo     repository.MeetingRepository
	lifetime time.Duration
}

func NewMeetingService(repo repository.MeetingRepository, lifetime time.Duration) *MeetingService {
	return &MeetingService{repo: repo, lifetime: lifetime}
}

func (s *MeetingService) Create(ctx context.Context, name string) (*domain.Meeting, error) {
	meeting, err := domain.NewMeeting(name, s.lifetime)
	if err != nil {
		return nil, err
	}
	// Link collisions are possible in principle; retry with fresh ids.
	for range 3 {
		err = s.repo.Create(ctx, meeting)
		if !errors.Is(err, repository.ErrLinkExists) {
			break
		}
		meeting, _ = domain.NewMeeting(name, s.lifetime)
	}
	if err != nil {
		return nil, err
	}
	log.Info().Str("module", "service.meeting").
		Str("id", meeting.ID.String()).Str("link", meeting.Link).
		Msg("meeting created")
	return meeting, nil
}

func (s *MeetingService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Meeting, error) {
	meeting, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.checkExpiry(ctx, meeting)
}

// GetByLink resolves a shareable link to a joinable meeting. Expired
// meetings are pruned on access.
func (s *MeetingService) GetByLink(ctx context.Context, link string) (*domain.Meeting, error) {
	meeting, err := s.repo.GetByLink(ctx, link)
	if err != nil {
		return nil, err
	}
	return s.checkExpiry(ctx, meeting)
}

func (s *MeetingService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *MeetingService) List(ctx context.Context) ([]*domain.Meeting, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]*domain.Meeting, 0, len(all))
	for _, m := range all {
		if m.IsExpired() {
			continue
		}
		active = append(active, m)
	}
	return active, nil
}

func (s *MeetingService) checkExpiry(ctx context.Context, meeting *domain.Meeting) (*domain.Meeting, error) {
	if !meeting.IsExpired() {
		return meeting, nil
	}
	if err := s.repo.Delete(ctx, meeting.ID); err != nil && !errors.Is(err, repository.ErrMeetingNotFound) {
		log.Warn().Err(err).Str("module", "service.meeting").Str("id", meeting.ID.String()).Msg("expired meeting cleanup")
	}
	return nil, ErrMeetingExpired
}
