package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/dkorolev/huddle/internal/domain"
)

type MeetingRepository interface {
	Create(ctx context.Context, meeting *domain.Meeting) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Meeting, error)
	GetByLink(ctx context.Context, link string) (*domain.Meeting, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*domain.Meeting, error)
}
