package contract

import (
	"context"

	"counseling-chat-be/internal/entity"

	"github.com/google/uuid"
)

type UserRepository interface {
	FindById(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

type CounselorRepository interface {
	// FindById returns an active counselor with its profile preloaded, or
	// nil when no active staff member with the counselor role matches.
	FindById(ctx context.Context, id uuid.UUID) (*entity.Counselor, error)
	IncrementTotalSessions(ctx context.Context, counselorId uuid.UUID) error
}
