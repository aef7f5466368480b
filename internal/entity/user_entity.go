package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id        uuid.UUID
	Nickname  string
	Email     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt *time.Time
}
