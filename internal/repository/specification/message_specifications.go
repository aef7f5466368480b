package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageBySession struct {
	SessionID uuid.UUID
}

func (s MessageBySession) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

// MessageOrderByCreation preserves insertion order for replay.
type MessageOrderByCreation struct{}

func (s MessageOrderByCreation) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("created_at")
}
