package implementation

import (
	"gorm.io/gorm"

	"counseling-chat-be/internal/repository/specification"
)

func applySpecifications(db *gorm.DB, specs []specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}
