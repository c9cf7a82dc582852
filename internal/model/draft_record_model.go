package model

import (
	"time"

	"github.com/google/uuid"
)

// DraftRecord is the relational row backing a Draft in Postgres.
type DraftRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Step      int       `gorm:"type:smallint" json:"step"`
	Payload   string    `gorm:"type:jsonb" json:"payload"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *DraftRecord) TableName() string {
	return "application_drafts"
}
