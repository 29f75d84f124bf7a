package models

import (
	"time"

	"github.com/google/uuid"
)

type Round struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	LobbyID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_lobby_round_number" json:"lobby_id"`
	Lobby       Lobby     `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	RoundNumber int       `gorm:"not null;uniqueIndex:idx_lobby_round_number" json:"round_number"` // 1-based, unique theo lobby để chặn advance 2 lần
	Language    string    `gorm:"size:20;not null" json:"language"`
	StartTime   time.Time `gorm:"autoCreateTime" json:"start_time"`
}
