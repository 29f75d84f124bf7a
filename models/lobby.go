package models

import (
	"time"

	"github.com/google/uuid"
)

type Lobby struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	LobbyCode   string    `gorm:"size:50;uniqueIndex;not null" json:"lobby_code"`
	Status      string    `gorm:"type:VARCHAR(20);default:'waiting'" json:"status"` // waiting | in_progress | review | ended
	MaxPlayers  int       `gorm:"default:10" json:"max_players"`
	ChainLength int       `gorm:"default:4" json:"chain_length"` // tổng số round của 1 game
	Round       int       `gorm:"default:0" json:"round"`        // round hiện tại, 0 = chưa bắt đầu
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
