package models

import (
	"time"

	"github.com/google/uuid"
)

// Recording là audio người chơi thật sự nói trong 1 round.
// Unique theo (round_id, player_id): ghi âm lại sẽ update tại chỗ, không tạo hàng mới.
type Recording struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	LobbyID   uuid.UUID `gorm:"type:uuid;not null;index" json:"lobby_id"`
	RoundID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_round_player" json:"round_id"`
	PlayerID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_round_player" json:"player_id"`
	PhraseID  uuid.UUID `gorm:"type:uuid;not null" json:"phrase_id"`
	AudioPath string    `gorm:"type:text" json:"audio_path"`
	Status    string    `gorm:"type:VARCHAR(20);default:'incomplete'" json:"status"` // incomplete | completed
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
