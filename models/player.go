package models

import (
	"time"

	"github.com/google/uuid"
)

// Player là hàng ghi danh của người chơi trong 1 lobby.
// ID do client sinh (uuid) và giữ trong sessionStorage, nên không dùng default.
// Hàng bị xóa khi người chơi rời lobby hoặc bị kick; presence trực tiếp do ws hub quản lý.
type Player struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LobbyID  uuid.UUID `gorm:"type:uuid;not null;index" json:"lobby_id"`
	Lobby    Lobby     `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Name     string    `gorm:"size:100;not null" json:"name"`
	Image    string    `gorm:"type:text" json:"image"` // avatar
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}
