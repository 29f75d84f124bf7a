package models

import (
	"time"

	"github.com/google/uuid"
)

// Phrase là câu mà 1 người chơi phải đọc trong 1 round.
// OriginalPhraseID trỏ về phrase mà bản ghi âm của nó sinh ra phrase này
// (null = seed phrase của round 1, gốc của 1 chain).
type Phrase struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	LobbyID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"lobby_id"`
	RoundID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"round_id"`
	RoundNumber      int        `gorm:"not null" json:"round_number"`
	PlayerID         uuid.UUID  `gorm:"type:uuid;not null" json:"player_id"` // người được giao đọc phrase này
	Text             string     `gorm:"type:text;not null" json:"text"`
	AudioURL         string     `gorm:"type:text" json:"audio_url"` // audio đã synthesize
	Language         string     `gorm:"size:20" json:"language"`
	AssistText       string     `gorm:"type:text" json:"assist_text"`      // pinyin / romanized tamil
	TranslatedText   string     `gorm:"type:text" json:"translated_text"`  // bản dịch tiếng Anh
	OriginalPhraseID *uuid.UUID `gorm:"type:uuid;index" json:"original_phrase_id"`
	RecordedAudioURL string     `gorm:"type:text" json:"recorded_audio_url"` // audio người chơi tự ghi
	DurationSec      float64    `json:"duration_sec"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
