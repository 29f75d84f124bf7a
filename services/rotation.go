package services

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vnkhanh/mermurs-backend/models"
)

const (
	BaseLanguage = "english"

	// Timeout cho pipeline xử lý 1 recording (transcribe + TTS + Gemini).
	// 1 recording bị kẹt không được phép chặn cả round.
	PipelineTimeout = 120 * time.Second
)

// Các ngôn ngữ xoay vòng giữa các round (trừ round 1 và round cuối).
var RotationLanguages = []string{"chinese", "malay", "tamil"}

// LanguageNeedsAssist: ngôn ngữ không dùng chữ Latin thì cần trợ giúp phát âm.
func LanguageNeedsAssist(lang string) bool {
	return lang == "chinese" || lang == "tamil"
}

// NextLanguage chọn ngôn ngữ cho round sắp tạo.
// Round 1 và round cuối luôn là tiếng Anh; các round giữa chọn ngẫu nhiên
// trong RotationLanguages nhưng không lặp lại ngôn ngữ của round trước.
func NextLanguage(roundNumber int, isFinal bool, previous string) string {
	if roundNumber <= 1 || isFinal {
		return BaseLanguage
	}

	candidates := make([]string, 0, len(RotationLanguages))
	for _, lang := range RotationLanguages {
		if lang != previous {
			candidates = append(candidates, lang)
		}
	}
	if len(candidates) == 0 {
		return BaseLanguage
	}
	return candidates[rand.Intn(len(candidates))]
}

// RingMember là 1 người chơi trong vòng xoay, theo thứ tự join presence.
type RingMember struct {
	ID    uuid.UUID
	Name  string
	Image string
}

// NextRecipient tìm người nhận phrase: người ngồi ngay sau người nói trong ring.
// Trả về false nếu người nói không còn trong ring (đã rời lobby).
func NextRecipient(ring []RingMember, speakerID uuid.UUID) (RingMember, bool) {
	for i, m := range ring {
		if m.ID == speakerID {
			return ring[(i+1)%len(ring)], true
		}
	}
	return RingMember{}, false
}

// ProcessedPhrase là kết quả pipeline cho 1 recording.
type ProcessedPhrase struct {
	Text           string
	AudioURL       string
	AssistText     string
	TranslatedText string
	DurationSec    float64
}

// PipelineFunc xử lý audio của 1 recording thành phrase mới
// (transcribe -> synthesize -> assist/translate nếu cần).
type PipelineFunc func(ctx context.Context, rec models.Recording) (ProcessedPhrase, error)

// RotationResult gom kết quả của 1 lần advance round.
type RotationResult struct {
	Phrases []models.Phrase
	Dropped int // số recording bị bỏ vì pipeline lỗi hoặc người nói đã rời
}

// BuildNextRoundPhrases biến các recording hoàn tất của round đang đóng thành
// phrase của round mới. Pipeline chạy song song từng recording; recording nào
// lỗi thì bỏ qua (log, không fatal) — người nhận tương ứng không có phrase
// round đó, những người còn lại vẫn tiếp tục.
func BuildNextRoundPhrases(
	ctx context.Context,
	lobbyID, roundID uuid.UUID,
	roundNumber int,
	language string,
	recordings []models.Recording,
	ring []RingMember,
	process PipelineFunc,
) RotationResult {
	results := make([]*models.Phrase, len(recordings))

	var wg sync.WaitGroup
	var mu sync.Mutex
	dropped := 0

	for i, rec := range recordings {
		recipient, ok := NextRecipient(ring, rec.PlayerID)
		if !ok {
			log.Printf("Người nói %s không còn trong ring, bỏ recording %s", rec.PlayerID, rec.ID)
			mu.Lock()
			dropped++
			mu.Unlock()
			continue
		}

		wg.Add(1)
		go func(i int, rec models.Recording, recipient RingMember) {
			defer wg.Done()

			recCtx, cancel := context.WithTimeout(ctx, PipelineTimeout)
			defer cancel()

			out, err := process(recCtx, rec)
			if err != nil {
				log.Printf("Pipeline lỗi cho recording %s (player %s): %v", rec.ID, rec.PlayerID, err)
				mu.Lock()
				dropped++
				mu.Unlock()
				return
			}

			originalID := rec.PhraseID
			mu.Lock()
			results[i] = &models.Phrase{
				LobbyID:          lobbyID,
				RoundID:          roundID,
				RoundNumber:      roundNumber,
				PlayerID:         recipient.ID,
				Text:             out.Text,
				AudioURL:         out.AudioURL,
				Language:         language,
				AssistText:       out.AssistText,
				TranslatedText:   out.TranslatedText,
				OriginalPhraseID: &originalID,
				DurationSec:      out.DurationSec,
			}
			mu.Unlock()
		}(i, rec, recipient)
	}

	wg.Wait()

	// Giữ thứ tự recording đầu vào cho batch insert ổn định
	phrases := make([]models.Phrase, 0, len(recordings))
	for _, p := range results {
		if p != nil {
			phrases = append(phrases, *p)
		}
	}

	return RotationResult{Phrases: phrases, Dropped: dropped}
}

// BuildSeedPhrases tạo phrase round 1 từ ngân hàng câu mở đầu: xáo bank rồi
// phát cho từng người chơi theo thứ tự ring. Không có backlink (gốc chain).
func BuildSeedPhrases(lobbyID, roundID uuid.UUID, ring []RingMember, bank []StartingPhrase) []models.Phrase {
	shuffled := make([]StartingPhrase, len(bank))
	copy(shuffled, bank)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	phrases := make([]models.Phrase, 0, len(ring))
	for i, m := range ring {
		seed := shuffled[i%len(shuffled)]
		phrases = append(phrases, models.Phrase{
			LobbyID:     lobbyID,
			RoundID:     roundID,
			RoundNumber: 1,
			PlayerID:    m.ID,
			Text:        seed.Text,
			AudioURL:    seed.Audio,
			Language:    BaseLanguage,
		})
	}
	return phrases
}
