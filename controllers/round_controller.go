package controllers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/mermurs-backend/models"
	"github.com/vnkhanh/mermurs-backend/services"
	"github.com/vnkhanh/mermurs-backend/utils"
	"github.com/vnkhanh/mermurs-backend/ws"
)

// AdvanceRound (admin) đóng round hiện tại và mở round kế tiếp:
// round 1 phát seed phrase, round >= 2 chạy pipeline biến recording của round
// trước thành phrase mới cho người kế trong ring. Mỗi lobby chỉ advance được
// 1 lần cho mỗi round_number nhờ unique index (lobby_id, round_number).
func AdvanceRound(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	code := c.Param("code")

	var lobby models.Lobby
	if err := db.First(&lobby, "lobby_code = ?", code).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy lobby"})
		return
	}

	// Ring = người chơi đang online theo thứ tự join
	ring := currentRing(code)
	if len(ring) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Không có người chơi trong lobby"})
		return
	}

	newRoundNumber := lobby.Round + 1
	if newRoundNumber > lobby.ChainLength {
		c.JSON(http.StatusConflict, gin.H{"error": "Đã đủ số round, chuyển sang review"})
		return
	}

	// Cho client idle hiện màn hình chờ trong lúc pipeline chạy
	ws.SendLobbyEvent(code, "processing_started", gin.H{"round_number": newRoundNumber})

	if lobby.Round == 0 {
		seedFirstRound(c, db, &lobby, code, ring)
		return
	}

	advanceFromRecordings(c, db, &lobby, code, ring, newRoundNumber)
}

func currentRing(code string) []services.RingMember {
	members := ws.H.Members(code)
	ring := make([]services.RingMember, 0, len(members))
	for _, m := range members {
		id, err := uuid.Parse(m.ID)
		if err != nil {
			continue
		}
		ring = append(ring, services.RingMember{ID: id, Name: m.Name, Image: m.Image})
	}
	return ring
}

// seedFirstRound phát cho mỗi người chơi 1 câu mở đầu từ bank (đã xáo).
func seedFirstRound(c *gin.Context, db *gorm.DB, lobby *models.Lobby, code string, ring []services.RingMember) {
	round := models.Round{
		ID:          uuid.New(),
		LobbyID:     lobby.ID,
		RoundNumber: 1,
		Language:    services.BaseLanguage,
	}
	phrases := services.BuildSeedPhrases(lobby.ID, round.ID, ring, services.StartingPhraseBank())

	tx := db.Begin()
	if err := tx.Create(&round).Error; err != nil {
		tx.Rollback()
		ws.SendLobbyEvent(code, "processing_failed", gin.H{"round_number": 1})
		c.JSON(http.StatusConflict, gin.H{"error": "Round 1 đã được tạo"})
		return
	}
	if err := tx.Create(&phrases).Error; err != nil {
		tx.Rollback()
		ws.SendLobbyEvent(code, "processing_failed", gin.H{"round_number": 1})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không tạo được phrase"})
		return
	}
	if err := tx.Model(lobby).Updates(map[string]interface{}{
		"round":  1,
		"status": "in_progress",
	}).Error; err != nil {
		tx.Rollback()
		ws.SendLobbyEvent(code, "processing_failed", gin.H{"round_number": 1})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không cập nhật được lobby"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		ws.SendLobbyEvent(code, "processing_failed", gin.H{"round_number": 1})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không lưu được round mới"})
		return
	}

	ws.SendLobbyEvent(code, "processing_done", gin.H{"round_number": 1, "dropped": 0})
	ws.SendLobbyEvent(code, "round_started", round)

	c.JSON(http.StatusOK, gin.H{
		"message": "Đã bắt đầu round 1",
		"round":   round,
		"phrases": len(phrases),
	})
}

// advanceFromRecordings chạy pipeline cho các recording hoàn tất của round
// đang đóng rồi lưu round mới + phrase mới trong 1 transaction.
func advanceFromRecordings(c *gin.Context, db *gorm.DB, lobby *models.Lobby, code string, ring []services.RingMember, newRoundNumber int) {
	var prevRound models.Round
	if err := db.First(&prevRound, "lobby_id = ? AND round_number = ?", lobby.ID, lobby.Round).Error; err != nil {
		ws.SendLobbyEvent(code, "processing_failed", gin.H{"round_number": newRoundNumber})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không lấy được dữ liệu round trước"})
		return
	}

	var allCount int64
	db.Model(&models.Recording{}).Where("round_id = ?", prevRound.ID).Count(&allCount)
	if allCount == 0 {
		ws.SendLobbyEvent(code, "processing_failed", gin.H{"round_number": newRoundNumber})
		c.JSON(http.StatusBadRequest, gin.H{"error": "Chưa có recording nào để advance"})
		return
	}

	var recordings []models.Recording
	if err := db.Where("round_id = ? AND status = ?", prevRound.ID, "completed").
		Order("created_at asc").Find(&recordings).Error; err != nil || len(recordings) == 0 {
		ws.SendLobbyEvent(code, "processing_failed", gin.H{"round_number": newRoundNumber})
		c.JSON(http.StatusBadRequest, gin.H{"error": "Round trước chưa hoàn tất recording"})
		return
	}

	isFinal := newRoundNumber == lobby.ChainLength
	nextLang := services.NextLanguage(newRoundNumber, isFinal, prevRound.Language)

	round := models.Round{
		ID:          uuid.New(),
		LobbyID:     lobby.ID,
		RoundNumber: newRoundNumber,
		Language:    nextLang,
	}

	result := services.BuildNextRoundPhrases(
		c.Request.Context(),
		lobby.ID, round.ID, newRoundNumber, nextLang,
		recordings, ring,
		func(ctx context.Context, rec models.Recording) (services.ProcessedPhrase, error) {
			return processRecording(ctx, rec, prevRound.Language, nextLang)
		},
	)

	if len(result.Phrases) == 0 {
		ws.SendLobbyEvent(code, "processing_failed", gin.H{"round_number": newRoundNumber})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Xử lý recording thất bại toàn bộ"})
		return
	}

	tx := db.Begin()
	if err := tx.Create(&round).Error; err != nil {
		// Unique (lobby_id, round_number): advance 2 lần chỉ tạo được 1 round
		tx.Rollback()
		ws.SendLobbyEvent(code, "processing_failed", gin.H{"round_number": newRoundNumber})
		c.JSON(http.StatusConflict, gin.H{"error": "Round này đã được advance"})
		return
	}
	if err := tx.Create(&result.Phrases).Error; err != nil {
		tx.Rollback()
		ws.SendLobbyEvent(code, "processing_failed", gin.H{"round_number": newRoundNumber})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không lưu được phrase mới"})
		return
	}
	// Gắn audio người chơi đã ghi vào phrase gốc để review phát lại
	for _, rec := range recordings {
		if err := tx.Model(&models.Phrase{}).Where("id = ?", rec.PhraseID).
			Update("recorded_audio_url", rec.AudioPath).Error; err != nil {
			tx.Rollback()
			ws.SendLobbyEvent(code, "processing_failed", gin.H{"round_number": newRoundNumber})
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không cập nhật được phrase gốc"})
			return
		}
	}
	if err := tx.Model(lobby).Update("round", newRoundNumber).Error; err != nil {
		tx.Rollback()
		ws.SendLobbyEvent(code, "processing_failed", gin.H{"round_number": newRoundNumber})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không cập nhật được lobby"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		ws.SendLobbyEvent(code, "processing_failed", gin.H{"round_number": newRoundNumber})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không lưu được round mới"})
		return
	}

	ws.SendLobbyEvent(code, "processing_done", gin.H{
		"round_number": newRoundNumber,
		"dropped":      result.Dropped,
	})
	ws.SendLobbyEvent(code, "round_started", round)

	c.JSON(http.StatusOK, gin.H{
		"message": "Đã advance round",
		"round":   round,
		"phrases": len(result.Phrases),
		"dropped": result.Dropped,
	})
}

// processRecording: transcribe (kèm dịch sang ngôn ngữ round mới) -> TTS ->
// upload audio -> assist/translate nếu cần -> đo thời lượng.
func processRecording(ctx context.Context, rec models.Recording, oldLang, nextLang string) (services.ProcessedPhrase, error) {
	var out services.ProcessedPhrase

	text, err := services.CallTranscribeAPI(ctx, rec.AudioPath, oldLang, nextLang)
	if err != nil {
		return out, err
	}
	out.Text = text

	audio, err := services.SynthesizeText(ctx, text, nextLang)
	if err != nil {
		return out, err
	}

	audioURL, err := utils.UploadBytesToSupabase(audio, uuid.NewString()+".mp3", "audio/mpeg")
	if err != nil {
		return out, err
	}
	out.AudioURL = audioURL

	if services.LanguageNeedsAssist(nextLang) {
		assist, err := services.GeminiPronunciationAssist(ctx, text)
		if err != nil {
			return out, err
		}
		out.AssistText = assist
	}

	if nextLang != services.BaseLanguage {
		translated, err := services.GeminiTranslateToEnglish(ctx, text)
		if err != nil {
			return out, err
		}
		out.TranslatedText = translated
	}

	// Thời lượng chỉ phục vụ countdown, lỗi thì bỏ qua
	if dur, err := services.GetMP3DurationFromURL(audioURL); err == nil {
		out.DurationSec = dur
	} else {
		log.Println("Không đo được thời lượng MP3:", err)
	}

	return out, nil
}
