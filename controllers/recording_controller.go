package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/mermurs-backend/models"
	"github.com/vnkhanh/mermurs-backend/utils"
	"github.com/vnkhanh/mermurs-backend/ws"
)

type StartRecordingInput struct {
	RoundID string `json:"round_id" binding:"required"`
}

// StartRecording đánh dấu recording cũ (nếu có) là incomplete khi người chơi
// ghi âm lại, để round-advance không lấy nhầm bản dở dang.
func StartRecording(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	code := c.Param("code")
	playerID := c.GetString("user_id")

	var input StartRecordingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.Recording
	err := db.First(&existing, "round_id = ? AND player_id = ?", input.RoundID, playerID).Error
	if err == nil {
		if err := db.Model(&existing).Updates(map[string]interface{}{
			"status":     "incomplete",
			"updated_at": time.Now(),
		}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không cập nhật được recording"})
			return
		}
		ws.SendLobbyEvent(code, "recording_again", gin.H{
			"player_id": playerID,
			"round_id":  input.RoundID,
		})
	}

	c.JSON(http.StatusOK, gin.H{"message": "OK"})
}

// UploadRecording nhận file WAV của người chơi, đẩy lên Supabase Storage và
// upsert hàng recording theo (round_id, player_id) — ghi âm lại đè tại chỗ.
func UploadRecording(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	code := c.Param("code")
	playerID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token không hợp lệ"})
		return
	}

	roundID, err := uuid.Parse(c.PostForm("round_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "round_id không hợp lệ"})
		return
	}
	phraseID, err := uuid.Parse(c.PostForm("phrase_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phrase_id không hợp lệ"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Thiếu file audio"})
		return
	}

	var lobby models.Lobby
	if err := db.First(&lobby, "lobby_code = ?", code).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy lobby"})
		return
	}

	publicURL, err := utils.UploadRecordingToSupabase(fileHeader, uuid.NewString())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload thất bại"})
		return
	}

	var existing models.Recording
	err = db.First(&existing, "round_id = ? AND player_id = ?", roundID, playerID).Error
	if err == nil {
		if err := db.Model(&existing).Updates(map[string]interface{}{
			"audio_path": publicURL,
			"status":     "completed",
			"updated_at": time.Now(),
		}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không cập nhật được recording"})
			return
		}
	} else {
		rec := models.Recording{
			LobbyID:   lobby.ID,
			RoundID:   roundID,
			PlayerID:  playerID,
			PhraseID:  phraseID,
			AudioPath: publicURL,
			Status:    "completed",
		}
		if err := db.Create(&rec).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không tạo được recording"})
			return
		}
	}

	// Báo admin biết người này đã ghi xong
	ws.SendLobbyEvent(code, "recording_done", gin.H{
		"player_id": playerID,
		"round_id":  roundID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":    "Recording đã upload và đánh dấu hoàn tất",
		"audio_path": publicURL,
	})
}
