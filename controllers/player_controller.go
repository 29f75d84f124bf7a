package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/mermurs-backend/models"
	"github.com/vnkhanh/mermurs-backend/utils"
	"github.com/vnkhanh/mermurs-backend/ws"
)

type JoinLobbyInput struct {
	UUID  string `json:"uuid" binding:"required"` // client tự sinh, giữ trong sessionStorage
	Name  string `json:"name" binding:"required"`
	Image string `json:"image"`
}

// JoinLobby ghi danh người chơi vào lobby đang chờ và phát token role player.
// Client dùng token này để mở WebSocket (vào presence ring) và upload recording.
func JoinLobby(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	code := c.Param("code")

	var input JoinLobbyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	playerID, err := uuid.Parse(input.UUID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uuid không hợp lệ"})
		return
	}

	var lobby models.Lobby
	if err := db.First(&lobby, "lobby_code = ?", code).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy lobby"})
		return
	}
	if lobby.Status != "waiting" {
		c.JSON(http.StatusConflict, gin.H{"error": "Game đã bắt đầu hoặc kết thúc"})
		return
	}
	if len(ws.H.Members(code)) >= lobby.MaxPlayers {
		c.JSON(http.StatusConflict, gin.H{"error": "Lobby đã đủ người"})
		return
	}

	// Join lại (refresh) thì update tại chỗ
	player := models.Player{
		ID:      playerID,
		LobbyID: lobby.ID,
		Name:    input.Name,
		Image:   input.Image,
	}
	var existing models.Player
	if err := db.First(&existing, "id = ?", playerID).Error; err == nil {
		if err := db.Model(&existing).Updates(map[string]interface{}{
			"lobby_id": lobby.ID,
			"name":     input.Name,
			"image":    input.Image,
		}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không cập nhật được người chơi"})
			return
		}
	} else if err := db.Create(&player).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không tạo được người chơi"})
		return
	}

	token, err := utils.GenerateToken(playerID.String(), "player")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Đã vào lobby",
		"token":   token,
		"lobby":   lobby,
	})
}

// LeaveLobby xóa hàng người chơi; presence tự rớt khi client đóng WebSocket.
func LeaveLobby(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	code := c.Param("code")
	playerID := c.GetString("user_id")

	if err := db.Delete(&models.Player{}, "id = ?", playerID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không rời được lobby"})
		return
	}

	ws.SendLobbyEvent(code, "player_left", gin.H{"player_id": playerID})
	c.JSON(http.StatusOK, gin.H{"message": "Đã rời lobby"})
}

type KickPlayerInput struct {
	PlayerID string `json:"player_id" binding:"required"`
}

// KickPlayer (admin): xóa hàng người chơi và broadcast để client tự thoát.
func KickPlayer(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	code := c.Param("code")

	var input KickPlayerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := db.Delete(&models.Player{}, "id = ?", input.PlayerID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không kick được người chơi"})
		return
	}

	ws.SendLobbyEvent(code, "kick", gin.H{"kicked_member": input.PlayerID})
	c.JSON(http.StatusOK, gin.H{"message": "Đã kick người chơi"})
}

// GetMyPhrase trả phrase được giao cho người chơi trong round hiện tại.
func GetMyPhrase(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	code := c.Param("code")
	playerID := c.GetString("user_id")

	var lobby models.Lobby
	if err := db.First(&lobby, "lobby_code = ?", code).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy lobby"})
		return
	}
	if lobby.Round == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game chưa bắt đầu"})
		return
	}

	var phrase models.Phrase
	err := db.First(&phrase,
		"lobby_id = ? AND round_number = ? AND player_id = ?",
		lobby.ID, lobby.Round, playerID,
	).Error
	if err != nil {
		// Phrase của người này có thể đã bị drop do pipeline lỗi
		c.JSON(http.StatusNotFound, gin.H{"error": "Round này bạn không có phrase"})
		return
	}

	c.JSON(http.StatusOK, phrase)
}
