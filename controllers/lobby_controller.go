package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/vnkhanh/mermurs-backend/models"
	"github.com/vnkhanh/mermurs-backend/utils"
	"github.com/vnkhanh/mermurs-backend/ws"
)

type CreateLobbyInput struct {
	LobbyCode   string `json:"lobby_code" binding:"required"`
	MaxPlayers  int    `json:"max_players"`
	ChainLength int    `json:"chain_length"`
}

func CreateLobby(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input CreateLobbyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Chuẩn hóa code để dùng trong URL và tên channel
	code := slug.Make(input.LobbyCode)
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Lobby code không hợp lệ"})
		return
	}

	lobby := models.Lobby{
		LobbyCode:   code,
		MaxPlayers:  input.MaxPlayers,
		ChainLength: input.ChainLength,
	}
	if lobby.MaxPlayers <= 0 {
		lobby.MaxPlayers = 10
	}
	if lobby.ChainLength <= 0 {
		lobby.ChainLength = 4
	}

	if err := db.Create(&lobby).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Lobby code đã tồn tại"})
		return
	}

	c.JSON(http.StatusCreated, lobby)
}

func GetLobbies(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var lobbies []models.Lobby
	if err := db.Order("created_at asc").Find(&lobbies).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không lấy được danh sách lobby"})
		return
	}
	c.JSON(http.StatusOK, lobbies)
}

func GetLobbyDetail(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	code := c.Param("code")

	var lobby models.Lobby
	if err := db.First(&lobby, "lobby_code = ?", code).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy lobby"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lobby":   lobby,
		"members": ws.H.Members(code),
	})
}

type UpdateLobbyStatusInput struct {
	Status string `json:"status" binding:"required"`
}

func UpdateLobbyStatus(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	code := c.Param("code")

	var input UpdateLobbyStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch input.Status {
	case "waiting", "in_progress", "review", "ended":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status không hợp lệ"})
		return
	}

	var lobby models.Lobby
	if err := db.First(&lobby, "lobby_code = ?", code).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy lobby"})
		return
	}

	if err := db.Model(&lobby).Update("status", input.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không cập nhật được status"})
		return
	}

	// Báo client đổi màn hình theo status mới
	ws.SendLobbyEvent(code, "lobby_status", gin.H{"status": input.Status, "round": lobby.Round})

	c.JSON(http.StatusOK, gin.H{"message": "Đã cập nhật status", "status": input.Status})
}

func DeleteLobby(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	code := c.Param("code")

	var lobby models.Lobby
	if err := db.First(&lobby, "lobby_code = ?", code).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy lobby"})
		return
	}

	// Dọn audio ghi âm trên storage trước khi xóa hàng
	var recordings []models.Recording
	db.Where("lobby_id = ?", lobby.ID).Find(&recordings)
	for _, rec := range recordings {
		if err := utils.DeleteFileFromSupabase(rec.AudioPath); err != nil {
			log.Println("Không xóa được file recording:", err)
		}
	}

	tx := db.Begin()
	tx.Where("lobby_id = ?", lobby.ID).Delete(&models.Recording{})
	tx.Where("lobby_id = ?", lobby.ID).Delete(&models.Phrase{})
	tx.Where("lobby_id = ?", lobby.ID).Delete(&models.Round{})
	tx.Where("lobby_id = ?", lobby.ID).Delete(&models.Player{})
	tx.Delete(&lobby)
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không xóa được lobby"})
		return
	}

	ws.SendLobbyEvent(code, "lobby_status", gin.H{"status": "ended"})
	c.JSON(http.StatusOK, gin.H{"message": "Đã xóa lobby"})
}
