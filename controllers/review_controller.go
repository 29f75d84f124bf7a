package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/mermurs-backend/models"
	"github.com/vnkhanh/mermurs-backend/services"
	"github.com/vnkhanh/mermurs-backend/ws"
)

// StartReview (admin) dựng lại các chain từ toàn bộ phrase của lobby và
// broadcast cho client vào màn hình album. Gọi lại nhiều lần cho cùng kết quả.
func StartReview(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	code := c.Param("code")

	var lobby models.Lobby
	if err := db.First(&lobby, "lobby_code = ?", code).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy lobby"})
		return
	}

	var phrases []models.Phrase
	if err := db.Where("lobby_id = ?", lobby.ID).
		Order("created_at asc").Find(&phrases).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không tìm thấy dữ liệu review"})
		return
	}

	chains := services.BuildChains(phrases)

	if lobby.Status != "review" {
		if err := db.Model(&lobby).Update("status", "review").Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không cập nhật được status"})
			return
		}
	}

	ws.SendLobbyEvent(code, "review_started", gin.H{"chains": chains})

	c.JSON(http.StatusOK, gin.H{
		"chains": chains,
	})
}

type ReviewStepInput struct {
	Step int `json:"step"`
}

// ReviewStep (admin) đồng bộ trang album đang xem cho toàn bộ client.
func ReviewStep(c *gin.Context) {
	code := c.Param("code")

	var input ReviewStepInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ws.SendLobbyEvent(code, "review_step", gin.H{"step": input.Step})
	c.JSON(http.StatusOK, gin.H{"message": "OK"})
}
