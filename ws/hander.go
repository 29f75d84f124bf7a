package ws

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vnkhanh/mermurs-backend/config"
	"github.com/vnkhanh/mermurs-backend/models"
	"github.com/vnkhanh/mermurs-backend/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // chỉ để phát triển, nên giới hạn ở production
	},
}

// WebSocket cho lobby: người chơi vào đây là vào presence ring,
// admin vào với role admin thì chỉ theo dõi.
func HandleLobbyWebSocket(c *gin.Context) {
	lobbyCode := c.Param("code")
	token := c.Query("token")

	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Thiếu token"})
		return
	}
	claims, err := utils.VerifyToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token không hợp lệ hoặc hết hạn"})
		return
	}

	isAdmin := claims.Role == "admin"
	member := Member{ID: claims.UserID}

	if !isAdmin {
		// Người chơi phải có hàng trong mermurs players (đã join lobby)
		var player models.Player
		if err := config.DB.First(&player, "id = ?", claims.UserID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Người chơi chưa join lobby"})
			return
		}
		member.Name = player.Name
		member.Image = player.Image
	}

	log.Printf("Lobby WS connected: lobby=%s, userID=%s, admin=%v\n", lobbyCode, claims.UserID, isAdmin)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("WebSocket upgrade thất bại:", err)
		return
	}
	// Register tự chạy read/write pump, pump sẽ Unregister khi kết nối đóng
	H.Register(lobbyCode, conn, member, isAdmin)
}
