package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/mermurs-backend/controllers"
	"github.com/vnkhanh/mermurs-backend/middleware"
	"github.com/vnkhanh/mermurs-backend/ws"
)

func SetupRouter(r *gin.Engine, db *gorm.DB) *gin.Engine {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/login", controllers.AdminLogin)
	}

	// Join công khai: chưa có token thì mới xin vào lobby được
	api.POST("/lobbies/:code/join", middleware.DBMiddleware(db), controllers.JoinLobby)

	player := api.Group("/lobbies/:code")
	{
		player.Use(middleware.AuthMiddleware(), middleware.DBMiddleware(db), middleware.RequireRoles("player", "admin"))
		player.POST("/leave", controllers.LeaveLobby)
		player.GET("/phrase", controllers.GetMyPhrase)
		player.POST("/recordings/start", controllers.StartRecording)
		player.POST("/recordings", controllers.UploadRecording)
	}

	admin := api.Group("/admin")
	{
		admin.Use(middleware.AuthMiddleware(), middleware.DBMiddleware(db), middleware.RequireRoles("admin"))

		//Quản lý lobby
		admin.POST("/lobbies", controllers.CreateLobby)
		admin.GET("/lobbies", controllers.GetLobbies)
		admin.GET("/lobbies/:code", controllers.GetLobbyDetail)
		admin.PATCH("/lobbies/:code/status", controllers.UpdateLobbyStatus)
		admin.DELETE("/lobbies/:code", controllers.DeleteLobby)
		admin.POST("/lobbies/:code/kick", controllers.KickPlayer)

		//Điều khiển game
		admin.POST("/lobbies/:code/advance", controllers.AdvanceRound)
		admin.POST("/lobbies/:code/review", controllers.StartReview)
		admin.POST("/lobbies/:code/review/step", controllers.ReviewStep)
	}

	r.GET("/ws/lobby/:code", ws.HandleLobbyWebSocket)

	return r
}
