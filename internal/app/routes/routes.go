package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ozgur/courier/internal/app/controllers"
	"github.com/ozgur/courier/internal/app/models/dto"
	"github.com/ozgur/courier/internal/pkg/ws"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	chatController *controllers.ChatController,
	messageController *controllers.MessageController,
	fileController *controllers.FileController,
	wsHandler *ws.Handler,
	jwtAuth gin.HandlerFunc,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(jwtAuth)
	{
		users := authenticated.Group("/users")
		{
			users.GET("", userController.SearchUsers)
			users.GET("/:id", userController.GetUser)
			users.PUT("/me", userController.UpdateProfile)
		}

		chats := authenticated.Group("/chats")
		{
			chats.POST("/direct", chatController.InitiateDirectChat)
			chats.POST("/group", chatController.CreateGroupChat)
			chats.GET("", chatController.ListChats)
			chats.GET("/:id", chatController.GetChat)

			chats.GET("/:id/messages", messageController.GetMessages)
			chats.POST("/:id/messages", messageController.SendMessage)
		}

		authenticated.POST("/files", fileController.UploadFile)

		// Live connection; the token may arrive as a query parameter since
		// browsers cannot set headers on the upgrade request
		authenticated.GET("/ws", wsHandler.HandleConnection)
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.NewSuccessResponse(gin.H{"status": "ok"}))
	})
}
