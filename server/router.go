package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"social-relay/domain/model"
	httpHandler "social-relay/interfaces/http"
	"social-relay/interfaces/middleware"
)

func InitiateRouter(
	tokenHandler httpHandler.ITokenHandler,
	publishHandler httpHandler.IPublishHandler,
	connectHandler httpHandler.IConnectHandler,
	frontendOrigin string,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontendOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Token exchange, one route per provider through the shared handler.
	router.POST("/linkedin/token", tokenHandler.Exchange(model.PlatformLinkedIn))
	router.POST("/facebook/token", tokenHandler.Exchange(model.PlatformFacebook))
	router.POST("/youtube/token", tokenHandler.Exchange(model.PlatformYouTube))

	router.POST("/linkedin/post", publishHandler.LinkedInPost)
	router.POST("/facebook/post", publishHandler.FacebookPost)
	router.POST("/youtube/upload", publishHandler.YouTubeUpload)

	router.GET("/auth/:provider", connectHandler.GetAuthURL)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("api")
	api.Use(middleware.Auth())
	api.GET("/:provider/status", connectHandler.Status)

	return router
}
