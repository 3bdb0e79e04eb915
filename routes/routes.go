package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hotelops-backend/controllers"
	"hotelops-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func SetupRouter(
	ac *controllers.AuthController,
	rc *controllers.RoomController,
	pc *controllers.PickupController,
	gc *controllers.GuestController,
	gtc *controllers.GateController,
	cc *controllers.ChatController,
	nc *controllers.NotificationController,
	stc *controllers.StreamController,
	jwtSecret string,
	log *logrus.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(log), gin.Recovery())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", ac.Login)
			auth.POST("/register", ac.Register)
			auth.POST("/push-token", middleware.Auth(jwtSecret), ac.SavePushToken)
			auth.PUT("/profile", middleware.Auth(jwtSecret), ac.UpdateProfile)
		}

		authed := api.Group("", middleware.Auth(jwtSecret))
		{
			rooms := authed.Group("/rooms")
			{
				rooms.GET("", rc.GetRooms)
				rooms.POST("/:id/checkout", rc.Checkout)
				rooms.POST("/:id/housekeeping/advance", rc.AdvanceHousekeeping)
			}

			pickups := authed.Group("/pickups")
			{
				pickups.GET("", pc.List)
				pickups.POST("", pc.Create)
				pickups.POST("/:id/process", pc.Process)
				pickups.POST("/:id/complete", pc.Complete)
				pickups.POST("/:id/reset", pc.Reset)

				// /completed must stay ahead of /:id
				pickups.DELETE("/completed", pc.BulkDelete)
				pickups.DELETE("/:id", pc.Delete)
			}

			authed.GET("/guests", gc.GetGuests)

			chat := authed.Group("/chat")
			{
				chat.GET("/rooms", cc.ListRooms)
				chat.POST("/rooms", cc.CreateRoom)
				chat.POST("/rooms/:id/invite", cc.Invite)
				chat.POST("/rooms/:id/leave", cc.Leave)
				chat.GET("/rooms/:id/messages", cc.ListMessages)
				chat.POST("/rooms/:id/messages", cc.SendMessage)
			}

			notifications := authed.Group("/notifications")
			{
				notifications.GET("", nc.List)
				notifications.POST("/read-all", nc.MarkAllRead)
				notifications.POST("/:id/read", nc.MarkRead)
				notifications.DELETE("", nc.DeleteAll)
				notifications.DELETE("/:id", nc.Delete)
			}

			gate := authed.Group("/gate")
			{
				gate.GET("", gtc.Status)
				gate.POST("/authorize", gtc.Authorize)
				gate.DELETE("", gtc.Reset)
			}

			authed.GET("/stream/:collection", stc.Stream)
		}
	}

	return r
}
