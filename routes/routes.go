package routes

import (
	"github.com/gin-gonic/gin"

	config "github.com/foodbridge/donation-tracker-go/config"
	controllers "github.com/foodbridge/donation-tracker-go/controllers"
	middleware "github.com/foodbridge/donation-tracker-go/middleware"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config) {
	// public
	r.POST("/auth/register", controllers.Register(cfg))
	r.POST("/auth/login", controllers.Login(cfg))
	r.POST("/auth/refresh", controllers.RefreshToken(cfg))

	// protected
	auth := middleware.AuthMiddleware(cfg)

	users := r.Group("/users")
	users.Use(auth)
	{
		users.GET("", controllers.ListUsers(cfg))
		users.GET(":id", controllers.GetUser(cfg))
		users.POST("me/photo", controllers.UploadProfilePhoto(cfg))
		users.DELETE(":id", controllers.DeleteUser(cfg))
	}

	disasters := r.Group("/disasters")
	disasters.Use(auth)
	{
		disasters.POST("", controllers.CreateDisaster(cfg))
		disasters.GET("", controllers.ListDisasters(cfg))
	}

	donations := r.Group("/donations")
	donations.Use(auth)
	{
		donations.POST("", controllers.CreateDonation(cfg))
		donations.GET("", controllers.ListDonations(cfg))
		donations.GET("/:id", controllers.GetDonation(cfg))
		donations.POST("/:id/accept", controllers.AcceptDonation(cfg))
		donations.POST("/:id/reject", controllers.RejectDonation(cfg))
		donations.POST("/:id/verify", controllers.VerifyDonation(cfg))
	}

	stats := r.Group("/stats")
	stats.Use(auth)
	{
		stats.GET("/me", controllers.GetMyStats(cfg))
		stats.GET("/:id", controllers.GetActorStats(cfg))
	}
	r.GET("/leaderboard", auth, controllers.GetLeaderboard(cfg))

	notifs := r.Group("/notifications")
	notifs.Use(auth)
	{
		notifs.GET("", controllers.ListNotifications(cfg))
		notifs.PATCH("/:id/read", controllers.MarkNotificationRead(cfg))
	}
}
