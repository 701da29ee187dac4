package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	config "github.com/foodbridge/donation-tracker-go/config"
	"github.com/foodbridge/donation-tracker-go/middleware"
	"github.com/foodbridge/donation-tracker-go/notify"
	"github.com/foodbridge/donation-tracker-go/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	defer cfg.Logger.Sync()

	// notification fan-out off the domain event stream
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker := notify.NewWorker(cfg.Store, cfg.Service.Events(), cfg.Logger, cfg.SendEmails)
	go worker.Run(ctx)

	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "If-None-Match"},
		ExposeHeaders:    []string{"ETag", "Last-Modified", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, cfg)

	cfg.Logger.Info("starting server", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		cfg.Logger.Fatal("server stopped", zap.Error(err))
	}
}
