package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	config "github.com/foodbridge/donation-tracker-go/config"
	models "github.com/foodbridge/donation-tracker-go/models"
)

// ---------------- MY STATS ----------------
func GetMyStats(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		stats, err := cfg.Service.StatsFor(ctx, c.GetString("user_id"))
		if err != nil {
			writeDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// ---------------- ACTOR STATS ----------------
func GetActorStats(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")
		if c.GetString("role") != models.RoleAdmin && c.Param("id") != uid {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		stats, err := cfg.Service.StatsFor(ctx, c.Param("id"))
		if err != nil {
			writeDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// ---------------- LEADERBOARD ----------------
func GetLeaderboard(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		category := c.DefaultQuery("category", models.RoleRestaurant)
		limit := 0
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
				return
			}
			limit = n
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		entries, err := cfg.Service.Leaderboard(ctx, category, limit)
		if err != nil {
			writeDomainError(c, err)
			return
		}
		if entries == nil {
			entries = []models.ActorStats{}
		}
		c.JSON(http.StatusOK, entries)
	}
}
