package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	config "github.com/foodbridge/donation-tracker-go/config"
	models "github.com/foodbridge/donation-tracker-go/models"
	notify "github.com/foodbridge/donation-tracker-go/notify"
)

type disasterInput struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description" binding:"required"`
	Location        string `json:"location" binding:"required"`
	EstimatedPeople int    `json:"estimated_people"`
	Urgency         string `json:"urgency"`
	ContactNumber   string `json:"contact_number"`
}

// ---------------- CREATE ----------------
// NGOs report a disaster; every restaurant gets an alert notification.
func CreateDisaster(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != models.RoleNGO {
			c.JSON(http.StatusForbidden, gin.H{"error": "only NGOs can report disasters"})
			return
		}
		ngoID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		var input disasterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if input.EstimatedPeople <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "estimated_people must be positive"})
			return
		}
		switch input.Urgency {
		case "":
			input.Urgency = models.UrgencyHigh
		case models.UrgencyHigh, models.UrgencyMedium, models.UrgencyLow:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "urgency must be high, medium or low"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ngo, err := cfg.Store.GetActor(ctx, ngoID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		now := time.Now()
		disaster := &models.Disaster{
			NGOID:           ngoID,
			NGOName:         ngo.Name,
			Title:           input.Title,
			Description:     input.Description,
			Location:        input.Location,
			EstimatedPeople: input.EstimatedPeople,
			Urgency:         input.Urgency,
			ContactNumber:   input.ContactNumber,
			Status:          models.DisasterStatusActive,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := cfg.Store.InsertDisaster(ctx, disaster); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create disaster report"})
			return
		}

		notified, err := notify.BroadcastDisasterAlert(ctx, cfg.Store, cfg.Logger, disaster)
		if err != nil {
			// The report itself is saved; alerting is best effort.
			cfg.Logger.Error("disaster alert broadcast failed", zap.Error(err))
		}

		c.JSON(http.StatusCreated, gin.H{
			"disaster": disaster,
			"notified": notified,
		})
	}
}

// ---------------- LIST ----------------
func ListDisasters(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := c.Query("status")
		if status != "" && status != models.DisasterStatusActive && status != "resolved" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		disasters, err := cfg.Store.ListDisasters(ctx, status)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch disasters"})
			return
		}
		if disasters == nil {
			disasters = []models.Disaster{}
		}
		c.JSON(http.StatusOK, disasters)
	}
}
