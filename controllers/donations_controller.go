package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	config "github.com/foodbridge/donation-tracker-go/config"
	"github.com/foodbridge/donation-tracker-go/donation"
	models "github.com/foodbridge/donation-tracker-go/models"
	utils "github.com/foodbridge/donation-tracker-go/utils"
)

// ---------------- CREATE ----------------
func CreateDonation(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != models.RoleRestaurant {
			c.JSON(http.StatusForbidden, gin.H{"error": "only restaurants can create donations"})
			return
		}

		var input donation.CreateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		d, err := cfg.Service.Create(ctx, c.GetString("user_id"), input)
		if err != nil {
			writeDomainError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"id":       d.ID.Hex(),
			"total_kg": d.TotalKg,
			"message":  "donation created",
		})
	}
}

// ---------------- LIST ----------------
func ListDonations(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		status := models.DonationStatus(c.Query("status"))
		donations, err := cfg.Service.ListFor(ctx, c.GetString("user_id"), c.GetString("role"), status)
		if err != nil {
			writeDomainError(c, err)
			return
		}

		if len(donations) == 0 {
			c.JSON(http.StatusOK, []models.Donation{})
			return
		}

		redactCodes(donations, c.GetString("user_id"))

		// --- Pick the most recently updated donation ---
		latest := donations[0]
		for _, d := range donations {
			if d.UpdatedAt.After(latest.UpdatedAt) {
				latest = d
			}
		}

		// --- Generate ETag from latest donation ---
		etag := utils.GenerateETag(latest.ID, latest.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)

		// --- Add Last-Modified from latest donation ---
		c.Header("Last-Modified", latest.UpdatedAt.UTC().Format(http.TimeFormat))

		c.JSON(http.StatusOK, donations)
	}
}

// ---------------- GET ----------------
func GetDonation(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		d, err := cfg.Service.Get(ctx, c.Param("id"))
		if err != nil {
			writeDomainError(c, err)
			return
		}

		uid := c.GetString("user_id")
		if c.GetString("role") != models.RoleAdmin &&
			d.RestaurantID.Hex() != uid && d.NGOID.Hex() != uid {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		single := []models.Donation{*d}
		redactCodes(single, uid)

		etag := utils.GenerateETag(d.ID, d.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)

		c.JSON(http.StatusOK, single[0])
	}
}

// ---------------- ACCEPT ----------------
func AcceptDonation(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		d, err := cfg.Service.Accept(ctx, c.Param("id"), c.GetString("user_id"))
		if err != nil {
			writeDomainError(c, err)
			return
		}

		// The recipient reads the code to the donor at handoff.
		c.JSON(http.StatusOK, gin.H{
			"id":                d.ID.Hex(),
			"status":            d.Status,
			"verification_code": d.VerificationCode,
			"message":           "donation accepted",
		})
	}
}

// ---------------- REJECT ----------------
func RejectDonation(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		d, err := cfg.Service.Reject(ctx, c.Param("id"), c.GetString("user_id"))
		if err != nil {
			writeDomainError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":      d.ID.Hex(),
			"status":  d.Status,
			"message": "donation rejected",
		})
	}
}

// ---------------- VERIFY ----------------
func VerifyDonation(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Code string `json:"code" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		d, err := cfg.Service.Verify(ctx, c.Param("id"), c.GetString("user_id"), input.Code)
		if err != nil {
			writeDomainError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":           d.ID.Hex(),
			"status":       d.Status,
			"completed_at": d.CompletedAt,
			"message":      "donation completed",
		})
	}
}

// redactCodes copies the verification code into the response only for
// the recipient side, and only while it is still needed for handoff.
func redactCodes(donations []models.Donation, requesterID string) {
	for i := range donations {
		d := &donations[i]
		if d.Status == models.StatusAccepted && d.NGOID.Hex() == requesterID {
			d.CodeForRecipient = d.VerificationCode
		}
	}
}
