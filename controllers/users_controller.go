package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/foodbridge/donation-tracker-go/config"
	models "github.com/foodbridge/donation-tracker-go/models"
	utils "github.com/foodbridge/donation-tracker-go/utils"
)

// ---------------- LIST ----------------
// Restaurants use this with ?role=ngo to pick a recipient.
func ListUsers(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.Query("role")
		if role != "" && role != models.RoleRestaurant && role != models.RoleNGO {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role filter"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		actors, err := cfg.Store.ListActorsByRole(ctx, role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch users"})
			return
		}
		if actors == nil {
			actors = []models.Actor{}
		}
		c.JSON(http.StatusOK, actors)
	}
}

// ---------------- GET ----------------
func GetUser(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		actor, err := cfg.Store.GetActor(ctx, oid)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusOK, actor)
	}
}

// ---------------- DELETE ----------------
// Admin-only. Removes the account document; donation history and stats
// stay for reporting.
func DeleteUser(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		existing, err := cfg.Store.GetActor(ctx, oid)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if err := cfg.Store.DeleteActor(ctx, oid); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete user"})
			return
		}
		if existing.PhotoURL != "" {
			utils.DeleteFromCloudinary(existing.PhotoURL)
		}

		c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
	}
}

// ---------------- PROFILE PHOTO ----------------
func UploadProfilePhoto(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("user_id")
		userID, err := primitive.ObjectIDFromHex(uid)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		fileHeader, err := c.FormFile("photo")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open file"})
			return
		}
		defer file.Close()

		url, err := utils.UploadToCloudinary(file, fileHeader)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "photo upload failed",
				"details": err.Error(),
				"file":    fileHeader.Filename,
			})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// Replace the old photo, best effort cleanup of the previous one.
		existing, err := cfg.Store.GetActor(ctx, userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if err := cfg.Store.SetActorPhoto(ctx, userID, url); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update photo"})
			return
		}
		if existing.PhotoURL != "" {
			utils.DeleteFromCloudinary(existing.PhotoURL)
		}

		c.JSON(http.StatusOK, gin.H{"photo_url": url, "message": "photo updated"})
	}
}
