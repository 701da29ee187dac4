package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	config "github.com/foodbridge/donation-tracker-go/config"
	"github.com/foodbridge/donation-tracker-go/donation"
	models "github.com/foodbridge/donation-tracker-go/models"
)

// ---------------- REGISTER ----------------
func Register(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email    string  `json:"email" binding:"required,email"`
			Password string  `json:"password" binding:"required,min=8"`
			Name     string  `json:"name" binding:"required"`
			Role     string  `json:"role" binding:"required"`
			Phone    string  `json:"phone"`
			Lat      float64 `json:"lat"`
			Lng      float64 `json:"lng"`
			Address  string  `json:"address"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// role is immutable after creation, so reject anything unknown here
		if input.Role != models.RoleRestaurant && input.Role != models.RoleNGO {
			c.JSON(http.StatusBadRequest, gin.H{"error": "role must be restaurant or ngo"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := cfg.Store.GetActorByEmail(ctx, input.Email); err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		} else if !errors.Is(err, donation.ErrNotFound) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "backend temporarily unavailable"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
			return
		}

		now := time.Now()
		actor := models.Actor{
			Email:        strings.ToLower(input.Email),
			PasswordHash: string(hash),
			Name:         input.Name,
			Role:         input.Role,
			Phone:        input.Phone,
			Coordinates:  models.Coordinates{Lat: input.Lat, Lng: input.Lng},
			Address:      input.Address,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := cfg.Store.InsertActor(ctx, &actor); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create account"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"id": actor.ID.Hex(), "message": "account created"})
	}
}

// ---------------- LOGIN ----------------
func Login(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		actor, err := cfg.Store.GetActorByEmail(ctx, strings.ToLower(input.Email))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(actor.PasswordHash), []byte(input.Password)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		access, refresh, err := issueTokens(cfg, actor)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue tokens"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"access_token":  access,
			"refresh_token": refresh,
			"user":          actor,
		})
	}
}

// ---------------- REFRESH ----------------
func RefreshToken(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			RefreshToken string `json:"refresh_token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		token, err := jwt.Parse(input.RefreshToken, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}
		if typ, _ := claims["typ"].(string); typ != "refresh" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not a refresh token"})
			return
		}
		sub, _ := claims["sub"].(string)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		id, err := primitive.ObjectIDFromHex(sub)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}
		actor, err := cfg.Store.GetActor(ctx, id)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "account no longer exists"})
			return
		}

		access, refresh, err := issueTokens(cfg, actor)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue tokens"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"access_token": access, "refresh_token": refresh})
	}
}

func issueTokens(cfg *config.Config, actor *models.Actor) (string, string, error) {
	now := time.Now()
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  actor.ID.Hex(),
		"role": actor.Role,
		"typ":  "access",
		"iat":  now.Unix(),
		"exp":  now.Add(cfg.AccessTTL).Unix(),
	}).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", "", err
	}
	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": actor.ID.Hex(),
		"typ": "refresh",
		"iat": now.Unix(),
		"exp": now.Add(cfg.RefreshTTL).Unix(),
	}).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
