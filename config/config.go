package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/foodbridge/donation-tracker-go/donation"
	"github.com/foodbridge/donation-tracker-go/store"
)

type Config struct {
	Port        string
	DBName      string
	MongoClient *mongo.Client
	JWTSecret   string
	AccessTTL   time.Duration
	RefreshTTL  time.Duration
	SendEmails  bool

	Logger  *zap.Logger
	Store   donation.Store
	Service *donation.Service
}

// Load reads the environment (optionally from .env), dials the store
// and wires the donation service. STORE=memory skips Mongo entirely,
// for local development and tests.
func Load() (*Config, error) {
	// .env is optional; in production the platform provides the env
	_ = godotenv.Load()

	logger, err := newLogger()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:       getEnv("PORT", "8080"),
		DBName:     getEnv("DB_NAME", "foodbridge"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
		SendEmails: os.Getenv("ZEPTO_API_KEY") != "",
		Logger:     logger,
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}

	if getEnv("STORE", "mongo") == "memory" {
		logger.Warn("using in-memory store, data will not survive restarts")
		cfg.Store = store.NewMemory()
	} else {
		uri := os.Getenv("MONGO_URI")
		if uri == "" {
			return nil, fmt.Errorf("MONGO_URI not set")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err != nil {
			return nil, fmt.Errorf("could not connect to mongo: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			return nil, fmt.Errorf("could not ping mongo: %w", err)
		}
		cfg.MongoClient = client
		cfg.Store = store.NewMongo(client, cfg.DBName, logger)
	}

	svcCfg := donation.DefaultConfig()
	if raw := os.Getenv("VERIFY_MAX_ATTEMPTS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid VERIFY_MAX_ATTEMPTS %q", raw)
		}
		svcCfg.MaxVerifyAttempts = n
	}
	cfg.Service = donation.NewService(cfg.Store, logger, svcCfg)

	return cfg, nil
}

func newLogger() (*zap.Logger, error) {
	if getEnv("APP_ENV", "development") == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
