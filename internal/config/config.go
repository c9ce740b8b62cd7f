package config

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	Port           string
	MongoURI       string
	DBName         string
	JWTSecret      string
	AccessTokenTTL time.Duration
	BaseDomain     string
	SPADir         string

	Upload UploadConfig
	Enrich EnrichConfig
	Logger LoggerConfig
}

// UploadConfig selects where uploaded images are kept.
type UploadConfig struct {
	Backend     string // "local" or "s3"
	Dir         string
	S3Bucket    string
	S3Region    string
	S3Prefix    string
	S3PublicURL string
}

// EnrichConfig points at the image-search and recipe collaborators.
type EnrichConfig struct {
	ImageSearchURL string
	ImageSearchKey string
	RecipeURL      string
	RecipeKey      string
	OnExtract      bool
	Timeout        time.Duration
}

type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

func Load() error {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}

	mongoURI := getEnvOrDefault("MONGODB_URI", "")
	if mongoURI == "" {
		mongoURI = getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017")
	}

	AppEnv = Config{
		Port:           getEnvOrDefault("PORT", "3001"),
		MongoURI:       mongoURI,
		DBName:         getEnvOrDefault("DB_NAME", "menuthenu"),
		JWTSecret:      getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL: getDurationEnv("ACCESS_TOKEN_TTL", 24, time.Hour),
		BaseDomain:     getEnvOrDefault("BASE_DOMAIN", "localhost"),
		SPADir:         getEnvOrDefault("SPA_DIR", "dist"),
		Upload: UploadConfig{
			Backend:     getEnvOrDefault("UPLOAD_BACKEND", "local"),
			Dir:         getEnvOrDefault("UPLOAD_DIR", "uploads"),
			S3Bucket:    getEnvOrDefault("S3_BUCKET", ""),
			S3Region:    getEnvOrDefault("S3_REGION", "us-east-1"),
			S3Prefix:    getEnvOrDefault("S3_PREFIX", "uploads/"),
			S3PublicURL: getEnvOrDefault("S3_PUBLIC_URL", ""),
		},
		Enrich: EnrichConfig{
			ImageSearchURL: getEnvOrDefault("IMAGE_SEARCH_URL", "https://api.pexels.com/v1/search"),
			ImageSearchKey: getEnvOrDefault("IMAGE_SEARCH_KEY", ""),
			RecipeURL:      getEnvOrDefault("RECIPE_API_URL", "https://api.spoonacular.com/recipes/complexSearch"),
			RecipeKey:      getEnvOrDefault("RECIPE_API_KEY", ""),
			OnExtract:      getBoolEnv("ENRICH_ON_EXTRACT", false),
			Timeout:        getDurationEnv("ENRICH_TIMEOUT", 8, time.Second),
		},
		Logger: LoggerConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	return AppEnv.Validate()
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	if c.MongoURI == "" {
		return fmt.Errorf("MONGODB_URI is required")
	}
	switch c.Upload.Backend {
	case "local":
		if c.Upload.Dir == "" {
			return fmt.Errorf("UPLOAD_DIR is required for the local upload backend")
		}
	case "s3":
		if c.Upload.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when UPLOAD_BACKEND=s3")
		}
		if c.Upload.S3Region == "" {
			return fmt.Errorf("S3_REGION is required when UPLOAD_BACKEND=s3")
		}
	default:
		return fmt.Errorf("unknown UPLOAD_BACKEND: %q", c.Upload.Backend)
	}
	return nil
}
