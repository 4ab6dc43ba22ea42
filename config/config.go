package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DefaultPort                  = "8000"
	DefaultAccessTokenExpiryMin  = 15
	DefaultRefreshTokenExpiryMin = 10080
	DefaultDBName                = "playtube"
	DefaultTempDir               = "./public/temp"
)

type Config struct {
	Env                 string
	Port                string
	MongoURI            string
	DBName              string
	CORSOrigin          string
	AccessTokenSecret   string
	RefreshTokenSecret  string
	AccessExpiryMin     int
	RefreshExpiryMin    int
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	TempDir             string
}

func Load() *Config {
	env := getEnv("ENV", "development")

	// Optional env file; process environment takes precedence.
	file := "config/.env.dev"
	if env == "production" {
		file = "config/.env.prod"
	}
	if _, err := os.Stat(file); err == nil {
		if err := godotenv.Load(file); err != nil {
			log.Printf("warn: failed to load %s: %v", file, err)
		}
	}

	return &Config{
		Env:                 env,
		Port:                getEnv("PORT", DefaultPort),
		MongoURI:            mustGetEnv("MONGODB_URI"),
		DBName:              getEnv("DB_NAME", DefaultDBName),
		CORSOrigin:          getEnv("CORS_ORIGIN", "*"),
		AccessTokenSecret:   mustGetEnv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret:  mustGetEnv("REFRESH_TOKEN_SECRET"),
		AccessExpiryMin:     getEnvAsInt("ACCESS_TOKEN_EXPIRY", DefaultAccessTokenExpiryMin),
		RefreshExpiryMin:    getEnvAsInt("REFRESH_TOKEN_EXPIRY", DefaultRefreshTokenExpiryMin),
		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		TempDir:             getEnv("TEMP_DIR", DefaultTempDir),
	}
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required config: %s", key)
	return ""
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("warn: invalid int for %s, using default %d", key, defaultVal)
		return defaultVal
	}

	return val
}
