package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// RabbitURL may be empty, in which case domain messages are not published.
	RabbitURL string

	JWTSecret string
	JWTTTL    time.Duration

	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

// Load reads configuration from the environment, picking up a .env file
// in the working directory when one exists.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[Config] could not read .env: %v", err)
	}

	ttl, err := time.ParseDuration(getEnv("JWT_TTL", "24h"))
	if err != nil {
		log.Printf("[Config] invalid JWT_TTL, falling back to 24h: %v", err)
		ttl = 24 * time.Hour
	}

	return &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBName:        getEnv("DB_NAME", "ticketing_db"),
		DBSSLMode:     getEnv("DB_SSLMODE", "disable"),
		RabbitURL:     os.Getenv("RABBITMQ_URL"),
		JWTSecret:     getEnv("JWT_SECRET", "change-me-in-production"),
		JWTTTL:        ttl,
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
