package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	EmailSender string
	Password    string // SMTP Password

	FrontendURL string // Base URL for payment result redirects

	KhaltiApiURL    string
	KhaltiSecretKey string

	EsewaApiURL      string
	EsewaEpayURL     string
	EsewaProductCode string
	EsewaSecretKey   string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		EmailSender: getEnv("EMAIL_SENDER", "defaultSecret"),
		Password:    getEnv("PASSWORD", "defaultSecret"),

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		KhaltiApiURL:    getEnv("KHALTI_API_URL", "https://dev.khalti.com/api/v2"),
		KhaltiSecretKey: getEnv("KHALTI_SECRET_KEY", "defaultSecret"),

		EsewaApiURL:      getEnv("ESEWA_API_URL", "https://rc.esewa.com.np"),
		EsewaEpayURL:     getEnv("ESEWA_EPAY_URL", "https://rc-epay.esewa.com.np/api/epay/main/v2/form"),
		EsewaProductCode: getEnv("ESEWA_PRODUCT_CODE", "EPAYTEST"),
		EsewaSecretKey:   getEnv("ESEWA_SECRET_KEY", "8gBm/:&EnhH.1/q"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.KhaltiSecretKey == "defaultSecret" {
		log.Println("Warning: Using default KHALTI_SECRET_KEY. Payments will fail against the live gateway.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
