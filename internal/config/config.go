package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string

	// Cloud store. Both must be set for the Sheets backend to be
	// attempted; absence of either selects the local-file fallback.
	ServiceAccountJSON string // credential blob, or a path to one
	SheetKey           string

	// Local-file fallback
	RequestsFile string

	// Geocoding
	GeocoderBaseURL   string
	GeocoderUserAgent string
	GeocodeTimeout    time.Duration

	// Upper bound on any single cloud store call
	StoreTimeout time.Duration

	// CORS
	AllowedOrigins []string
}

// Load loads environment variables and returns a Config struct
func Load() *Config {
	_ = godotenv.Load()

	geocodeTimeoutSec := getEnvAsInt("GEOCODE_TIMEOUT_SECONDS", 10)
	storeTimeoutSec := getEnvAsInt("STORE_TIMEOUT_SECONDS", 30)

	// Parse allowed origins from env (comma-separated)
	allowedOrigins := strings.Split(
		getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		",",
	)

	return &Config{
		Port:               getEnv("APP_PORT", "8780"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		ServiceAccountJSON: getEnv("SERVICE_ACCOUNT_JSON", ""),
		SheetKey:           getEnv("SHEET_KEY", ""),
		RequestsFile:       getEnv("REQUESTS_FILE", "requests.csv"),
		GeocoderBaseURL:    getEnv("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocoderUserAgent:  getEnv("GEOCODER_USER_AGENT", "disaster-relief-coordination"),
		GeocodeTimeout:     time.Duration(geocodeTimeoutSec) * time.Second,
		StoreTimeout:       time.Duration(storeTimeoutSec) * time.Second,
		AllowedOrigins:     allowedOrigins,
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return fallback
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("invalid value for %s, defaulting to %v\n", key, fallback)
		return fallback
	}
	return val
}
