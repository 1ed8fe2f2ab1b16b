package config

import (
	"os"
	"strconv"
	"strings"

	"seatwise/internal/model"
)

// Server configuration
type ServerConfig struct {
	Port string
	Host string
}

// MongoDB configuration
type MongoConfig struct {
	URI      string
	Database string
}

// Stripe configuration
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string

	// SeatPriceID is the price for one additional billable seat. The same
	// price is used across all plans.
	SeatPriceID string

	// Per-plan base price ids by billing interval.
	MonthlyPrices map[string]string
	AnnualPrices  map[string]string
}

// Admin configuration
type AdminConfig struct {
	// APIKey gates the maintenance endpoints. Empty disables them.
	APIKey string
}

// Config holds all application configuration
type Config struct {
	Server ServerConfig
	Mongo  MongoConfig
	Stripe StripeConfig
	Admin  AdminConfig
}

// Default configuration values
const (
	DefaultServerPort = "8080"
	DefaultServerHost = ""
	DefaultMongoURI   = "mongodb://localhost:27017/seatwise"
	DefaultMongoDB    = "seatwise"
)

// New returns a new Config with default values
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", DefaultServerPort),
			Host: getEnv("SERVER_HOST", DefaultServerHost),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", DefaultMongoURI),
			Database: getEnv("MONGO_DB", DefaultMongoDB),
		},
		Stripe: StripeConfig{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
			SeatPriceID:   getEnv("STRIPE_SEAT_PRICE_ID", ""),
			MonthlyPrices: map[string]string{
				model.PlanFreelance:  getEnv("STRIPE_PRICE_FREELANCE_MONTHLY", ""),
				model.PlanPME:        getEnv("STRIPE_PRICE_PME_MONTHLY", ""),
				model.PlanEntreprise: getEnv("STRIPE_PRICE_ENTREPRISE_MONTHLY", ""),
			},
			AnnualPrices: map[string]string{
				model.PlanFreelance:  getEnv("STRIPE_PRICE_FREELANCE_ANNUAL", ""),
				model.PlanPME:        getEnv("STRIPE_PRICE_PME_ANNUAL", ""),
				model.PlanEntreprise: getEnv("STRIPE_PRICE_ENTREPRISE_ANNUAL", ""),
			},
		},
		Admin: AdminConfig{
			APIKey: getEnv("ADMIN_API_KEY", ""),
		},
	}
}

// Address returns the server address string
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		switch strings.ToLower(value) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return defaultValue
}
