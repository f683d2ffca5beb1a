package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool
	JWTSecret    string
	JWTIssuer    string

	// Reconciliation knobs
	ReconcileThresholdMinutes int
	ReconcileParallelism      int

	// Rate limiting, e.g. "100-M" for 100 requests per minute
	RateLimitFormatted string

	// Migrations
	MigrationsPath string
	AutoMigrate    bool
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "koperasi-ledger")
	viper.SetDefault("RECONCILE_THRESHOLD_MINUTES", 30)
	viper.SetDefault("RECONCILE_PARALLELISM", 4)
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("AUTO_MIGRATE", true)

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:               viper.GetString("PGSQL_URL"),
		Port:                      viper.GetString("PORT"),
		IsProduction:              viper.GetBool("IS_PRODUCTION"),
		JWTSecret:                 viper.GetString("JWT_SECRET"),
		JWTIssuer:                 viper.GetString("JWT_ISSUER"),
		ReconcileThresholdMinutes: viper.GetInt("RECONCILE_THRESHOLD_MINUTES"),
		ReconcileParallelism:      viper.GetInt("RECONCILE_PARALLELISM"),
		RateLimitFormatted:        viper.GetString("RATE_LIMIT"),
		MigrationsPath:            viper.GetString("MIGRATIONS_PATH"),
		AutoMigrate:               viper.GetBool("AUTO_MIGRATE"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" && cfg.IsProduction {
		log.Println("Warning: JWT_SECRET is the default insecure key. THIS IS NOT FOR PRODUCTION.")
	}
	if cfg.ReconcileThresholdMinutes < 1 {
		log.Printf("Warning: invalid RECONCILE_THRESHOLD_MINUTES, defaulting to 30")
		cfg.ReconcileThresholdMinutes = 30
	}

	return cfg, nil
}
