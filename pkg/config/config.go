package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Rate limiting (requests per period, per client IP)
	RateLimitPeriod time.Duration
	RateLimitCount  int64

	// Retention window for ephemeral WIP wizard runs before cleanup.
	WipRunRetention time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "erp-accounting-backend")
	viper.SetDefault("RATE_LIMIT_PERIOD", "1m")
	viper.SetDefault("RATE_LIMIT_COUNT", 300)
	viper.SetDefault("WIP_RUN_RETENTION", "24h")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	rlPeriodStr := viper.GetString("RATE_LIMIT_PERIOD")
	rlPeriod, err := time.ParseDuration(rlPeriodStr)
	if err != nil {
		rlPeriod = time.Minute
		log.Printf("Warning: Invalid value for RATE_LIMIT_PERIOD ('%s'). Defaulting to %s.\n", rlPeriodStr, rlPeriod.String())
	}
	cfg.RateLimitPeriod = rlPeriod
	cfg.RateLimitCount = viper.GetInt64("RATE_LIMIT_COUNT")

	retentionStr := viper.GetString("WIP_RUN_RETENTION")
	retention, err := time.ParseDuration(retentionStr)
	if err != nil {
		retention = 24 * time.Hour
		log.Printf("Warning: Invalid value for WIP_RUN_RETENTION ('%s'). Defaulting to %s.\n", retentionStr, retention.String())
	}
	cfg.WipRunRetention = retention

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	return cfg, nil
}
