package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port                  string   `mapstructure:"PORT"`
	Env                   string   `mapstructure:"ENV"`
	AuthMode              string   `mapstructure:"AUTH_MODE"`
	DatabaseURL           string   `mapstructure:"DATABASE_URL"`
	DBMaxConns            int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns            int32    `mapstructure:"DB_MIN_CONNS"`
	AuthIssuer            string   `mapstructure:"AUTH_ISSUER"`
	AuthJWKSURL           string   `mapstructure:"AUTH_JWKS_URL"`
	AuthAudience          string   `mapstructure:"AUTH_AUDIENCE"`
	JWTSigningKey         string   `mapstructure:"JWT_SIGNING_KEY"`
	SessionTimeoutMinutes int      `mapstructure:"SESSION_TIMEOUT_MINUTES"`
	CORSOrigins           []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS          float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst        int      `mapstructure:"RATE_LIMIT_BURST"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("AUTH_MODE", "") // auto-detect: "" -> inferred from issuer
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("SESSION_TIMEOUT_MINUTES", 30)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("AUTH_MODE")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("AUTH_ISSUER")
	v.BindEnv("AUTH_JWKS_URL")
	v.BindEnv("AUTH_AUDIENCE")
	v.BindEnv("JWT_SIGNING_KEY")
	v.BindEnv("SESSION_TIMEOUT_MINUTES")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() {
		log.Println("WARNING: Server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: Set ENV=production and configure AUTH_ISSUER or JWT_SIGNING_KEY before handling real client data.")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// ResolvedAuthMode returns the effective auth mode. If AUTH_MODE is explicitly
// set, it is returned. Otherwise the mode is inferred: an external issuer
// means tokens come from an identity provider; otherwise the built-in login
// endpoint issues HS256 tokens.
func (c *Config) ResolvedAuthMode() string {
	if c.AuthMode != "" {
		return c.AuthMode
	}
	if c.AuthIssuer != "" {
		return "external"
	}
	return "standalone"
}

// Validate checks that the configuration is safe to run. Outside development,
// either an external issuer or a signing key must be configured so that real
// authentication is enforced, and the idle timeout must be positive.
func (c *Config) Validate() error {
	mode := c.ResolvedAuthMode()
	if mode != "standalone" && mode != "external" {
		return fmt.Errorf("AUTH_MODE must be \"standalone\" or \"external\", got %q", mode)
	}
	if mode == "external" && c.AuthIssuer == "" {
		return fmt.Errorf("AUTH_ISSUER must be set when AUTH_MODE is \"external\"")
	}
	if mode == "standalone" && !c.IsDev() && c.JWTSigningKey == "" {
		return fmt.Errorf("JWT_SIGNING_KEY is required in standalone mode outside development")
	}
	if c.SessionTimeoutMinutes <= 0 {
		return fmt.Errorf("SESSION_TIMEOUT_MINUTES must be positive, got %d", c.SessionTimeoutMinutes)
	}
	return nil
}
