package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port         string   `mapstructure:"PORT"`
	Env          string   `mapstructure:"ENV"`
	DatabaseURL  string   `mapstructure:"DATABASE_URL"`
	DBMaxConns   int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns   int32    `mapstructure:"DB_MIN_CONNS"`
	AuthDomain   string   `mapstructure:"AUTH_DOMAIN"`
	AuthAudience string   `mapstructure:"AUTH_AUDIENCE"`
	AuthIssuer   string   `mapstructure:"AUTH_ISSUER"`
	AuthAlgs     []string `mapstructure:"AUTH_ALGORITHMS"`
	RoleClaim    string   `mapstructure:"ROLE_CLAIM"`
	DefaultRole  string   `mapstructure:"DEFAULT_ROLE"`
	CORSOrigins  []string `mapstructure:"CORS_ORIGINS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("AUTH_ALGORITHMS", "RS256")
	v.SetDefault("ROLE_CLAIM", "https://example.com/roles")
	v.SetDefault("DEFAULT_ROLE", "admin")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("AUTH_DOMAIN")
	v.BindEnv("AUTH_AUDIENCE")
	v.BindEnv("AUTH_ISSUER")
	v.BindEnv("AUTH_ALGORITHMS")
	v.BindEnv("ROLE_CLAIM")
	v.BindEnv("DEFAULT_ROLE")
	v.BindEnv("CORS_ORIGINS")

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
	if cfg.AuthAlgs == nil {
		algs := v.GetString("AUTH_ALGORITHMS")
		if algs != "" {
			cfg.AuthAlgs = strings.Split(algs, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() && cfg.AuthDomain == "" {
		log.Println("WARNING: ============================================================")
		log.Println("WARNING: Server is running in DEVELOPMENT mode without AUTH_DOMAIN.")
		log.Println("WARNING: DevAuthMiddleware is active; all requests get doctor access.")
		log.Println("WARNING: Do NOT use this configuration in production.")
		log.Println("WARNING: ============================================================")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Issuer returns the expected token issuer: the explicit AUTH_ISSUER override
// when set, otherwise https://{AUTH_DOMAIN}/ as published by the provider.
func (c *Config) Issuer() string {
	if c.AuthIssuer != "" {
		return c.AuthIssuer
	}
	return "https://" + strings.TrimRight(c.AuthDomain, "/") + "/"
}

// JWKSURL returns the provider's published key-set endpoint.
func (c *Config) JWKSURL() string {
	return "https://" + strings.TrimRight(c.AuthDomain, "/") + "/.well-known/jwks.json"
}

// Validate checks that the configuration is safe to run. Outside development
// mode AUTH_DOMAIN and AUTH_AUDIENCE must be set so that real token
// verification is enforced. DEFAULT_ROLE must name a known role: the role
// resolver falls back to it for every unmapped claim, so a broken default is
// a deployment mistake that should fail at startup rather than per request.
func (c *Config) Validate(knownRole func(string) bool) error {
	if !c.IsDev() && c.AuthDomain == "" {
		return fmt.Errorf(
			"AUTH_DOMAIN must be set when ENV=%q. "+
				"Refusing to start without authentication configuration", c.Env)
	}
	if !c.IsDev() && c.AuthAudience == "" {
		return fmt.Errorf("AUTH_AUDIENCE must be set when ENV=%q", c.Env)
	}
	if !knownRole(c.DefaultRole) {
		return fmt.Errorf("DEFAULT_ROLE %q does not map to a known role", c.DefaultRole)
	}
	return nil
}
