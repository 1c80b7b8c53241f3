package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingDSN is returned when no Postgres DSN is configured.
	ErrMissingDSN = errors.New("postgres dsn is not configured")

	// ErrMissingJWTSecret is returned when local token verification has no secret.
	ErrMissingJWTSecret = errors.New("jwt secret is not configured")

	// ErrMissingSupabase is returned when remote identity resolution lacks a project or key.
	ErrMissingSupabase = errors.New("supabase project reference and anon key are required for gotrue auth mode")

	// ErrMissingLensConfig is returned when the lens API token, lens ID or lens group ID is absent.
	ErrMissingLensConfig = errors.New("lens configuration is incomplete")

	// ErrUnknownAuthMode is returned for an unsupported supabase.auth_mode value.
	ErrUnknownAuthMode = errors.New("unknown auth mode")
)

const (
	// AuthModeJWT verifies bearer tokens locally with the shared JWT secret.
	AuthModeJWT = "jwt"
	// AuthModeGoTrue resolves bearer tokens against the hosted auth server.
	AuthModeGoTrue = "gotrue"
)

// Config struct to hold the configuration settings
type Config struct {
	HTTP          HTTPConfig          `yaml:"http"`
	Postgres      PostgresConfig      `yaml:"postgres"`
	JWT           JWTConfig           `yaml:"jwt"`
	Supabase      SupabaseConfig      `yaml:"supabase"`
	Submission    SubmissionConfig    `yaml:"submission"`
	Leaderboard   LeaderboardConfig   `yaml:"leaderboard"`
	Lens          LensConfig          `yaml:"lens"`
	Relay         RelayConfig         `yaml:"relay"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Address        string        `yaml:"address" env:"HTTP_ADDRESS"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS" envSeparator:","`
	RateLimit      float64       `yaml:"rate_limit" env:"HTTP_RATE_LIMIT"`
	RateBurst      int           `yaml:"rate_burst" env:"HTTP_RATE_BURST"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn" env:"DATABASE_URL"`
}

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret   string        `yaml:"secret" env:"JWT_SECRET"`
	Issuer   string        `yaml:"issuer" env:"JWT_ISSUER"`
	Audience string        `yaml:"audience" env:"JWT_AUDIENCE"`
	GuestTTL time.Duration `yaml:"guest_ttl" env:"JWT_GUEST_TTL"`
}

// SupabaseConfig holds the hosted auth settings used by the gotrue resolver.
type SupabaseConfig struct {
	AuthMode   string `yaml:"auth_mode" env:"SUPABASE_AUTH_MODE"`
	ProjectRef string `yaml:"project_ref" env:"SUPABASE_PROJECT_REF"`
	URL        string `yaml:"url" env:"SUPABASE_URL"`
	AnonKey    string `yaml:"anon_key" env:"SUPABASE_ANON_KEY"`
}

// SubmissionConfig controls how the submission endpoint treats callers.
type SubmissionConfig struct {
	RequireIdentity bool   `yaml:"require_identity" env:"SUBMISSION_REQUIRE_IDENTITY"`
	OnePerSession   bool   `yaml:"one_per_session" env:"SUBMISSION_ONE_PER_SESSION"`
	AnonymousName   string `yaml:"anonymous_name" env:"SUBMISSION_ANONYMOUS_NAME"`
	AnonymousEmail  string `yaml:"anonymous_email" env:"SUBMISSION_ANONYMOUS_EMAIL"`
}

// LeaderboardConfig holds leaderboard view settings.
type LeaderboardConfig struct {
	Limit    int           `yaml:"limit" env:"LEADERBOARD_LIMIT"`
	CacheTTL time.Duration `yaml:"cache_ttl" env:"LEADERBOARD_CACHE_TTL"`
}

// LensConfig identifies the hosted lens the AR session host loads.
type LensConfig struct {
	APIToken string `yaml:"api_token" env:"SNAP_API_TOKEN" json:"api_token"`
	LensID   string `yaml:"lens_id" env:"LENS_ID" json:"lens_id"`
	GroupID  string `yaml:"group_id" env:"LENS_GROUP_ID" json:"lens_group_id"`
}

// RelayConfig holds score relay settings.
type RelayConfig struct {
	NATSURL       string        `yaml:"nats_url" env:"NATS_URL"`
	Subject       string        `yaml:"subject" env:"RELAY_SUBJECT"`
	QueueGroup    string        `yaml:"queue_group" env:"RELAY_QUEUE_GROUP"`
	SubmitURL     string        `yaml:"submit_url" env:"RELAY_SUBMIT_URL"`
	MatchPattern  string        `yaml:"match_pattern" env:"RELAY_MATCH_PATTERN"`
	SubmitTimeout time.Duration `yaml:"submit_timeout" env:"RELAY_SUBMIT_TIMEOUT"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	Environment    string `yaml:"environment" env:"ENV"`
	LogLevel       string `yaml:"log_level" env:"LOG_LEVEL"`
	MetricsAddress string `yaml:"metrics_address" env:"METRICS_ADDRESS"`
	ServiceName    string `yaml:"service_name" env:"SERVICE_NAME"`
}

// LoadConfig loads the configuration from a YAML file, then applies
// environment overrides and defaults. A missing file is not an error.
func LoadConfig(filename string) (*Config, error) {
	var cfg Config

	if filename != "" {
		data, err := os.ReadFile(filename)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":3000"
	}
	if c.HTTP.RateLimit <= 0 {
		c.HTTP.RateLimit = 5
	}
	if c.HTTP.RateBurst <= 0 {
		c.HTTP.RateBurst = 10
	}
	if c.HTTP.ReadTimeout <= 0 {
		c.HTTP.ReadTimeout = 10 * time.Second
	}
	if c.HTTP.WriteTimeout <= 0 {
		c.HTTP.WriteTimeout = 15 * time.Second
	}
	if c.JWT.Audience == "" {
		c.JWT.Audience = "authenticated"
	}
	if c.JWT.GuestTTL <= 0 {
		c.JWT.GuestTTL = 24 * time.Hour
	}
	if c.Supabase.AuthMode == "" {
		c.Supabase.AuthMode = AuthModeJWT
	}
	if c.Submission.AnonymousName == "" {
		c.Submission.AnonymousName = "Lens Player"
	}
	if c.Submission.AnonymousEmail == "" {
		c.Submission.AnonymousEmail = "lens@player"
	}
	if c.Leaderboard.Limit <= 0 || c.Leaderboard.Limit > 10 {
		c.Leaderboard.Limit = 10
	}
	if c.Leaderboard.CacheTTL <= 0 {
		c.Leaderboard.CacheTTL = 30 * time.Second
	}
	if c.Relay.Subject == "" {
		c.Relay.Subject = "lens.messages.>"
	}
	if c.Relay.QueueGroup == "" {
		c.Relay.QueueGroup = "relay"
	}
	if c.Relay.MatchPattern == "" {
		c.Relay.MatchPattern = "submit-score"
	}
	if c.Relay.SubmitTimeout <= 0 {
		c.Relay.SubmitTimeout = 10 * time.Second
	}
	if c.Relay.SubmitURL == "" {
		c.Relay.SubmitURL = "http://localhost" + c.HTTP.Address + "/submitScore"
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = "development"
	}
	if c.Observability.LogLevel == "" {
		c.Observability.LogLevel = "info"
	}
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = "lensboard"
	}
}

// Validate checks everything the HTTP server needs before it starts.
// Lens settings are checked separately by the AR session host.
func (c *Config) Validate() error {
	if c.Postgres.DSN == "" {
		return ErrMissingDSN
	}

	switch c.Supabase.AuthMode {
	case AuthModeJWT:
		if c.JWT.Secret == "" {
			return ErrMissingJWTSecret
		}
	case AuthModeGoTrue:
		if (c.Supabase.ProjectRef == "" && c.Supabase.URL == "") || c.Supabase.AnonKey == "" {
			return ErrMissingSupabase
		}
		// Guest sessions are still signed locally.
		if c.JWT.Secret == "" {
			return ErrMissingJWTSecret
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAuthMode, c.Supabase.AuthMode)
	}

	return nil
}

// Validate reports which lens settings are missing.
func (l LensConfig) Validate() error {
	var missing []string
	if l.APIToken == "" {
		missing = append(missing, "api_token")
	}
	if l.LensID == "" {
		missing = append(missing, "lens_id")
	}
	if l.GroupID == "" {
		missing = append(missing, "group_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %v", ErrMissingLensConfig, missing)
	}
	return nil
}

// IsDevelopment reports whether the service runs in a development environment.
func (c *Config) IsDevelopment() bool {
	return c.Observability.Environment == "development" || c.Observability.Environment == "dev"
}
