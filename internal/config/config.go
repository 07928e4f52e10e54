package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV" default:"development"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
		Port     string `envconfig:"PORT" default:"8080"`
	} `envconfig:"SERVER"`

	App struct {
		Name string `envconfig:"NAME" default:"squash-courts"`
		CORS struct {
			// ALLOWED_ORIGINS is a comma separated list
			AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS" default:"10"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS" default:"60"`
		} `envconfig:"RATE_LIMITER"`
		SuggestionCount int `envconfig:"SUGGESTION_COUNT" default:"3"`
		// Timezone decides the calendar day for income totals.
		Timezone string `envconfig:"TIMEZONE" default:"Africa/Cairo"`
	} `envconfig:"APP"`

	Firebase struct {
		ProjectID                    string `envconfig:"PROJECT_ID"`
		ServiceAccountJSON           string `envconfig:"SERVICE_ACCOUNT_JSON"`
		StorageBucket                string `envconfig:"STORAGE_BUCKET"`
		SignedURLServiceAccountEmail string `envconfig:"SIGNED_URL_SERVICE_ACCOUNT_EMAIL"`
	} `envconfig:"FIREBASE"`

	Redis struct {
		Host     string `envconfig:"HOST"`
		Port     string `envconfig:"PORT" default:"6379"`
		Password string `envconfig:"PASSWORD"`
		DB       int    `envconfig:"DB"`
	} `envconfig:"REDIS"`

	Otel struct {
		Endpoint string `envconfig:"ENDPOINT"`
	} `envconfig:"OTEL"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	var cfg Config

	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Err(err).Msg("no .env file, using process environment")
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}

	// GOOGLE_CLOUD_PROJECT is set on Cloud Run.
	if cfg.Firebase.ProjectID == "" {
		var gcp struct {
			Project string `envconfig:"GOOGLE_CLOUD_PROJECT"`
		}
		if err := envconfig.Process("", &gcp); err == nil {
			cfg.Firebase.ProjectID = gcp.Project
		}
	}
	if cfg.Firebase.StorageBucket == "" && cfg.Firebase.ProjectID != "" {
		cfg.Firebase.StorageBucket = cfg.Firebase.ProjectID + ".appspot.com"
	}

	return cfg, nil
}

// AllowedOrigins splits the configured CORS origins.
func (c Config) AllowedOrigins() []string {
	allowed := []string{}
	for _, o := range strings.Split(c.App.CORS.AllowedOrigins, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			allowed = append(allowed, o)
		}
	}
	return allowed
}

// RedisAddr returns host:port, or "" when redis is not configured.
func (c Config) RedisAddr() string {
	if c.Redis.Host == "" {
		return ""
	}
	return c.Redis.Host + ":" + c.Redis.Port
}
