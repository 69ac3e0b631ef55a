package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterhellberg/duration"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is resolved once at startup and passed down explicitly.
type Config struct {
	Server struct {
		Port          string   `yaml:"port"`
		FrontendURL   string   `yaml:"frontend_url"`
		CORSOrigins   []string `yaml:"cors_origins"`
		SecureCookies bool     `yaml:"secure_cookies"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Sheets struct {
		SpreadsheetID   string `yaml:"spreadsheet_id"`
		Range           string `yaml:"range"`
		UserDataRange   string `yaml:"user_data_range"`
		CredentialsJSON string `yaml:"credentials_json"`
		CredentialsFile string `yaml:"credentials_file"`
	} `yaml:"sheets"`
	Questions struct {
		TTL string `yaml:"ttl"`
	} `yaml:"questions"`
	Quiz struct {
		TargetScore int    `yaml:"target_score"`
		Count       int    `yaml:"count"`
		Strategy    string `yaml:"strategy"`
		MaxStates   int    `yaml:"max_states"`
		TTL         string `yaml:"ttl"`
	} `yaml:"quiz"`
	Auth struct {
		SessionSecret   string `yaml:"session_secret"`
		SessionTTL      string `yaml:"session_ttl"`
		CallbackBaseURL string `yaml:"callback_base_url"`
		Google          struct {
			ClientID     string `yaml:"client_id"`
			ClientSecret string `yaml:"client_secret"`
		} `yaml:"google"`
		GitHub struct {
			ClientID     string `yaml:"client_id"`
			ClientSecret string `yaml:"client_secret"`
		} `yaml:"github"`
	} `yaml:"auth"`
}

// Default returns the configuration used when no file or environment is present.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Server.FrontendURL = "http://localhost:5173"
	cfg.Server.CORSOrigins = []string{"http://localhost:5173"}
	cfg.Sheets.Range = "Sheet1!A:G"
	cfg.Sheets.UserDataRange = "UserData!A:E"
	cfg.Questions.TTL = "5m"
	cfg.Quiz.TargetScore = 100
	cfg.Quiz.Count = 10
	cfg.Quiz.Strategy = "table"
	cfg.Quiz.MaxStates = 4096
	cfg.Quiz.TTL = "1h"
	cfg.Auth.SessionSecret = "quiz-app-secret-key-change-in-production"
	cfg.Auth.SessionTTL = "24h"
	cfg.Auth.CallbackBaseURL = "http://localhost:8080"
	return cfg
}

// Load reads .env (if present), the YAML file at path (if present) and then the
// environment overrides, in that order.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, errors.Wrap(err, "load .env")
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "parse %s", path)
		}
	case os.IsNotExist(err):
	default:
		return cfg, errors.Wrapf(err, "read %s", path)
	}

	applyEnv(&cfg, os.LookupEnv)
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("PORT", &cfg.Server.Port)
	str("FRONTEND_URL", &cfg.Server.FrontendURL)
	if v, ok := lookup("CORS_ORIGINS"); ok && v != "" {
		cfg.Server.CORSOrigins = splitList(v)
	}
	if v, ok := lookup("SECURE_COOKIES"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Server.SecureCookies = b
		}
	}
	str("REDIS_ADDR", &cfg.Redis.Addr)
	str("REDIS_PASSWORD", &cfg.Redis.Password)
	str("POSTGRES_URL", &cfg.Postgres.URL)
	str("SQLITE_PATH", &cfg.SQLite.Path)
	str("GOOGLE_SPREADSHEET_ID", &cfg.Sheets.SpreadsheetID)
	str("GOOGLE_SHEETS_RANGE", &cfg.Sheets.Range)
	str("GOOGLE_SERVICE_ACCOUNT_JSON", &cfg.Sheets.CredentialsJSON)
	if v, ok := lookup("GOOGLE_APPLICATION_CREDENTIALS"); ok && v != "" {
		// Some hosts pass the key itself rather than a path.
		if strings.HasPrefix(strings.TrimSpace(v), "{") {
			cfg.Sheets.CredentialsJSON = v
		} else {
			cfg.Sheets.CredentialsFile = v
		}
	}
	str("SESSION_SECRET", &cfg.Auth.SessionSecret)
	str("CALLBACK_BASE_URL", &cfg.Auth.CallbackBaseURL)
	str("GOOGLE_CLIENT_ID", &cfg.Auth.Google.ClientID)
	str("GOOGLE_CLIENT_SECRET", &cfg.Auth.Google.ClientSecret)
	str("GITHUB_CLIENT_ID", &cfg.Auth.GitHub.ClientID)
	str("GITHUB_CLIENT_SECRET", &cfg.Auth.GitHub.ClientSecret)
}

// SheetsConfigured reports whether a real spreadsheet id was provided.
func (c Config) SheetsConfigured() bool {
	id := strings.TrimSpace(c.Sheets.SpreadsheetID)
	return id != "" && id != "your_spreadsheet_id_here"
}

// TTLDuration parses a duration string or returns the fallback if empty or invalid.
// Besides Go syntax it accepts day and week units such as "1d" or "2w".
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := duration.Parse(raw); err == nil {
		return d
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
