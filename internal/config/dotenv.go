package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	Port                     string
	BackendURL               string
	DefaultLevel             string
	Levels                   []string
	PollIntervalSeconds      int
	ReconnectDelaySeconds    int
	MinBet                   int64
	TableSize                int
	TableWidth               float64
	TableHeight              float64
	SeatMargin               float64
	IdentityStore            string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeSeconds int
	DBConnMaxIdleTimeSeconds int
}

func Default() Config {
	return Config{
		Port:                     "8080",
		BackendURL:               "http://localhost:8000",
		DefaultLevel:             "beginner",
		Levels:                   []string{"beginner", "intermediate", "advanced"},
		PollIntervalSeconds:      2,
		ReconnectDelaySeconds:    0,
		MinBet:                   10,
		TableSize:                6,
		TableWidth:               640,
		TableHeight:              420,
		SeatMargin:               60,
		IdentityStore:            "memory",
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           10,
		DBConnMaxLifetimeSeconds: 300,
		DBConnMaxIdleTimeSeconds: 60,
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("PORT"); raw != "" {
		cfg.Port = raw
	}
	if raw := os.Getenv("BACKEND_URL"); raw != "" {
		cfg.BackendURL = strings.TrimRight(raw, "/")
	}
	if raw := os.Getenv("DEFAULT_LEVEL"); raw != "" {
		cfg.DefaultLevel = raw
	}
	if raw := os.Getenv("LEVELS"); raw != "" {
		levels := make([]string, 0)
		for _, level := range strings.Split(raw, ",") {
			if level = strings.TrimSpace(level); level != "" {
				levels = append(levels, level)
			}
		}
		if len(levels) > 0 {
			cfg.Levels = levels
		}
	}
	if raw := os.Getenv("POLL_INTERVAL_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			cfg.PollIntervalSeconds = value
		}
	}
	if raw := os.Getenv("RECONNECT_DELAY_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			cfg.ReconnectDelaySeconds = value
		}
	}
	if raw := os.Getenv("MIN_BET"); raw != "" {
		if value, err := strconv.ParseInt(raw, 10, 64); err == nil && value > 0 {
			cfg.MinBet = value
		}
	}
	if raw := os.Getenv("TABLE_SIZE"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.TableSize = value
		}
	}
	if raw := os.Getenv("TABLE_WIDTH"); raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil && value > 0 {
			cfg.TableWidth = value
		}
	}
	if raw := os.Getenv("TABLE_HEIGHT"); raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil && value > 0 {
			cfg.TableHeight = value
		}
	}
	if raw := os.Getenv("SEAT_MARGIN"); raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil && value >= 0 {
			cfg.SeatMargin = value
		}
	}
	if raw := os.Getenv("IDENTITY_STORE"); raw != "" {
		cfg.IdentityStore = strings.ToLower(raw)
	}
	if raw := os.Getenv("DB_MAX_OPEN_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxOpenConns = value
		}
	}
	if raw := os.Getenv("DB_MAX_IDLE_CONNS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBMaxIdleConns = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_LIFETIME_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxLifetimeSeconds = value
		}
	}
	if raw := os.Getenv("DB_CONN_MAX_IDLE_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.DBConnMaxIdleTimeSeconds = value
		}
	}
	return cfg
}

func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

func (c Config) ReconnectDelay() time.Duration {
	return time.Duration(c.ReconnectDelaySeconds) * time.Second
}

// HasLevel reports whether level is one of the configured lobby levels.
func (c Config) HasLevel(level string) bool {
	for _, known := range c.Levels {
		if known == level {
			return true
		}
	}
	return false
}
