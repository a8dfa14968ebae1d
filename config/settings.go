package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings are the knobs of the engine service. Values come from the
// optional ENGINE_CONFIG yaml file first and environment variables win.
type Settings struct {
	Port     string `yaml:"port"`
	Prod     bool   `yaml:"prod"`
	Key      string `yaml:"key"`
	RedisURL string `yaml:"redis_url"`

	MigratePostgres bool `yaml:"migrate_postgres"`

	MaxJokerStateValue float64       `yaml:"max_joker_state_value"`
	ConditionCacheSize int           `yaml:"condition_cache_size"`
	StateTTL           time.Duration `yaml:"state_ttl"`
	TokenTTL           time.Duration `yaml:"token_ttl"`
	MaxJokerSlots      int           `yaml:"max_joker_slots"`
}

func DefaultSettings() Settings {
	return Settings{
		Port:               "8080",
		RedisURL:           "localhost:6379",
		MaxJokerStateValue: 1e6,
		ConditionCacheSize: 1024,
		StateTTL:           24 * time.Hour,
		TokenTTL:           72 * time.Hour,
		MaxJokerSlots:      5,
	}
}

// LoadSettings reads ENGINE_CONFIG (if set) and then the environment
func LoadSettings() (Settings, error) {
	s := DefaultSettings()
	if path := os.Getenv("ENGINE_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return s, fmt.Errorf("reading engine config: %w", err)
		}
		if err := yaml.Unmarshal(data, &s); err != nil {
			return s, fmt.Errorf("parsing engine config %s: %w", path, err)
		}
		log.Printf("Engine config loaded from %s", path)
	}
	if err := s.applyEnv(os.LookupEnv); err != nil {
		return s, err
	}
	return s, s.Validate()
}

func (s *Settings) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("PORT"); ok && v != "" {
		s.Port = v
	}
	if v, ok := lookup("KEY"); ok {
		s.Key = v
	}
	if v, ok := lookup("REDIS_URL"); ok && v != "" {
		s.RedisURL = v
	}
	if v, ok := lookup("PROD"); ok {
		s.Prod = v == "true"
	}
	if v, ok := lookup("MIGRATE_POSTGRES"); ok {
		s.MigratePostgres = v == "true"
	}
	if v, ok := lookup("MAX_JOKER_STATE_VALUE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("MAX_JOKER_STATE_VALUE: %w", err)
		}
		s.MaxJokerStateValue = f
	}
	if v, ok := lookup("CONDITION_CACHE_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CONDITION_CACHE_SIZE: %w", err)
		}
		s.ConditionCacheSize = n
	}
	if v, ok := lookup("STATE_TTL_HOURS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("STATE_TTL_HOURS: %w", err)
		}
		s.StateTTL = time.Duration(n) * time.Hour
	}
	return nil
}

func (s Settings) Validate() error {
	if s.MaxJokerStateValue <= 0 {
		return fmt.Errorf("max joker state value must be positive, got %g", s.MaxJokerStateValue)
	}
	if s.StateTTL <= 0 || s.TokenTTL <= 0 {
		return fmt.Errorf("state and token ttl must be positive")
	}
	if s.MaxJokerSlots < 1 || s.MaxJokerSlots > 20 {
		return fmt.Errorf("max joker slots must be between 1 and 20, got %d", s.MaxJokerSlots)
	}
	if s.Prod && s.Key == "" {
		return fmt.Errorf("KEY is required in production")
	}
	return nil
}
