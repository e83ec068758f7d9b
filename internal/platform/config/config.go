package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	platformstrings "ubersystem/pkg/platform/strings"
)

// Config is everything the server binary needs, read once at startup.
type Config struct {
	Server   Server
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Log      LogConfig
	Event    EventState
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr           string
	AdminJWTSecret string
	AdminTokenTTL  time.Duration

	// RateLimitPerMinute caps admin API calls per account; 0 disables it.
	RateLimitPerMinute int
}

// DatabaseConfig selects the persistence backend. An empty URL runs the
// in-memory stores.
type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig enables the cross-process badge lock when URL is set.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	LockTTL      time.Duration
}

// KafkaConfig enables the tracking feed when Brokers is non-empty.
type KafkaConfig struct {
	Brokers       []string
	TrackingTopic string
}

type LogConfig struct {
	Level  string
	Format string
}

const devJWTSecret = "dev-secret-key-change-in-production"

// Load reads an optional .env file, then the environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	event, err := eventFromEnv()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Server: Server{
			Addr:               getEnv("ADDR", ":8080"),
			AdminJWTSecret:     getEnv("ADMIN_JWT_SECRET", devJWTSecret),
			AdminTokenTTL:      getDuration("ADMIN_TOKEN_TTL", 12*time.Hour),
			RateLimitPerMinute: getInt("RATE_LIMIT_PER_MINUTE", 300),
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: getInt("DATABASE_MAX_OPEN_CONNS", 20),
			MaxIdleConns: getInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			LockTTL:      getDuration("BADGE_LOCK_TTL", 10*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:       platformstrings.DedupeAndTrim(strings.Split(os.Getenv("KAFKA_BROKERS"), ",")),
			TrackingTopic: getEnv("TRACKING_TOPIC", "ubersystem.tracking"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Event: event,
	}
	return cfg, nil
}

func eventFromEnv() (EventState, error) {
	state := DefaultEventState()

	if v := os.Getenv("PRICE_BUMP"); v != "" {
		t, err := ParseEventTime(v)
		if err != nil {
			return EventState{}, fmt.Errorf("PRICE_BUMP: %w", err)
		}
		state.PriceBump = t
	}
	if v := os.Getenv("EPOCH"); v != "" {
		t, err := ParseEventTime(v)
		if err != nil {
			return EventState{}, fmt.Errorf("EPOCH: %w", err)
		}
		state.Epoch = t
	}
	state.AtTheCon = getBool("AT_THE_CON", false)

	p := &state.Prices
	p.EarlyBadge = getInt("EARLY_BADGE_PRICE", p.EarlyBadge)
	p.LateBadge = getInt("LATE_BADGE_PRICE", p.LateBadge)
	p.DoorBadge = getInt("DOOR_BADGE_PRICE", p.DoorBadge)
	p.SupporterBadge = getInt("SUPPORTER_BADGE_PRICE", p.SupporterBadge)
	p.OneDayBadge = getInt("ONEDAY_BADGE_PRICE", p.OneDayBadge)
	p.EarlyGroup = getInt("EARLY_GROUP_PRICE", p.EarlyGroup)
	p.LateGroup = getInt("LATE_GROUP_PRICE", p.LateGroup)
	p.DealerBadge = getInt("DEALER_BADGE_PRICE", p.DealerBadge)

	if !state.PriceBump.Before(state.Epoch) {
		return EventState{}, errors.New("PRICE_BUMP must be before EPOCH")
	}
	return state, nil
}

// ParseEventTime accepts RFC3339 or a bare date (midnight UTC).
func ParseEventTime(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, v)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
