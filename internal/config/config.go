package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/numberparty/numberparty/internal/model"
)

// Defaults mirror the game's reference constants
const (
	DefaultAdminKey        = "CS2027"
	DefaultPort            = 3001
	DefaultRoomCodeLength  = 4
	DefaultMaxPlayers      = 30
	DefaultSacrificeBudget = 6
	DefaultSacrificePenalty = 3

	DefaultRoomTTL         = 2 * time.Hour
	DefaultFinishedRoomTTL = 15 * time.Minute
	DefaultSweepInterval   = 5 * time.Minute
	DefaultAdminGracePeriod = 60 * time.Second

	// RoomCodeAlphabet excludes I and O, easily confused with 1 and 0
	RoomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ"
)

// DefaultNumberRange is the secret-number range used when room creation
// does not specify one
var DefaultNumberRange = model.NumberRange{Min: 1, Max: 100}

// Config holds all externally configurable constants. None of these are
// business logic; the engine and registry take them as plain values.
type Config struct {
	// AdminKey is the shared secret required to create rooms. If
	// AdminKeyHash is set (a bcrypt hash) it takes precedence and the
	// plaintext key is ignored.
	AdminKey     string
	AdminKeyHash string

	// CORSOrigins is the origin allowlist; "*" allows any origin
	CORSOrigins []string

	// Port is the listen port; the server increments on conflict
	Port int

	NumberRange      model.NumberRange
	RoomCodeLength   int
	MaxPlayers       int
	SacrificeBudget  int
	SacrificePenalty int

	RoomTTL          time.Duration
	FinishedRoomTTL  time.Duration
	SweepInterval    time.Duration
	AdminGracePeriod time.Duration

	// StorageType selects the storage backend ("memory" or "redis")
	StorageType string
	RedisURL    string
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		AdminKey:         DefaultAdminKey,
		CORSOrigins:      []string{"*"},
		Port:             DefaultPort,
		NumberRange:      DefaultNumberRange,
		RoomCodeLength:   DefaultRoomCodeLength,
		MaxPlayers:       DefaultMaxPlayers,
		SacrificeBudget:  DefaultSacrificeBudget,
		SacrificePenalty: DefaultSacrificePenalty,
		RoomTTL:          DefaultRoomTTL,
		FinishedRoomTTL:  DefaultFinishedRoomTTL,
		SweepInterval:    DefaultSweepInterval,
		AdminGracePeriod: DefaultAdminGracePeriod,
		StorageType:      "memory",
	}
}

// FromEnv builds a Config from NP_* environment variables, falling back to
// defaults for anything unset
func FromEnv() Config {
	cfg := Default()

	if v := os.Getenv("NP_ADMIN_KEY"); v != "" {
		cfg.AdminKey = v
	}
	if v := os.Getenv("NP_ADMIN_KEY_HASH"); v != "" {
		cfg.AdminKeyHash = v
	}
	if v := os.Getenv("NP_CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitOrigins(v)
	}
	if v, ok := envInt("NP_PORT"); ok {
		cfg.Port = v
	}
	if v, ok := envInt("NP_RANGE_MIN"); ok {
		cfg.NumberRange.Min = v
	}
	if v, ok := envInt("NP_RANGE_MAX"); ok {
		cfg.NumberRange.Max = v
	}
	if v, ok := envInt("NP_MAX_PLAYERS"); ok {
		cfg.MaxPlayers = v
	}
	if v, ok := envInt("NP_SACRIFICE_BUDGET"); ok {
		cfg.SacrificeBudget = v
	}
	if v, ok := envInt("NP_SACRIFICE_PENALTY"); ok {
		cfg.SacrificePenalty = v
	}
	if v, ok := envInt("NP_ROOM_CODE_LENGTH"); ok {
		cfg.RoomCodeLength = v
	}
	if v, ok := envDuration("NP_ROOM_TTL"); ok {
		cfg.RoomTTL = v
	}
	if v, ok := envDuration("NP_FINISHED_ROOM_TTL"); ok {
		cfg.FinishedRoomTTL = v
	}
	if v, ok := envDuration("NP_SWEEP_INTERVAL"); ok {
		cfg.SweepInterval = v
	}
	if v, ok := envDuration("NP_ADMIN_GRACE_PERIOD"); ok {
		cfg.AdminGracePeriod = v
	}
	if v := os.Getenv("NP_STORAGE"); v != "" {
		cfg.StorageType = v
	}
	if v := os.Getenv("NP_REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}

	return cfg
}

func splitOrigins(v string) []string {
	parts := strings.Split(v, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func envInt(name string) (int, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envDuration(name string) (time.Duration, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, false
	}
	return d, true
}
