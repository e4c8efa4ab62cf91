package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
)

// AIProfile holds the timing and policy parameters for one difficulty tier.
type AIProfile struct {
	Tier         string `json:"tier"`
	ThinkDelayMS int    `json:"think_delay_ms"`
	Policy       string `json:"policy"` // "random", "ranked_greedy", "minimax"
	// MinimaxPlies is reserved for a future multi-ply search; the
	// current minimax policy always evaluates one ply deep.
	MinimaxPlies int `json:"minimax_plies"`
}

// TimingConfig holds the duration constants for the turn/round driver's
// scheduled, cancellable timers.
type TimingConfig struct {
	OrderRevealMS int `json:"order_reveal_ms"`
	ReadyCheckMS  int `json:"ready_check_ms"`
	RoundPauseMS  int `json:"round_pause_ms"`
	ReconnectSec  int `json:"reconnect_sec"`
}

// Config holds all configurable game parameters.
type Config struct {
	Environment    string `json:"environment"`
	GeishaSet      string `json:"geisha_set"`
	RoomTTLSeconds int    `json:"room_ttl_seconds"`
	MaxNameLength  int    `json:"max_name_length"`
	WSPort         int    `json:"ws_port"`
	MaxLatencyMS   int    `json:"max_latency_ms"`

	Timing TimingConfig `json:"timing"`

	// AIProfiles is keyed by tier name (easy, medium, hard, expert, hell).
	AIProfiles []AIProfile `json:"ai_profiles"`

	// SnapshotDatabaseURL is a Postgres connection string for the room
	// snapshot store. Empty disables persistence entirely.
	SnapshotDatabaseURL string `json:"snapshot_database_url"`

	// OTLPEndpoint is the gRPC collector address for tracing/log export.
	// Empty disables OpenTelemetry export (providers remain no-op).
	OTLPEndpoint string `json:"otlp_endpoint"`

	// CORSOrigins lists origins allowed to connect to the HTTP/WS surface.
	CORSOrigins []string `json:"cors_origins"`
}

// Defaults returns a Config with all default values from the spec.
func Defaults() *Config {
	return &Config{
		Environment:    "development",
		GeishaSet:      "default",
		RoomTTLSeconds: 1800,
		MaxNameLength:  24,
		WSPort:         8080,
		MaxLatencyMS:   500,
		Timing: TimingConfig{
			OrderRevealMS: 2000,
			ReadyCheckMS:  1500,
			RoundPauseMS:  2500,
			ReconnectSec:  60,
		},
		AIProfiles: []AIProfile{
			{Tier: "easy", ThinkDelayMS: 1400, Policy: "random"},
			{Tier: "medium", ThinkDelayMS: 1000, Policy: "ranked_greedy"},
			{Tier: "hard", ThinkDelayMS: 700, Policy: "ranked_greedy"},
			{Tier: "expert", ThinkDelayMS: 500, Policy: "minimax", MinimaxPlies: 1},
			{Tier: "hell", ThinkDelayMS: 350, Policy: "minimax", MinimaxPlies: 1},
		},
		CORSOrigins: []string{"*"},
	}
}

// Load reads configuration from an optional config.json file,
// then applies environment variable overrides. Fields not set
// in either source retain their default values.
func Load() *Config {
	cfg := Defaults()

	if f, err := os.Open("config.json"); err == nil {
		defer f.Close()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			log.Printf("Warning: failed to parse config.json: %v", err)
		}
	}

	overrideString(&cfg.Environment, "NODE_ENV")
	overrideString(&cfg.GeishaSet, "GEISHA_SET")
	overrideInt(&cfg.RoomTTLSeconds, "ROOM_TTL_SECONDS")
	overrideInt(&cfg.MaxNameLength, "MAX_NAME_LENGTH")
	overrideInt(&cfg.WSPort, "WS_PORT")
	overrideInt(&cfg.MaxLatencyMS, "MAX_LATENCY_MS")
	overrideInt(&cfg.Timing.OrderRevealMS, "ORDER_REVEAL_MS")
	overrideInt(&cfg.Timing.ReadyCheckMS, "READY_CHECK_MS")
	overrideInt(&cfg.Timing.RoundPauseMS, "ROUND_PAUSE_MS")
	overrideInt(&cfg.Timing.ReconnectSec, "RECONNECT_SEC")
	overrideString(&cfg.SnapshotDatabaseURL, "SNAPSHOT_DATABASE_URL")
	overrideString(&cfg.OTLPEndpoint, "OTLP_ENDPOINT")

	return cfg
}

// ProfileForTier looks up the AI profile for a difficulty tier, falling
// back to "medium" if the tier is unknown.
func (c *Config) ProfileForTier(tier string) AIProfile {
	for _, p := range c.AIProfiles {
		if p.Tier == tier {
			return p
		}
	}
	for _, p := range c.AIProfiles {
		if p.Tier == "medium" {
			return p
		}
	}
	return AIProfile{Tier: tier, ThinkDelayMS: 1000, Policy: "ranked_greedy"}
}

func overrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*field = n
		} else {
			log.Printf("Warning: invalid value for %s: %q", envKey, val)
		}
	}
}

func overrideString(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}
