// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for combat balance and runtime settings.
//
// IMPORTANT: When changing balance values, only modify this file.
// Domain packages receive these structs at setup and never keep their own literals.
package config

import (
	"os"
	"strconv"
	"strings"
)

// =============================================================================
// SIMULATION
// =============================================================================

// SimConfig controls the fixed-rate simulation loop.
type SimConfig struct {
	TickRate int // Simulation steps per second
}

// DefaultSim returns the default simulation configuration.
func DefaultSim() SimConfig {
	return SimConfig{
		TickRate: 30,
	}
}

// SimFromEnv returns simulation configuration with environment variable overrides.
func SimFromEnv() SimConfig {
	cfg := DefaultSim()

	if tr := getEnvInt("TICK_RATE", 0); tr > 0 {
		cfg.TickRate = tr
	}

	return cfg
}

// =============================================================================
// SHARD PROGRESSION
// =============================================================================

// ShardConfig holds shard activation limits and damage bonuses.
type ShardConfig struct {
	BonusPerShard    float64 // Damage bonus per active shard (0.03 = 3%)
	MaxPerActivation int     // Hard cap on shards moved by one activation
	SoulStanceBonus  float64 // Extra soul multiplier while in Soul stance
	PowerStanceBonus float64 // Extra physical multiplier while in Power stance
}

// DefaultShards returns the default shard configuration.
// Stance bonuses are a separate layer and currently zeroed.
func DefaultShards() ShardConfig {
	return ShardConfig{
		BonusPerShard:    0.03,
		MaxPerActivation: 5,
		SoulStanceBonus:  0,
		PowerStanceBonus: 0,
	}
}

// =============================================================================
// TIMING WINDOWS
// =============================================================================

// WindowConfig holds the boundaries shared by cast bars and defensive reactions.
// All values are in seconds.
type WindowConfig struct {
	CastDuration             float64 // Attack cast bar length
	CastTelegraph            float64 // Early (telegraph) portion of the cast bar
	DefenseDuration          float64 // Dodge/Order window length
	DefenseModerateBoundary  float64 // Reactions at or before this are Moderate
	ModerateDamageMultiplier float64 // Damage taken on a Moderate reaction
}

// DefaultWindows returns the default window configuration.
func DefaultWindows() WindowConfig {
	return WindowConfig{
		CastDuration:             1.5,
		CastTelegraph:            0.75,
		DefenseDuration:          1.5,
		DefenseModerateBoundary:  0.75,
		ModerateDamageMultiplier: 0.5,
	}
}

// =============================================================================
// ENEMY AI
// =============================================================================

// AIConfig holds the tuning for the Idle/Chase/Attack controller.
type AIConfig struct {
	DetectionCheckInterval float64 // Seconds between perception queries in Idle
	SightRange             float64 // Default perception range
	AcceptanceRadius       float64 // Move-to acceptance radius
	PathUpdateInterval     float64 // Seconds between re-path requests in Chase
	LostTargetDistance     float64 // Chase gives up beyond this distance
	MaxAttackRange         float64 // Upper bound applied to any attack range
	MoveSpeed              float64 // Units per second for the built-in motion
}

// DefaultAI returns the default AI tuning.
func DefaultAI() AIConfig {
	return AIConfig{
		DetectionCheckInterval: 0.5,
		SightRange:             1500,
		AcceptanceRadius:       150,
		PathUpdateInterval:     0.5,
		LostTargetDistance:     2000,
		MaxAttackRange:         400,
		MoveSpeed:              600,
	}
}

// =============================================================================
// COMBAT
// =============================================================================

// CombatConfig holds strike and counter parameters.
type CombatConfig struct {
	AreaDamageRadius      float64 // Radius around the target hit by area strikes
	CounterArmorReduction float64 // Fraction of defence removed by a counter
	EchoDamageFraction    float64 // Share of dealt damage echoed to the marked target
	MinAttackSpeed        float64 // Floor for attacks per second
}

// DefaultCombat returns the default combat configuration.
func DefaultCombat() CombatConfig {
	return CombatConfig{
		AreaDamageRadius:      400,
		CounterArmorReduction: 0.25,
		EchoDamageFraction:    0.75,
		MinAttackSpeed:        0.1,
	}
}

// BalanceConfig groups every gameplay constant injected at entity setup.
type BalanceConfig struct {
	Shards  ShardConfig
	Windows WindowConfig
	AI      AIConfig
	Combat  CombatConfig
}

// DefaultBalance returns the complete default balance.
func DefaultBalance() BalanceConfig {
	return BalanceConfig{
		Shards:  DefaultShards(),
		Windows: DefaultWindows(),
		AI:      DefaultAI(),
		Combat:  DefaultCombat(),
	}
}

// BalanceFromEnv returns balance values with environment variable overrides.
// Only the knobs worth tuning on a running server are exposed.
func BalanceFromEnv() BalanceConfig {
	cfg := DefaultBalance()

	if v := getEnvFloat("SHARD_BONUS_PER_SHARD", -1); v >= 0 {
		cfg.Shards.BonusPerShard = v
	}
	if v := getEnvFloat("AI_SIGHT_RANGE", 0); v > 0 {
		cfg.AI.SightRange = v
	}
	if v := getEnvFloat("AI_MOVE_SPEED", 0); v > 0 {
		cfg.AI.MoveSpeed = v
	}
	if v := getEnvFloat("DEFENSE_WINDOW", 0); v > 0 {
		cfg.Windows.DefenseDuration = v
		cfg.Windows.DefenseModerateBoundary = v / 2
	}

	return cfg
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int
	CORSOrigins []string
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port: 3000,
		CORSOrigins: []string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		},
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if origins := getEnvString("CORS_ORIGINS", ""); origins != "" {
		cfg.CORSOrigins = strings.Split(origins, ",")
	}

	return cfg
}

// =============================================================================
// EVENT LOG
// =============================================================================

// EventLogConfig controls the NDJSON combat journal.
type EventLogConfig struct {
	Path               string  // Empty disables file output
	MaxEventsPerSec    float64 // Global rate limit
	MaxEventsPerEntity float64 // Per-entity rate limit
}

// DefaultEventLog returns the default journal configuration.
func DefaultEventLog() EventLogConfig {
	return EventLogConfig{
		Path:               "combat_events.jsonl",
		MaxEventsPerSec:    5000,
		MaxEventsPerEntity: 200,
	}
}

// EventLogFromEnv returns journal configuration with environment variable overrides.
func EventLogFromEnv() EventLogConfig {
	cfg := DefaultEventLog()

	if _, ok := os.LookupEnv("EVENT_LOG_PATH"); ok {
		cfg.Path = os.Getenv("EVENT_LOG_PATH")
	}
	if v := getEnvFloat("EVENT_LOG_RATE", 0); v > 0 {
		cfg.MaxEventsPerSec = v
	}

	return cfg
}

// =============================================================================
// STAT TABLES
// =============================================================================

// StatsConfig points at the character and weapon stat tables.
type StatsConfig struct {
	Path string // Empty uses the embedded defaults
}

// StatsFromEnv returns the stat table location.
func StatsFromEnv() StatsConfig {
	return StatsConfig{Path: getEnvString("STATS_PATH", "")}
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Sim      SimConfig
	Balance  BalanceConfig
	Server   ServerConfig
	EventLog EventLogConfig
	Stats    StatsConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Sim:      SimFromEnv(),
		Balance:  BalanceFromEnv(),
		Server:   ServerFromEnv(),
		EventLog: EventLogFromEnv(),
		Stats:    StatsFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
