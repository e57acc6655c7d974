// Package events carries combat notifications from the simulation to its listeners:
// the UI-facing websocket hub, the NDJSON journal and metrics.
package events

import (
	"encoding/json"
	"time"
)

// EventType enum for event classification
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeTick              // Simulation step boundary
	EventTypeEntitySpawned
	EventTypeEntityRemoved
	EventTypeHealthChanged
	EventTypeDamageDealt
	EventTypeDeath
	EventTypeTagsChanged
	EventTypeStatusChanged
	EventTypeAIStateChanged
	EventTypeCombatStateChanged
	EventTypeShardCollected
	EventTypeShardsActivated
	EventTypeDamageBonusChanged
	EventTypeStanceChanged
	EventTypeWindowOpened
	EventTypeWindowResolved
	EventTypeAttackStarted
	EventTypeAttackExecuted
	EventTypeAltarActivated
)

// EventVersion for backwards compatibility in replay
const EventVersion uint8 = 1

// Event is the envelope published on the bus and written to the journal
type Event struct {
	Version   uint8           `json:"version"`
	Type      EventType       `json:"type"`
	Timestamp int64           `json:"timestamp"` // Unix nano
	Sequence  uint64          `json:"sequence"`  // Assigned by the journal
	TickNum   uint64          `json:"tickNum"`
	EntityID  string          `json:"entityId"` // Subject entity (for rate limiting)
	Payload   json.RawMessage `json:"payload"`
}

// String returns human-readable event type
func (t EventType) String() string {
	switch t {
	case EventTypeTick:
		return "tick"
	case EventTypeEntitySpawned:
		return "entity_spawned"
	case EventTypeEntityRemoved:
		return "entity_removed"
	case EventTypeHealthChanged:
		return "health_changed"
	case EventTypeDamageDealt:
		return "damage_dealt"
	case EventTypeDeath:
		return "death"
	case EventTypeTagsChanged:
		return "tags_changed"
	case EventTypeStatusChanged:
		return "status_changed"
	case EventTypeAIStateChanged:
		return "ai_state_changed"
	case EventTypeCombatStateChanged:
		return "combat_state_changed"
	case EventTypeShardCollected:
		return "shard_collected"
	case EventTypeShardsActivated:
		return "shards_activated"
	case EventTypeDamageBonusChanged:
		return "damage_bonus_changed"
	case EventTypeStanceChanged:
		return "stance_changed"
	case EventTypeWindowOpened:
		return "window_opened"
	case EventTypeWindowResolved:
		return "window_resolved"
	case EventTypeAttackStarted:
		return "attack_started"
	case EventTypeAttackExecuted:
		return "attack_executed"
	case EventTypeAltarActivated:
		return "altar_activated"
	default:
		return "unknown"
	}
}

// MarshalText lets event types appear by name in JSON and log output
func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText reads journal lines back; unrecognized names decode as Unknown
func (t *EventType) UnmarshalText(b []byte) error {
	name := string(b)
	for et := EventTypeTick; et <= EventTypeAltarActivated; et++ {
		if et.String() == name {
			*t = et
			return nil
		}
	}
	*t = EventTypeUnknown
	return nil
}

// Typed payloads for different event types

// TickPayload contains step boundary information
type TickPayload struct {
	EntityCount int   `json:"entityCount"`
	DeltaTimeNs int64 `json:"deltaTimeNs"`
}

// SpawnPayload describes a newly created entity
type SpawnPayload struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Preset string `json:"preset,omitempty"`
}

// HealthPayload is raised on every health mutation
type HealthPayload struct {
	Health    float64 `json:"health"`
	MaxHealth float64 `json:"maxHealth"`
	Defence   float64 `json:"defence"`
}

// DamagePayload contains damage event details
type DamagePayload struct {
	TargetID     string  `json:"targetId"`
	InstigatorID string  `json:"instigatorId"`
	Amount       float64 `json:"amount"`
	DamageType   string  `json:"damageType"`
	IsArea       bool    `json:"isArea"`
}

// DeathPayload names the killing blow
type DeathPayload struct {
	KillerID string `json:"killerId"`
}

// FlagsPayload reports a bit-flag set change (tags or statuses)
type FlagsPayload struct {
	Flags   uint8    `json:"flags"`
	Names   []string `json:"names"`
	Changed string   `json:"changed"`
	Added   bool     `json:"added"`
}

// AIStatePayload reports an AI transition
type AIStatePayload struct {
	From     string `json:"from"`
	To       string `json:"to"`
	TargetID string `json:"targetId,omitempty"`
}

// CombatStatePayload reports the aggregate combat flag
type CombatStatePayload struct {
	InCombat     bool `json:"inCombat"`
	AlertedCount int  `json:"alertedCount"`
}

// ShardPayload reports shard counter changes
type ShardPayload struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	Active   int    `json:"active"`
	Inactive int    `json:"inactive"`
}

// BonusPayload reports the layered damage bonuses
type BonusPayload struct {
	SoulBonus        float64 `json:"soulBonus"`
	PowerBonus       float64 `json:"powerBonus"`
	SoulStanceBonus  float64 `json:"soulStanceBonus"`
	PowerStanceBonus float64 `json:"powerStanceBonus"`
}

// StancePayload reports a derived stance change
type StancePayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WindowPayload reports a timing window opening or resolving
type WindowPayload struct {
	Kind       string  `json:"kind"` // "cast" or "defense"
	Zone       string  `json:"zone,omitempty"`
	Elapsed    float64 `json:"elapsed"`
	Duration   float64 `json:"duration"`
	Multiplier float64 `json:"multiplier,omitempty"`
	OtherID    string  `json:"otherId,omitempty"`
}

// AttackPayload reports cast start and execution
type AttackPayload struct {
	TargetID   string  `json:"targetId"`
	DamageType string  `json:"damageType"`
	Amount     float64 `json:"amount"`
	IsArea     bool    `json:"isArea"`
	Hits       int     `json:"hits,omitempty"`
}

// AltarPayload reports a completed altar activation
type AltarPayload struct {
	AltarID  string `json:"altarId"`
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// EncodePayload marshals a payload to JSON bytes
func EncodePayload(payload interface{}) json.RawMessage {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, tickNum uint64, entityID string, payload interface{}) Event {
	return Event{
		Version:   EventVersion,
		Type:      eventType,
		Timestamp: time.Now().UnixNano(),
		TickNum:   tickNum,
		EntityID:  entityID,
		Payload:   EncodePayload(payload),
	}
}

// Decode unmarshals the payload into v
func (e Event) Decode(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}
