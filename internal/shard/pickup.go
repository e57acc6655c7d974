package shard

import "github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/combat"

// DefaultRespawn is how long a collected pickup stays hidden.
const DefaultRespawn = 10.0

// Pickup is a collectible shard in the world.
type Pickup struct {
	ID       string
	Category Category
	Position combat.Vec3
	Radius   float64

	// Respawn <= 0 means the pickup is consumed for good.
	Respawn float64

	available bool
	timer     float64
}

// NewPickup creates an available, respawning pickup.
func NewPickup(id string, c Category, pos combat.Vec3) *Pickup {
	return &Pickup{
		ID:        id,
		Category:  c,
		Position:  pos,
		Radius:    50,
		Respawn:   DefaultRespawn,
		available: true,
	}
}

// Available reports whether the pickup can be collected.
func (k *Pickup) Available() bool { return k.available }

// TryCollect gives p one shard and hides the pickup.
func (k *Pickup) TryCollect(p *Progression) bool {
	if !k.available || p == nil {
		return false
	}
	p.Collect(k.Category)
	k.available = false
	k.timer = k.Respawn
	return true
}

// Consumed reports whether the pickup is gone and will not come back.
func (k *Pickup) Consumed() bool { return !k.available && k.Respawn <= 0 }

// Tick counts down the respawn timer.
func (k *Pickup) Tick(dt float64) {
	if k.available || k.Respawn <= 0 {
		return
	}
	k.timer -= dt
	if k.timer <= 0 {
		k.timer = 0
		k.available = true
	}
}
