package world

import (
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/combat"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/shard"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/weapon"
)

// demoEnemies is the starting encounter, one of each enemy preset.
var demoEnemies = []struct {
	preset string
	pos    combat.Vec3
}{
	{"standard", combat.Vec3{X: 1200, Y: 0}},
	{"phase", combat.Vec3{X: 1200, Y: 600}},
	{"tank", combat.Vec3{X: 1800, Y: -400}},
	{"shielded_tank", combat.Vec3{X: 2200, Y: 300}},
	{"shielded_tank_robot", combat.Vec3{X: 2600, Y: 0}},
}

// SpawnEncounter fills an empty world with the demo arena: a player with the
// given weapon, the enemy line-up, a pillar, shard pickups and an altar guarded
// by the robot.
func (e *Engine) SpawnEncounter(w weapon.Name) error {
	if _, err := e.SpawnPlayer(w); err != nil {
		return err
	}

	var guardian combat.EntityID
	for _, d := range demoEnemies {
		id, err := e.SpawnEnemy(d.preset, d.pos)
		if err != nil {
			return err
		}
		guardian = id
	}

	e.AddOccluder(Occluder{Center: combat.Vec3{X: 600, Y: 300}, Radius: 150})
	e.AddPickup("soul-1", shard.Soul, combat.Vec3{X: -300, Y: 200}, shard.DefaultRespawn)
	e.AddPickup("power-1", shard.Power, combat.Vec3{X: -300, Y: -200}, shard.DefaultRespawn)
	e.AddAltar("soul-altar", combat.Vec3{X: 3000, Y: 0}, shard.DefaultAltar(shard.Soul), guardian)
	e.AddAltar("power-altar", combat.Vec3{X: -600, Y: 0}, shard.DefaultAltar(shard.Power))

	e.logger.Info("world: encounter spawned", "enemies", len(demoEnemies))
	return nil
}
