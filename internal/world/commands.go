package world

import (
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/ai"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/combat"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/shard"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/weapon"
)

// altarReach is how close the player must stand to use an altar.
const altarReach = 200

// playerPreset names the stat table row the player is built from.
const playerPreset = "player"

// Every command takes the engine lock and republishes the snapshot so readers
// see the effect without waiting for the next step.

// SpawnPlayer creates the player at the origin holding the named weapon. An
// existing player is replaced; shards carry over.
func (e *Engine) SpawnPlayer(name weapon.Name) (combat.EntityID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	preset, ok := e.tables.Preset(playerPreset)
	if !ok {
		return "", ErrUnknownPreset
	}
	if _, ok := e.tables.Weapon(name); !ok {
		return "", ErrUnknownWeapon
	}

	if e.player != nil {
		e.dropPlayer()
	}

	p := combat.NewBuilder(e.balance, e.bus).
		WithID(PlayerID).
		WithName("Player").
		WithKind(combat.KindPlayer).
		WithPreset(playerPreset).
		WithResources(preset.Resources).
		WithTags(preset.Tags).
		WithSightRange(preset.SightRange).
		WithDefense().
		WithAttack(preset.AttackRange, preset.AttackSpeed).
		Build()
	e.add(p)
	e.player = p
	e.kits = make(map[weapon.Name]*weapon.Kit)

	e.equip(name)
	e.tracker.SetPlayer(p.Status)
	for _, m := range e.machines {
		m.SetQuarry(PlayerID)
	}

	e.logger.Info("world: player spawned", "weapon", name)
	e.publish()
	return p.ID, nil
}

// SpawnEnemy builds an enemy from a preset at pos and starts its AI.
func (e *Engine) SpawnEnemy(presetName string, pos combat.Vec3) (combat.EntityID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	preset, ok := e.tables.Preset(presetName)
	if !ok || presetName == playerPreset {
		return "", ErrUnknownPreset
	}

	b := combat.NewBuilder(e.balance, e.bus).
		WithName(presetName).
		WithPreset(presetName).
		WithResources(preset.Resources).
		WithTags(preset.Tags).
		WithSightRange(preset.SightRange).
		At(pos)
	if preset.AttackSpeed > 0 {
		b = b.WithAttack(preset.AttackRange, preset.AttackSpeed)
	}
	ent := b.Build()
	if e.player != nil {
		ent.FaceTowards(e.player.Position)
	}
	e.add(ent)

	m := ai.NewMachine(ent.ID, ent.SightRange, e.balance.AI, ai.Deps{
		Perception: e.perception,
		Motion:     e.motion,
		Attacker:   &enemyAttacker{e: e, self: ent},
		Status:     ent.Status,
		Notifier:   e.tracker,
		Bus:        e.bus,
		Logger:     e.logger,
	})
	e.machines[ent.ID] = m
	e.tracker.Register(ent.ID)
	m.Initialize(PlayerID)

	e.publish()
	return ent.ID, nil
}

// Remove deletes an entity. Removing the player unequips its weapon.
func (e *Engine) Remove(id combat.EntityID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.entities[id]; !ok {
		return ErrUnknownEntity
	}
	if id == PlayerID {
		e.dropPlayer()
	} else {
		e.remove(id)
	}
	e.publish()
	return nil
}

func (e *Engine) dropPlayer() {
	if e.kit != nil {
		e.kit.Unequip()
		e.kit = nil
	}
	e.tracker.SetPlayer(nil)
	e.remove(PlayerID)
	e.player = nil
}

// MovePlayer walks the player toward goal.
func (e *Engine) MovePlayer(goal combat.Vec3) (ai.MoveResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.hasLivingPlayer() {
		return ai.MoveFailed, ErrNoPlayer
	}
	return e.motion.MoveTo(PlayerID, goal, 0), nil
}

// PlayerAttack starts the player's basic attack against target.
func (e *Engine) PlayerAttack(target combat.EntityID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkCommand(target); err != nil {
		return err
	}
	if err := e.kit.BasicAttack(target); err != nil {
		return err
	}
	e.publish()
	return nil
}

// PlayerAbility casts the weapon ability in slot. Area abilities ignore target.
func (e *Engine) PlayerAbility(slot weapon.Slot, target combat.EntityID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkCommand(""); err != nil {
		return err
	}
	if target != "" {
		if _, ok := e.entities[target]; !ok {
			return ErrUnknownEntity
		}
	}
	if err := e.kit.Ability(slot, target); err != nil {
		return err
	}
	e.removeDead()
	e.publish()
	return nil
}

// PlayerDefend triggers the player's reaction to the incoming attack.
func (e *Engine) PlayerDefend() (combat.Outcome, float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.hasLivingPlayer() {
		return combat.Outcome{}, 0, ErrNoPlayer
	}
	out, dealt, err := e.player.Defend()
	if err != nil {
		return combat.Outcome{}, 0, err
	}
	e.removeDead()
	e.publish()
	return out, dealt, nil
}

// SwitchWeapon swaps the player's kit. Each kit keeps its own cooldowns.
func (e *Engine) SwitchWeapon(name weapon.Name) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.hasLivingPlayer() {
		return ErrNoPlayer
	}
	if _, ok := e.tables.Weapon(name); !ok {
		return ErrUnknownWeapon
	}
	if e.kit != nil && e.kit.Name() == name {
		return nil
	}
	if e.player.Attack != nil && e.player.Attack.IsCasting() {
		return combat.ErrCasting
	}
	if e.kit != nil {
		e.kit.Unequip()
	}
	e.equip(name)
	e.publish()
	return nil
}

func (e *Engine) equip(name weapon.Name) {
	kit, ok := e.kits[name]
	if !ok {
		ws, _ := e.tables.Weapon(name)
		kit = weapon.New(ws, e.player, e.arena, e.shards, e.balance.Combat, e.bus, e.logger)
		e.kits[name] = kit
	}
	kit.Equip()
	e.kit = kit
}

// CollectShard adds one inactive shard and returns the new inactive count.
func (e *Engine) CollectShard(c shard.Category) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := e.shards.Collect(c)
	e.publish()
	return n
}

// ActivateShards moves count shards of c from inactive to active.
func (e *Engine) ActivateShards(c shard.Category, count int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	ok := e.shards.Activate(c, count)
	e.publish()
	return ok
}

// AddOccluder places a sphere that blocks enemy sight.
func (e *Engine) AddOccluder(o Occluder) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.occluders = append(e.occluders, o)
	e.publish()
}

// AddPickup places a shard pickup. respawn <= 0 makes it single use.
func (e *Engine) AddPickup(id string, c shard.Category, pos combat.Vec3, respawn float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := shard.NewPickup(id, c, pos)
	p.Respawn = respawn
	e.pickups = append(e.pickups, p)
	e.publish()
}

// AddAltar places an altar. It stays locked while any guardian is alive.
func (e *Engine) AddAltar(id string, pos combat.Vec3, cfg shard.AltarConfig, guardians ...combat.EntityID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	a := shard.NewAltar(id, pos, cfg, e.bus)
	if len(guardians) > 0 {
		a.GuardiansDefeated = func() bool {
			for _, g := range guardians {
				if ent, ok := e.entities[g]; ok && ent.IsAlive() {
					return false
				}
			}
			return true
		}
	}
	e.altars = append(e.altars, a)
	e.publish()
}

// UseAltar starts an activation of up to count shards. The player must stay
// within reach until a hold completes.
func (e *Engine) UseAltar(id string, count int) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.hasLivingPlayer() {
		return false, ErrNoPlayer
	}
	var altar *shard.Altar
	for _, a := range e.altars {
		if a.ID == id {
			altar = a
			break
		}
	}
	if altar == nil {
		return false, ErrUnknownAltar
	}
	if e.player.Position.Distance(altar.Position) > altarReach {
		return false, combat.ErrOutOfRange
	}
	done, err := altar.Start(e.shards, count)
	if err != nil {
		return false, err
	}
	e.publish()
	return done, nil
}

func (e *Engine) hasLivingPlayer() bool {
	return e.player != nil && e.player.IsAlive()
}

func (e *Engine) checkCommand(target combat.EntityID) error {
	if !e.hasLivingPlayer() || e.kit == nil {
		return ErrNoPlayer
	}
	if target == "" {
		return nil
	}
	if _, ok := e.entities[target]; !ok {
		return ErrUnknownEntity
	}
	return nil
}
