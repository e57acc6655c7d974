package combat

import (
	"testing"

	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/config"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func standardEnemy(bus *events.Bus) *Entity {
	return NewBuilder(config.DefaultBalance(), bus).
		WithName("Standard").
		WithTags(TagHasSoul).
		WithAttack(300, 1/1.5).
		Build()
}

func testPlayer(bus *events.Bus) *Entity {
	return NewBuilder(config.DefaultBalance(), bus).
		WithKind(KindPlayer).
		WithTags(TagHasSoul).
		WithDefense().
		Build()
}

// TestStandardEnemyTakesDamage is the physical and soul end-to-end scenario
func TestStandardEnemyTakesDamage(t *testing.T) {
	bus, rec := recordingBus()
	dir := Vec3{X: 1} // Attacker behind, enemy faces +X

	enemy := standardEnemy(bus)
	dealt := enemy.TakeDamage(DamageDescriptor{Amount: 20, Type: DamagePhysical, Instigator: "player"}, dir)
	assert.Equal(t, 20.0, dealt)
	assert.Equal(t, 80.0, enemy.Resources.Get().Health)

	enemy = standardEnemy(bus)
	dealt = enemy.TakeDamage(DamageDescriptor{Amount: 20, Type: DamageSoul, Instigator: "player"}, dir)
	assert.Equal(t, 40.0, dealt)
	assert.Equal(t, 60.0, enemy.Resources.Get().Health)

	dmg := rec.OfType(events.EventTypeDamageDealt)
	require.Len(t, dmg, 2)
	var p events.DamagePayload
	require.NoError(t, dmg[1].Decode(&p))
	assert.Equal(t, "soul", p.DamageType)
	assert.Equal(t, "player", p.InstigatorID)
	assert.Equal(t, 40.0, p.Amount)
}

func TestDamageAccumulates(t *testing.T) {
	enemy := standardEnemy(nil)
	enemy.TakeDamage(DamageDescriptor{Amount: 20, Type: DamagePhysical}, Vec3{X: 1})
	enemy.TakeDamage(DamageDescriptor{Amount: 20, Type: DamageSoul}, Vec3{X: 1})
	assert.Equal(t, 40.0, enemy.Resources.Get().Health)
}

func TestBuilderDefaults(t *testing.T) {
	e := NewBuilder(config.DefaultBalance(), nil).Facing(Vec3{}).WithAttack(5000, 2).Build()
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, KindEnemy, e.Kind)
	assert.Equal(t, Forward, e.Forward, "zero facing falls back to forward")
	assert.Equal(t, 400.0, e.AttackRange, "attack range is capped")
	assert.Equal(t, 1500.0, e.SightRange)
	assert.True(t, e.Status.Has(StatusNonCombat))
	assert.NotNil(t, e.Attack)
	assert.Nil(t, e.Defense)
	assert.Equal(t, 2.0, e.Attack.AttackSpeed())
}

// TestAttackCastProducesStrike verifies the cast bar, cooldown and strike descriptor
func TestAttackCastProducesStrike(t *testing.T) {
	bus, rec := recordingBus()
	enemy := standardEnemy(bus)
	a := enemy.Attack

	require.True(t, a.CanAttack())
	assert.ErrorIs(t, a.StartAttack("", 100, 300, DamagePhysical, false), ErrNoTarget)
	assert.ErrorIs(t, a.StartAttack("p", 301, 300, DamagePhysical, false), ErrOutOfRange)
	require.NoError(t, a.StartAttack("p", 200, 300, DamagePhysical, false))
	assert.Equal(t, 1, rec.Count(events.EventTypeAttackStarted))

	assert.False(t, a.CanAttack())
	assert.ErrorIs(t, a.StartAttack("p", 200, 300, DamagePhysical, false), ErrCasting)
	assert.InDelta(t, 1.5, a.CooldownRemaining(), 1e-9)

	_, ok := a.Tick(0.5)
	assert.False(t, ok)
	assert.Equal(t, ZoneEarly, a.CastZone())
	_, ok = a.Tick(0.5)
	assert.False(t, ok)
	assert.Equal(t, ZonePerfect, a.CastZone())

	strike, ok := a.Tick(0.5)
	require.True(t, ok)
	assert.Equal(t, EntityID("p"), strike.Target)
	assert.Equal(t, enemy.ID, strike.Attacker)
	assert.Equal(t, 10.0, strike.Damage.Amount)
	assert.Equal(t, enemy.ID, strike.Damage.Instigator)
	assert.False(t, a.IsCasting())
	assert.True(t, a.CanAttack(), "cooldown equals cast duration at 1/1.5 aps")
}

func TestAttackCooldown(t *testing.T) {
	e := NewBuilder(config.DefaultBalance(), nil).WithAttack(300, 0.25).Build()
	a := e.Attack

	require.NoError(t, a.StartAttack("p", 0, 300, DamageSoul, false))
	for i := 0; i < 3; i++ {
		a.Tick(0.5)
	}
	assert.False(t, a.IsCasting())
	assert.ErrorIs(t, a.StartAttack("p", 0, 300, DamageSoul, false), ErrOnCooldown)
	a.Tick(2.5)
	assert.NoError(t, a.StartAttack("p", 0, 300, DamageSoul, false))

	a.Cancel()
	assert.False(t, a.IsCasting())
	assert.Zero(t, a.CastProgress())
}

// TestReactionZones verifies the moderate, perfect and expiry outcomes of a defense
func TestReactionZones(t *testing.T) {
	tests := []struct {
		name       string
		wait       float64
		trigger    bool
		wantZone   Zone
		wantHealth float64
		wantEffect bool
	}{
		{"moderate halves", 0.5, true, ZoneModerate, 95, false},
		{"perfect cancels", 1.0, true, ZonePerfect, 100, true},
		{"expiry lands in full", 1.6, false, ZoneExpired, 90, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			player := testPlayer(nil)
			player.Status.EnterCombat()

			effect := false
			player.Defense.SetPerfectEffect(func(in Incoming) {
				effect = true
				assert.Equal(t, EntityID("enemy"), in.Attacker)
			})

			_, deferred := player.ReceiveStrike(DamageDescriptor{Amount: 10, Instigator: "enemy"}, Vec3{X: 1})
			require.True(t, deferred)
			assert.Equal(t, 100.0, player.Resources.Get().Health)

			var out Outcome
			if tt.trigger {
				player.TickDefense(tt.wait)
				var err error
				out, _, err = player.Defend()
				require.NoError(t, err)
			} else {
				var expired bool
				out, _, expired = player.TickDefense(tt.wait)
				require.True(t, expired)
			}

			assert.Equal(t, tt.wantZone, out.Zone)
			assert.Equal(t, tt.wantHealth, player.Resources.Get().Health)
			assert.Equal(t, tt.wantEffect, effect)
			assert.False(t, player.Defense.Active())
		})
	}
}

func TestReceiveStrikeOutOfCombatLandsImmediately(t *testing.T) {
	player := testPlayer(nil)
	dealt, deferred := player.ReceiveStrike(DamageDescriptor{Amount: 10}, Vec3{X: 1})
	assert.False(t, deferred)
	assert.Equal(t, 10.0, dealt)
}

// TestSecondStrikeDuringWindow verifies an occupied window makes the next hit land now
func TestSecondStrikeDuringWindow(t *testing.T) {
	player := testPlayer(nil)
	player.Status.EnterCombat()

	_, deferred := player.ReceiveStrike(DamageDescriptor{Amount: 10, Instigator: "a"}, Vec3{X: 1})
	require.True(t, deferred)
	dealt, deferred := player.ReceiveStrike(DamageDescriptor{Amount: 10, Instigator: "b"}, Vec3{X: 1})
	assert.False(t, deferred)
	assert.Equal(t, 10.0, dealt)
	assert.Equal(t, EntityID("a"), player.Defense.Attacker())
}

func TestDefendWithoutWindow(t *testing.T) {
	player := testPlayer(nil)
	_, _, err := player.Defend()
	assert.ErrorIs(t, err, ErrWindowInactive)

	enemy := standardEnemy(nil)
	_, _, err = enemy.Defend()
	assert.ErrorIs(t, err, ErrWindowInactive)
}

func TestCounterAttack(t *testing.T) {
	b := NewBuilder(config.DefaultBalance(), nil)
	target := b.WithTags(TagShielded | TagArmored).
		WithResources(Resources{Health: 300, MaxHealth: 300, AttackPoint: 20, DefencePoint: 20}).
		Build()

	assert.Equal(t, CounterShieldStrip, CounterAttack(target, 0.25))
	assert.False(t, target.Tags.Has(TagShielded))
	assert.Equal(t, 20.0, target.Resources.Get().DefencePoint)

	assert.Equal(t, CounterArmorBreak, CounterAttack(target, 0.25))
	assert.Equal(t, 15.0, target.Resources.Get().DefencePoint)

	plain := standardEnemy(nil)
	assert.Equal(t, CounterNone, CounterAttack(plain, 0.25))
	assert.Equal(t, CounterNone, CounterAttack(nil, 0.25))
}
