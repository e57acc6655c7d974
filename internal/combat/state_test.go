package combat

import (
	"testing"

	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordingBus() (*events.Bus, *events.Recorder) {
	bus := events.NewBus()
	rec := events.NewRecorder(0)
	bus.Subscribe(rec.Handle)
	return bus, rec
}

// TestApplyDamageClampsAndDiesOnce verifies health never goes negative and death fires once
func TestApplyDamageClampsAndDiesOnce(t *testing.T) {
	bus, rec := recordingBus()
	rs := NewResourceState("e1", DefaultResources(), bus)

	taken := rs.ApplyDamage(30, DamageDescriptor{Instigator: "p"})
	assert.Equal(t, 30.0, taken)
	assert.Equal(t, 70.0, rs.Get().Health)

	taken = rs.ApplyDamage(500, DamageDescriptor{Instigator: "p"})
	assert.Equal(t, 70.0, taken, "only remaining health is taken")
	assert.Equal(t, 0.0, rs.Get().Health)
	assert.False(t, rs.IsAlive())

	assert.Zero(t, rs.ApplyDamage(10, DamageDescriptor{}), "dead entities take no damage")
	assert.Equal(t, 1, rec.Count(events.EventTypeDeath))
	assert.Equal(t, 2, rec.Count(events.EventTypeHealthChanged))

	var death events.DeathPayload
	require.NoError(t, rec.OfType(events.EventTypeDeath)[0].Decode(&death))
	assert.Equal(t, "p", death.KillerID)
}

// TestSetResourcesClampsAndRevives verifies full replacement is clamped and re-arms death
func TestSetResourcesClampsAndRevives(t *testing.T) {
	bus, rec := recordingBus()
	rs := NewResourceState("e1", DefaultResources(), bus)

	rs.SetResources(Resources{Health: 150, MaxHealth: 120, AttackPoint: 5, DefencePoint: 10})
	assert.Equal(t, 120.0, rs.Get().Health)

	rs.ApplyDamage(120, DamageDescriptor{})
	require.False(t, rs.IsAlive())

	rs.SetResources(Resources{Health: 50, MaxHealth: 100})
	assert.True(t, rs.IsAlive())
	rs.ApplyDamage(50, DamageDescriptor{})
	assert.Equal(t, 2, rec.Count(events.EventTypeDeath))
}

func TestTagStateIdempotent(t *testing.T) {
	bus, rec := recordingBus()
	ts := NewTagState("e1", TagHasSoul, bus)

	assert.True(t, ts.Add(TagShielded))
	assert.False(t, ts.Add(TagShielded))
	assert.True(t, ts.Has(TagShielded|TagHasSoul))
	assert.True(t, ts.Remove(TagShielded))
	assert.False(t, ts.Remove(TagShielded))
	assert.False(t, ts.Has(TagShielded))
	assert.Equal(t, 2, rec.Count(events.EventTypeTagsChanged))
	assert.Equal(t, []string{"has_soul"}, ts.Tags().Names())
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		in   string
		want Tag
		ok   bool
	}{
		{"Shielded", TagShielded, true},
		{" armored ", TagArmored, true},
		{"HasSoul", TagHasSoul, true},
		{"has-soul", TagHasSoul, true},
		{"mechanical", TagMechanical, true},
		{"flying", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseTag(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseTag(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

// TestStatusTimers verifies marked/vulnerable countdowns clear their flags
func TestStatusTimers(t *testing.T) {
	st := NewStatusState("e1", nil)
	require.True(t, st.Has(StatusNonCombat), "entities start out of combat")

	st.SetMarked(1.0)
	st.SetVulnerable(0.5)
	st.Tick(0.4)
	assert.True(t, st.Has(StatusMarked|StatusVulnerable))

	st.Tick(0.2)
	assert.False(t, st.Has(StatusVulnerable))
	assert.Zero(t, st.VulnerableRemaining())
	assert.True(t, st.Has(StatusMarked))

	// Re-marking restarts rather than stacks
	st.SetMarked(1.0)
	assert.InDelta(t, 1.0, st.MarkedRemaining(), 1e-9)
	st.Tick(1.0)
	assert.False(t, st.Has(StatusMarked))
	assert.Zero(t, st.MarkedRemaining())
}

func TestStatusWithoutTimerPersists(t *testing.T) {
	st := NewStatusState("e1", nil)
	st.Add(StatusVulnerable)
	st.Tick(100)
	assert.True(t, st.Has(StatusVulnerable))

	st.SetMarked(0)
	assert.False(t, st.Has(StatusMarked))
}

func TestCombatStatusesExclusive(t *testing.T) {
	bus, rec := recordingBus()
	st := NewStatusState("e1", bus)

	st.EnterCombat()
	assert.True(t, st.Has(StatusCombat))
	assert.False(t, st.Has(StatusNonCombat))

	rec.Reset()
	st.EnterCombat()
	assert.Zero(t, rec.Count(events.EventTypeStatusChanged), "re-entering combat changes nothing")

	st.LeaveCombat()
	assert.True(t, st.Has(StatusNonCombat))
	assert.False(t, st.Has(StatusCombat))
}
