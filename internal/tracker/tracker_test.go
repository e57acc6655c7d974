package tracker_test

import (
	"testing"

	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/ai"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/combat"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/events"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/tracker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ai.CombatNotifier = (*tracker.Tracker)(nil)

func newTracker() (*tracker.Tracker, *events.Recorder) {
	bus := events.NewBus()
	rec := events.NewRecorder(0)
	bus.Subscribe(rec.Handle)
	return tracker.New("player", bus, nil), rec
}

func TestAlertAndUnregister(t *testing.T) {
	tr, rec := newTracker()
	tr.Register("a")
	tr.Register("b")
	assert.False(t, tr.InCombat())

	tr.OnSeesTarget("a")
	assert.True(t, tr.InCombat())

	tr.Unregister("a")
	assert.False(t, tr.InCombat())
	assert.Equal(t, 1, tr.RegisteredCount())

	changes := rec.OfType(events.EventTypeCombatStateChanged)
	require.Len(t, changes, 2)

	var first, second events.CombatStatePayload
	require.NoError(t, changes[0].Decode(&first))
	require.NoError(t, changes[1].Decode(&second))
	assert.Equal(t, events.CombatStatePayload{InCombat: true, AlertedCount: 1}, first)
	assert.Equal(t, events.CombatStatePayload{InCombat: false, AlertedCount: 0}, second)
}

// TestOneEventPerEdge verifies repeated identical calls stay silent
func TestOneEventPerEdge(t *testing.T) {
	tr, rec := newTracker()
	tr.Register("a")
	tr.Register("b")

	tr.OnSeesTarget("a")
	tr.OnSeesTarget("a")
	tr.OnSeesTarget("b")
	assert.Equal(t, 2, tr.AlertedCount())
	assert.Equal(t, 1, rec.Count(events.EventTypeCombatStateChanged))

	tr.OnLostTarget("a")
	assert.True(t, tr.InCombat(), "b is still alerted")
	tr.OnLostTarget("b")
	tr.OnLostTarget("b")
	tr.Unregister("b")

	assert.False(t, tr.InCombat())
	assert.Equal(t, 2, rec.Count(events.EventTypeCombatStateChanged))
}

func TestPlayerStatusFollowsAggregate(t *testing.T) {
	tr, _ := newTracker()
	status := combat.NewStatusState("player", nil)
	tr.SetPlayer(status)
	assert.True(t, status.Has(combat.StatusNonCombat))

	tr.Register("a")
	tr.OnSeesTarget("a")
	assert.True(t, status.Has(combat.StatusCombat))
	assert.False(t, status.Has(combat.StatusNonCombat))

	tr.OnLostTarget("a")
	assert.True(t, status.Has(combat.StatusNonCombat))
	assert.False(t, tr.IsAlerted("a"))
}
