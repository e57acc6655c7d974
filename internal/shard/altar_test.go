package shard_test

import (
	"testing"

	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/combat"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/config"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/events"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/shard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func holdAltar(t *testing.T, collected int) (*shard.Altar, *shard.Progression, *events.Recorder) {
	t.Helper()
	bus := events.NewBus()
	rec := events.NewRecorder(0)
	bus.Subscribe(rec.Handle)

	p := shard.NewProgression("player", config.DefaultShards(), bus)
	for i := 0; i < collected; i++ {
		p.Collect(shard.Soul)
	}
	rec.Reset()
	return shard.NewAltar("altar-1", combat.Vec3{}, shard.DefaultAltar(shard.Soul), bus), p, rec
}

func TestAltarHoldCompletes(t *testing.T) {
	a, p, rec := holdAltar(t, 3)

	done, err := a.Start(p, 2)
	require.NoError(t, err)
	assert.False(t, done)
	assert.True(t, a.Activating())

	assert.False(t, a.Tick(1))
	assert.InDelta(t, 0.5, a.Progress(), 1e-12)
	assert.Equal(t, 3, p.Counts(shard.Soul).Inactive, "nothing spent before completion")

	assert.True(t, a.Tick(1))
	assert.False(t, a.Activating())
	assert.Zero(t, a.Progress())
	assert.Equal(t, shard.Inventory{Active: 2, Inactive: 1}, p.Counts(shard.Soul))

	require.Equal(t, 1, rec.Count(events.EventTypeAltarActivated))
	var payload events.AltarPayload
	require.NoError(t, rec.OfType(events.EventTypeAltarActivated)[0].Decode(&payload))
	assert.Equal(t, events.AltarPayload{AltarID: "altar-1", Category: "soul", Count: 2}, payload)
}

func TestAltarClampsRequest(t *testing.T) {
	tests := []struct {
		name      string
		collected int
		requested int
		want      int
	}{
		{"below minimum", 3, 0, 1},
		{"above available", 2, 4, 2},
		{"above cap", 9, 8, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, p, _ := holdAltar(t, tt.collected)
			_, err := a.Start(p, tt.requested)
			require.NoError(t, err)
			require.True(t, a.Tick(2))
			assert.Equal(t, tt.want, p.Counts(shard.Soul).Active)
		})
	}
}

func TestAltarPuzzleNoneCompletesOnStart(t *testing.T) {
	bus := events.NewBus()
	p := shard.NewProgression("player", config.DefaultShards(), bus)
	p.Collect(shard.Power)

	cfg := shard.DefaultAltar(shard.Power)
	cfg.Puzzle = shard.PuzzleNone
	a := shard.NewAltar("altar-2", combat.Vec3{}, cfg, bus)

	done, err := a.Start(p, 1)
	require.NoError(t, err)
	assert.True(t, done)
	assert.False(t, a.Activating())
	assert.Zero(t, a.Progress())
	assert.Equal(t, 1, p.Counts(shard.Power).Active)
}

func TestAltarRejects(t *testing.T) {
	t.Run("not enough shards", func(t *testing.T) {
		a, p, _ := holdAltar(t, 0)
		_, err := a.Start(p, 1)
		assert.ErrorIs(t, err, shard.ErrNotEnoughShards)
	})

	t.Run("guardians alive", func(t *testing.T) {
		a, p, _ := holdAltar(t, 2)
		alive := true
		a.GuardiansDefeated = func() bool { return !alive }

		_, err := a.Start(p, 1)
		assert.ErrorIs(t, err, shard.ErrGuardiansAlive)

		alive = false
		_, err = a.Start(p, 1)
		assert.NoError(t, err)
	})

	t.Run("busy", func(t *testing.T) {
		a, p, _ := holdAltar(t, 2)
		_, err := a.Start(p, 1)
		require.NoError(t, err)
		_, err = a.Start(p, 1)
		assert.ErrorIs(t, err, shard.ErrAltarBusy)
	})
}

func TestAltarCancelSpendsNothing(t *testing.T) {
	a, p, rec := holdAltar(t, 2)
	_, err := a.Start(p, 2)
	require.NoError(t, err)
	a.Tick(1.5)

	a.Cancel()
	assert.False(t, a.Activating())
	assert.False(t, a.Tick(5))
	assert.Equal(t, shard.Inventory{Inactive: 2}, p.Counts(shard.Soul))
	assert.Zero(t, rec.Count(events.EventTypeAltarActivated))
}
