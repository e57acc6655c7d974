package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/ai"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/api"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/combat"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/config"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/events"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/shard"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/stats"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/weapon"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/world"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine records the last command and returns canned results.
type fakeEngine struct {
	snap *world.Snapshot
	err  error

	lastPreset string
	lastPos    combat.Vec3
	lastTarget combat.EntityID
	lastSlot   weapon.Slot
	lastWeapon weapon.Name
	lastAltar  string
	activated  bool
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{snap: &world.Snapshot{
		Tick: 42,
		Entities: []world.EntitySnapshot{
			{ID: "a-enemy", Kind: string(combat.KindEnemy), Alive: true, AIState: "chase"},
			{ID: "player", Kind: string(combat.KindPlayer), Alive: true},
		},
		Combat: world.CombatSnapshot{InCombat: true, AlertedCount: 1, Registered: 1},
	}}
}

func (f *fakeEngine) Snapshot() *world.Snapshot { return f.snap }
func (f *fakeEngine) Tables() *stats.Tables     { return stats.Default() }

func (f *fakeEngine) SpawnEnemy(preset string, pos combat.Vec3) (combat.EntityID, error) {
	f.lastPreset, f.lastPos = preset, pos
	return "new-enemy", f.err
}

func (f *fakeEngine) MovePlayer(goal combat.Vec3) (ai.MoveResult, error) {
	f.lastPos = goal
	return ai.MoveSucceeded, f.err
}

func (f *fakeEngine) PlayerAttack(target combat.EntityID) error {
	f.lastTarget = target
	return f.err
}

func (f *fakeEngine) PlayerAbility(slot weapon.Slot, target combat.EntityID) error {
	f.lastSlot, f.lastTarget = slot, target
	return f.err
}

func (f *fakeEngine) PlayerDefend() (combat.Outcome, float64, error) {
	if f.err != nil {
		return combat.Outcome{}, 0, f.err
	}
	return combat.Outcome{
		Zone:       combat.ZoneModerate,
		Multiplier: 0.5,
		Incoming:   combat.Incoming{Attacker: "a-enemy"},
	}, 5, nil
}

func (f *fakeEngine) SwitchWeapon(name weapon.Name) error {
	f.lastWeapon = name
	return f.err
}

func (f *fakeEngine) CollectShard(c shard.Category) int { return 3 }

func (f *fakeEngine) ActivateShards(c shard.Category, count int) bool {
	f.activated = count > 0
	return f.activated
}

func (f *fakeEngine) UseAltar(id string, count int) (bool, error) {
	f.lastAltar = id
	return false, f.err
}

func newTestRouter(f *fakeEngine) http.Handler {
	return api.NewRouter(api.RouterConfig{
		Engine:          f,
		RateLimitConfig: &api.RateLimitConfig{RequestsPerSecond: 10000, Burst: 10000},
		DisableLogging:  true,
	})
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func TestGetWorld(t *testing.T) {
	rec := do(t, newTestRouter(newFakeEngine()), http.MethodGet, "/api/world", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var snap world.Snapshot
	decodeBody(t, rec, &snap)
	assert.EqualValues(t, 42, snap.Tick)
	assert.Len(t, snap.Entities, 2)
	assert.True(t, snap.Combat.InCombat)
}

func TestGetEntities(t *testing.T) {
	h := newTestRouter(newFakeEngine())

	var all []world.EntitySnapshot
	decodeBody(t, do(t, h, http.MethodGet, "/api/entities", nil), &all)
	assert.Len(t, all, 2)

	var enemies []world.EntitySnapshot
	decodeBody(t, do(t, h, http.MethodGet, "/api/entities?kind=enemy", nil), &enemies)
	require.Len(t, enemies, 1)
	assert.Equal(t, "a-enemy", enemies[0].ID)

	rec := do(t, h, http.MethodGet, "/api/entities/player", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/entities/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetPresets(t *testing.T) {
	rec := do(t, newTestRouter(newFakeEngine()), http.MethodGet, "/api/presets", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Presets map[string]json.RawMessage `json:"presets"`
		Weapons map[string]json.RawMessage `json:"weapons"`
	}
	decodeBody(t, rec, &body)
	assert.Contains(t, body.Presets, "tank")
	assert.Contains(t, body.Weapons, string(weapon.DivineAnchor))
}

func TestEventStatsWithoutJournal(t *testing.T) {
	rec := do(t, newTestRouter(newFakeEngine()), http.MethodGet, "/api/events/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	decodeBody(t, rec, &body)
	assert.Equal(t, false, body["enabled"])
}

func TestSpawnEnemy(t *testing.T) {
	f := newFakeEngine()
	h := newTestRouter(f)

	rec := do(t, h, http.MethodPost, "/api/enemies", map[string]interface{}{
		"preset":   "tank",
		"position": map[string]float64{"x": 100, "y": -50},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "new-enemy", body["id"])
	assert.Equal(t, "tank", f.lastPreset)
	assert.Equal(t, combat.Vec3{X: 100, Y: -50}, f.lastPos)

	rec = do(t, h, http.MethodPost, "/api/enemies", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "preset is required")
}

func TestPlayerCommands(t *testing.T) {
	f := newFakeEngine()
	h := newTestRouter(f)

	rec := do(t, h, http.MethodPost, "/api/player/attack", map[string]string{"target": "a-enemy"})
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, combat.EntityID("a-enemy"), f.lastTarget)

	rec = do(t, h, http.MethodPost, "/api/player/attack", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "target is required")

	rec = do(t, h, http.MethodPost, "/api/player/ability", map[string]string{"slot": "E"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, weapon.SlotE, f.lastSlot)

	rec = do(t, h, http.MethodPost, "/api/player/ability", map[string]string{"slot": "R"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/player/weapon", map[string]string{"weapon": "divine anchor"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, weapon.DivineAnchor, f.lastWeapon)

	rec = do(t, h, http.MethodPost, "/api/player/weapon", map[string]string{"weapon": "spoon"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/player/move", map[string]interface{}{"position": map[string]float64{"x": 10}})
	require.Equal(t, http.StatusOK, rec.Code)
	var move map[string]string
	decodeBody(t, rec, &move)
	assert.Equal(t, "succeeded", move["result"])
}

func TestPlayerDefend(t *testing.T) {
	rec := do(t, newTestRouter(newFakeEngine()), http.MethodPost, "/api/player/defend", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	decodeBody(t, rec, &body)
	assert.Equal(t, "moderate", body["zone"])
	assert.Equal(t, 0.5, body["multiplier"])
	assert.Equal(t, 5.0, body["damage"])
	assert.Equal(t, "a-enemy", body["attacker"])
}

func TestShardCommands(t *testing.T) {
	f := newFakeEngine()
	h := newTestRouter(f)

	rec := do(t, h, http.MethodPost, "/api/player/shards/collect", map[string]string{"category": "soul"})
	require.Equal(t, http.StatusOK, rec.Code)
	var collected map[string]int
	decodeBody(t, rec, &collected)
	assert.Equal(t, 3, collected["inactive"])

	rec = do(t, h, http.MethodPost, "/api/player/shards/collect", map[string]string{"category": "fire"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/player/shards/activate", map[string]interface{}{"category": "power", "count": 2})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/player/shards/activate", map[string]interface{}{"category": "power", "count": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/altars/soul-altar/use", map[string]int{"count": 1})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "soul-altar", f.lastAltar)
}

func TestMalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/enemies", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	newTestRouter(newFakeEngine()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unknown entity", world.ErrUnknownEntity, http.StatusNotFound},
		{"unknown altar", world.ErrUnknownAltar, http.StatusNotFound},
		{"cooldown", combat.ErrOnCooldown, http.StatusConflict},
		{"casting", combat.ErrCasting, http.StatusConflict},
		{"window inactive", combat.ErrWindowInactive, http.StatusConflict},
		{"ability cooldown", weapon.ErrAbilityCooldown, http.StatusConflict},
		{"guardians", shard.ErrGuardiansAlive, http.StatusConflict},
		{"no player", world.ErrNoPlayer, http.StatusConflict},
		{"wrapped no player", errors.Wrap(world.ErrNoPlayer, "attack"), http.StatusConflict},
		{"out of range", combat.ErrOutOfRange, http.StatusBadRequest},
		{"unknown preset", world.ErrUnknownPreset, http.StatusBadRequest},
		{"ability unavailable", weapon.ErrAbilityUnavailable, http.StatusBadRequest},
		{"not enough shards", shard.ErrNotEnoughShards, http.StatusBadRequest},
		{"anything else", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeEngine()
			f.err = tt.err
			h := newTestRouter(f)

			rec := do(t, h, http.MethodPost, "/api/player/defend", nil)
			assert.Equal(t, tt.want, rec.Code)

			var body map[string]string
			decodeBody(t, rec, &body)
			assert.Equal(t, tt.err.Error(), body["error"])
		})
	}
}

func TestRateLimitRejects(t *testing.T) {
	h := api.NewRouter(api.RouterConfig{
		Engine:          newFakeEngine(),
		RateLimitConfig: &api.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2},
		DisableLogging:  true,
	})

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/combat", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/combat", nil).Code)
	rec := do(t, h, http.MethodGet, "/api/combat", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestAgainstRealEngine(t *testing.T) {
	engine := world.New(world.Options{Balance: config.DefaultBalance()})
	require.NoError(t, engine.SpawnEncounter(weapon.OverrideKatana))

	h := api.NewServer(engine, api.ServerOptions{
		RateLimitConfig: &api.RateLimitConfig{RequestsPerSecond: 10000, Burst: 10000},
	}).Router()

	var enemies []world.EntitySnapshot
	decodeBody(t, do(t, h, http.MethodGet, "/api/entities?kind=enemy", nil), &enemies)
	require.Len(t, enemies, 5)

	rec := do(t, h, http.MethodPost, "/api/player/defend", nil)
	assert.Equal(t, http.StatusConflict, rec.Code, "no incoming attack to defend")

	rec = do(t, h, http.MethodPost, "/api/player/attack", map[string]string{"target": "nobody"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/enemies", map[string]interface{}{"preset": "player"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/altars/soul-altar/use", map[string]int{"count": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "altar is out of reach")
}

func TestRecentEvents(t *testing.T) {
	journal := events.NewEventLog(config.EventLogConfig{MaxEventsPerSec: 1000, MaxEventsPerEntity: 1000})
	require.NoError(t, journal.Start(""))
	defer journal.Stop()
	for i := 0; i < 5; i++ {
		journal.Emit(events.NewEvent(events.EventTypeDamageDealt, uint64(i), "e1", events.DamagePayload{Amount: 10}))
	}

	h := api.NewRouter(api.RouterConfig{
		Engine:          newFakeEngine(),
		EventLog:        journal,
		RateLimitConfig: &api.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
		DisableLogging:  true,
	})

	var got []events.Event
	decodeBody(t, do(t, h, http.MethodGet, "/api/events/recent?n=2", nil), &got)
	require.Len(t, got, 2)
	assert.EqualValues(t, 4, got[1].TickNum)
	assert.Equal(t, events.EventTypeDamageDealt, got[1].Type)

	var stats map[string]interface{}
	decodeBody(t, do(t, h, http.MethodGet, "/api/events/stats", nil), &stats)
	assert.EqualValues(t, 5, stats["total"])

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/events/recent?n=x", nil).Code)
}
