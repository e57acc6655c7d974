package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/combat"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/events"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/shard"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/weapon"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/world"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
)

var errInvalidRequest = errors.New("invalid request")

// =============================================================================
// QUERIES
// =============================================================================

func (h *routerHandlers) handleGetWorld(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Snapshot())
}

func (h *routerHandlers) handleGetEntities(w http.ResponseWriter, r *http.Request) {
	s := h.engine.Snapshot()
	if r.URL.Query().Get("kind") == string(combat.KindEnemy) {
		writeJSON(w, http.StatusOK, s.Enemies())
		return
	}
	writeJSON(w, http.StatusOK, s.Entities)
}

func (h *routerHandlers) handleGetEntity(w http.ResponseWriter, r *http.Request) {
	e, ok := h.engine.Snapshot().Entity(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, world.ErrUnknownEntity)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *routerHandlers) handleGetCombat(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Snapshot().Combat)
}

func (h *routerHandlers) handleGetPresets(w http.ResponseWriter, r *http.Request) {
	t := h.engine.Tables()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"presets": t.Presets,
		"weapons": t.Weapons,
	})
}

func (h *routerHandlers) handleGetEventStats(w http.ResponseWriter, r *http.Request) {
	if h.eventLog == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"enabled": false})
		return
	}
	writeJSON(w, http.StatusOK, h.eventLog.GetStats())
}

// handleGetRecentEvents returns the journal tail, ?n= capped at 256.
func (h *routerHandlers) handleGetRecentEvents(w http.ResponseWriter, r *http.Request) {
	if h.eventLog == nil {
		writeJSON(w, http.StatusOK, []events.Event{})
		return
	}
	n := 50
	if q := r.URL.Query().Get("n"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v < 0 {
			writeError(w, errors.Wrapf(errInvalidRequest, "bad n %q", q))
			return
		}
		n = v
	}
	if n > 256 {
		n = 256
	}
	writeJSON(w, http.StatusOK, h.eventLog.Recent(n))
}

// =============================================================================
// COMMANDS
// =============================================================================

func (h *routerHandlers) handleSpawnEnemy(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Preset   string      `json:"preset"`
		Position combat.Vec3 `json:"position"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Preset == "" {
		writeError(w, errors.Wrap(errInvalidRequest, "preset is required"))
		return
	}

	id, err := h.engine.SpawnEnemy(req.Preset, req.Position)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": string(id)})
}

func (h *routerHandlers) handlePlayerMove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Position combat.Vec3 `json:"position"`
	}
	if !decode(w, r, &req) {
		return
	}

	res, err := h.engine.MovePlayer(req.Position)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": res.String()})
}

func (h *routerHandlers) handlePlayerAttack(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Target string `json:"target"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Target == "" {
		writeError(w, combat.ErrNoTarget)
		return
	}

	if err := h.engine.PlayerAttack(combat.EntityID(req.Target)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]bool{"success": true})
}

func (h *routerHandlers) handlePlayerAbility(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Slot   string `json:"slot"`
		Target string `json:"target"`
	}
	if !decode(w, r, &req) {
		return
	}
	slot, err := weapon.ParseSlot(req.Slot)
	if err != nil {
		writeError(w, errors.Wrap(errInvalidRequest, err.Error()))
		return
	}

	if err := h.engine.PlayerAbility(slot, combat.EntityID(req.Target)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *routerHandlers) handlePlayerDefend(w http.ResponseWriter, r *http.Request) {
	out, dealt, err := h.engine.PlayerDefend()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"zone":       out.Zone.String(),
		"multiplier": out.Multiplier,
		"damage":     dealt,
		"attacker":   string(out.Incoming.Attacker),
	})
}

func (h *routerHandlers) handlePlayerWeapon(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Weapon string `json:"weapon"`
	}
	if !decode(w, r, &req) {
		return
	}
	name, err := weapon.ParseName(req.Weapon)
	if err != nil {
		writeError(w, errors.Wrap(errInvalidRequest, err.Error()))
		return
	}

	if err := h.engine.SwitchWeapon(name); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"weapon": string(name)})
}

func (h *routerHandlers) handleCollectShard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category string `json:"category"`
	}
	if !decode(w, r, &req) {
		return
	}
	c, err := shard.ParseCategory(req.Category)
	if err != nil {
		writeError(w, errors.Wrap(errInvalidRequest, err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"inactive": h.engine.CollectShard(c)})
}

func (h *routerHandlers) handleActivateShards(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category string `json:"category"`
		Count    int    `json:"count"`
	}
	if !decode(w, r, &req) {
		return
	}
	c, err := shard.ParseCategory(req.Category)
	if err != nil {
		writeError(w, errors.Wrap(errInvalidRequest, err.Error()))
		return
	}

	if !h.engine.ActivateShards(c, req.Count) {
		writeError(w, errors.Wrapf(errInvalidRequest, "cannot activate %d %s shards", req.Count, c))
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *routerHandlers) handleUseAltar(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Count int `json:"count"`
	}
	if !decode(w, r, &req) {
		return
	}

	done, err := h.engine.UseAltar(chi.URLParam(r, "id"), req.Count)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"completed": done})
}

// =============================================================================
// HELPERS
// =============================================================================

// decode reads a JSON body. An empty body leaves v at its zero value.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, errors.Wrap(errInvalidRequest, err.Error()))
		return false
	}
	return true
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, world.ErrUnknownEntity),
		errors.Is(err, world.ErrUnknownAltar):
		return http.StatusNotFound

	case errors.Is(err, combat.ErrOnCooldown),
		errors.Is(err, combat.ErrCasting),
		errors.Is(err, combat.ErrWindowActive),
		errors.Is(err, combat.ErrWindowInactive),
		errors.Is(err, weapon.ErrAbilityCooldown),
		errors.Is(err, shard.ErrAltarBusy),
		errors.Is(err, shard.ErrGuardiansAlive),
		errors.Is(err, world.ErrNoPlayer):
		return http.StatusConflict

	case errors.Is(err, errInvalidRequest),
		errors.Is(err, world.ErrUnknownPreset),
		errors.Is(err, world.ErrUnknownWeapon),
		errors.Is(err, combat.ErrNoTarget),
		errors.Is(err, combat.ErrOutOfRange),
		errors.Is(err, weapon.ErrAbilityUnavailable),
		errors.Is(err, shard.ErrNotEnoughShards):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}
