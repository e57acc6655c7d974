package shard

import (
	"context"
	"errors"
	"math"

	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/combat"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/events"

	"github.com/looplab/fsm"
)

var (
	ErrAltarBusy       = errors.New("shard: altar already activating")
	ErrNotEnoughShards = errors.New("shard: not enough inactive shards")
	ErrGuardiansAlive  = errors.New("shard: altar guardians still alive")
)

// Puzzle is what the player must do to finish an activation.
type Puzzle uint8

const (
	PuzzleNone           Puzzle = iota // Completes on start
	PuzzleHoldToActivate               // Completes after HoldDuration of ticks
)

const (
	altarIdle       = "idle"
	altarActivating = "activating"
)

// AltarConfig describes one altar.
type AltarConfig struct {
	Category         Category
	Puzzle           Puzzle
	MinShards        int
	MaxPerActivation int
	HoldDuration     float64
}

// DefaultAltar is a hold-to-activate altar of category c.
func DefaultAltar(c Category) AltarConfig {
	return AltarConfig{
		Category:         c,
		Puzzle:           PuzzleHoldToActivate,
		MinShards:        1,
		MaxPerActivation: 5,
		HoldDuration:     2,
	}
}

// Altar turns inactive shards of one category into active ones.
type Altar struct {
	ID       string
	Position combat.Vec3
	cfg      AltarConfig
	bus      *events.Bus

	// GuardiansDefeated gates activation; nil means the altar is unguarded.
	GuardiansDefeated func() bool

	machine     *fsm.FSM
	interactor  *Progression
	pending     int
	holdElapsed float64
}

// NewAltar creates an idle altar.
func NewAltar(id string, pos combat.Vec3, cfg AltarConfig, bus *events.Bus) *Altar {
	if cfg.MinShards < 1 {
		cfg.MinShards = 1
	}
	return &Altar{
		ID:       id,
		Position: pos,
		cfg:      cfg,
		bus:      bus,
		machine: fsm.NewFSM(
			altarIdle,
			fsm.Events{
				{Name: "start", Src: []string{altarIdle}, Dst: altarActivating},
				{Name: "finish", Src: []string{altarActivating}, Dst: altarIdle},
			},
			fsm.Callbacks{},
		),
	}
}

// Config returns the altar's configuration.
func (a *Altar) Config() AltarConfig { return a.cfg }

// CanActivate reports whether p may start an activation now.
func (a *Altar) CanActivate(p *Progression) error {
	if p == nil {
		return ErrNotEnoughShards
	}
	if a.GuardiansDefeated != nil && !a.GuardiansDefeated() {
		return ErrGuardiansAlive
	}
	if p.Counts(a.cfg.Category).Inactive < a.cfg.MinShards {
		return ErrNotEnoughShards
	}
	return nil
}

// Start begins an activation of up to requested shards. The amount is clamped
// to [MinShards, min(available, MaxPerActivation)]. Altars without a puzzle
// complete immediately and report true.
func (a *Altar) Start(p *Progression, requested int) (bool, error) {
	if a.machine.Is(altarActivating) {
		return false, ErrAltarBusy
	}
	if err := a.CanActivate(p); err != nil {
		return false, err
	}

	available := p.Counts(a.cfg.Category).Inactive
	hi := available
	if a.cfg.MaxPerActivation > 0 && a.cfg.MaxPerActivation < hi {
		hi = a.cfg.MaxPerActivation
	}
	if requested > hi {
		requested = hi
	}
	if requested < a.cfg.MinShards {
		requested = a.cfg.MinShards
	}

	if err := a.machine.Event(context.Background(), "start"); err != nil {
		return false, err
	}
	a.interactor = p
	a.pending = requested
	a.holdElapsed = 0

	if a.cfg.Puzzle == PuzzleNone {
		return a.complete(), nil
	}
	return false, nil
}

// Tick advances a hold activation. Returns true on the tick it completes.
func (a *Altar) Tick(dt float64) bool {
	if !a.machine.Is(altarActivating) || a.cfg.Puzzle != PuzzleHoldToActivate {
		return false
	}
	a.holdElapsed += dt
	if a.holdElapsed < a.cfg.HoldDuration {
		return false
	}
	return a.complete()
}

// Cancel abandons the activation without spending shards.
func (a *Altar) Cancel() {
	if a.machine.Is(altarActivating) {
		_ = a.machine.Event(context.Background(), "finish")
	}
	a.reset()
}

// Activating reports whether an activation is in progress.
func (a *Altar) Activating() bool { return a.machine.Is(altarActivating) }

// Progress is the hold fill in [0, 1]; 0 when idle or without a puzzle.
func (a *Altar) Progress() float64 {
	if !a.Activating() || a.cfg.Puzzle != PuzzleHoldToActivate || a.cfg.HoldDuration <= 0 {
		return 0
	}
	return math.Min(1, math.Max(0, a.holdElapsed/a.cfg.HoldDuration))
}

func (a *Altar) complete() bool {
	p, n := a.interactor, a.pending
	_ = a.machine.Event(context.Background(), "finish")
	a.reset()

	if !p.Activate(a.cfg.Category, n) {
		return false
	}
	a.bus.Emit(events.EventTypeAltarActivated, string(p.owner), events.AltarPayload{
		AltarID:  a.ID,
		Category: a.cfg.Category.String(),
		Count:    n,
	})
	return true
}

func (a *Altar) reset() {
	a.interactor = nil
	a.pending = 0
	a.holdElapsed = 0
}
