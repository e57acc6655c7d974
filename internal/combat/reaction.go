package combat

import (
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/config"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/events"
)

// Incoming is a strike held back while its target gets a chance to react.
type Incoming struct {
	Damage    DamageDescriptor
	Attacker  EntityID
	Direction Vec3 // Attacker toward target
}

// Outcome is how a reaction window closed.
type Outcome struct {
	Zone       Zone
	Multiplier float64
	Incoming   Incoming
	Damage     DamageDescriptor // Incoming damage scaled by Multiplier
}

// Reaction is the defensive window (dodge or order) opened by an incoming attack.
// Triggering in the moderate zone halves the damage, in the perfect zone cancels it
// and runs the perfect effect; letting it expire takes the full hit.
type Reaction struct {
	owner     EntityID
	bus       *events.Bus
	profile   WindowProfile
	moderate  float64
	window    *TimingWindow
	pending   Incoming
	onPerfect func(Incoming)
}

// NewReaction creates an idle reaction using the defense profile from cfg.
func NewReaction(owner EntityID, cfg config.WindowConfig, bus *events.Bus) *Reaction {
	return &Reaction{
		owner:    owner,
		bus:      bus,
		profile:  DefenseProfile(cfg),
		moderate: cfg.ModerateDamageMultiplier,
		window:   NewTimingWindow(),
	}
}

// SetPerfectEffect installs the weapon's perfect-zone effect. nil clears it.
func (r *Reaction) SetPerfectEffect(fn func(Incoming)) { r.onPerfect = fn }

// Open starts the window for in. Only one incoming attack is held at a time.
func (r *Reaction) Open(in Incoming) error {
	if r.window.Active() {
		return ErrWindowActive
	}
	r.window.Reset()
	if err := r.window.Start(r.profile); err != nil {
		return err
	}
	r.pending = in

	r.bus.Emit(events.EventTypeWindowOpened, string(r.owner), events.WindowPayload{
		Kind:     "defense",
		Duration: r.profile.Duration,
		OtherID:  string(in.Attacker),
	})
	return nil
}

// Trigger resolves the window at the current elapsed time.
func (r *Reaction) Trigger() (Outcome, error) {
	elapsed := r.window.Elapsed()
	zone, err := r.window.Resolve()
	if err != nil {
		return Outcome{}, err
	}

	mult := 1.0
	switch zone {
	case ZoneModerate:
		mult = r.moderate
	case ZonePerfect:
		mult = 0
	}

	out := r.finish(zone, mult, elapsed)
	if zone == ZonePerfect && r.onPerfect != nil {
		r.onPerfect(out.Incoming)
	}
	return out, nil
}

// Tick advances the window. On expiry it returns the full-damage outcome.
func (r *Reaction) Tick(dt float64) (Outcome, bool) {
	if !r.window.Tick(dt) {
		return Outcome{}, false
	}
	return r.finish(ZoneExpired, 1, r.window.Elapsed()), true
}

func (r *Reaction) finish(zone Zone, mult, elapsed float64) Outcome {
	in := r.pending
	r.pending = Incoming{}
	r.window.Reset()

	r.bus.Emit(events.EventTypeWindowResolved, string(r.owner), events.WindowPayload{
		Kind:       "defense",
		Zone:       zone.String(),
		Elapsed:    elapsed,
		Duration:   r.profile.Duration,
		Multiplier: mult,
		OtherID:    string(in.Attacker),
	})

	return Outcome{
		Zone:       zone,
		Multiplier: mult,
		Incoming:   in,
		Damage:     in.Damage.Scaled(mult),
	}
}

// Active reports whether an incoming attack is pending.
func (r *Reaction) Active() bool { return r.window.Active() }

// Zone classifies the current elapsed time.
func (r *Reaction) Zone() Zone { return r.window.Classify() }

// Remaining returns the seconds until the pending attack lands.
func (r *Reaction) Remaining() float64 { return r.window.Remaining() }

// Progress returns the window fill in [0, 1].
func (r *Reaction) Progress() float64 {
	if !r.window.Active() {
		return 0
	}
	return r.window.Progress()
}

// Attacker returns who the pending attack came from.
func (r *Reaction) Attacker() EntityID { return r.pending.Attacker }
