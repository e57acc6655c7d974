package combat

import (
	"context"
	"errors"
	"math"

	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/config"

	"github.com/looplab/fsm"
)

var (
	ErrWindowActive   = errors.New("combat: timing window already active")
	ErrWindowInactive = errors.New("combat: no active timing window")
	ErrInvalidProfile = errors.New("combat: invalid window profile")
)

// Zone is where a window's elapsed time falls when it is classified.
type Zone uint8

const (
	ZoneNone     Zone = iota // Window not active
	ZoneEarly                // Cast telegraph
	ZoneModerate             // Defense opened too soon: reduced damage
	ZonePerfect
	ZoneExpired
)

func (z Zone) String() string {
	switch z {
	case ZoneEarly:
		return "early"
	case ZoneModerate:
		return "moderate"
	case ZonePerfect:
		return "perfect"
	case ZoneExpired:
		return "expired"
	default:
		return "none"
	}
}

// Window lifecycle states
const (
	WindowIdle     = "idle"
	WindowActive   = "active"
	WindowResolved = "resolved"
	WindowExpired  = "expired"
)

// Window lifecycle events
const (
	windowStart   = "start"
	windowResolve = "resolve"
	windowExpire  = "expire"
	windowReset   = "reset"
	windowCancel  = "cancel"
)

// WindowProfile parameterizes a TimingWindow. The window is split at Boundary:
// elapsed <= Boundary classifies as EarlyZone, the rest of the window as LateZone.
type WindowProfile struct {
	Duration  float64
	Boundary  float64
	EarlyZone Zone
	LateZone  Zone
}

// Validate checks 0 <= Boundary <= Duration and Duration > 0.
func (p WindowProfile) Validate() error {
	if p.Duration <= 0 || p.Boundary < 0 || p.Boundary > p.Duration ||
		math.IsNaN(p.Duration) || math.IsNaN(p.Boundary) {
		return ErrInvalidProfile
	}
	if p.EarlyZone == ZoneNone || p.LateZone == ZoneNone {
		return ErrInvalidProfile
	}
	return nil
}

// CastProfile is the attack cast bar: a telegraph followed by the strike zone.
func CastProfile(cfg config.WindowConfig) WindowProfile {
	return WindowProfile{
		Duration:  cfg.CastDuration,
		Boundary:  cfg.CastTelegraph,
		EarlyZone: ZoneEarly,
		LateZone:  ZonePerfect,
	}
}

// DefenseProfile is the dodge/order window: triggering early only halves damage.
func DefenseProfile(cfg config.WindowConfig) WindowProfile {
	return WindowProfile{
		Duration:  cfg.DefenseDuration,
		Boundary:  cfg.DefenseModerateBoundary,
		EarlyZone: ZoneModerate,
		LateZone:  ZonePerfect,
	}
}

// TimingWindow is a countdown classified into zones.
// Lifecycle: idle -> active -> resolved | expired, and back to idle on Reset.
// A start while active is rejected; the running window is left untouched.
type TimingWindow struct {
	machine  *fsm.FSM
	profile  WindowProfile
	elapsed  float64
	resolved Zone
}

// NewTimingWindow creates an idle window.
func NewTimingWindow() *TimingWindow {
	return &TimingWindow{
		machine: fsm.NewFSM(
			WindowIdle,
			fsm.Events{
				{Name: windowStart, Src: []string{WindowIdle, WindowResolved, WindowExpired}, Dst: WindowActive},
				{Name: windowResolve, Src: []string{WindowActive}, Dst: WindowResolved},
				{Name: windowExpire, Src: []string{WindowActive}, Dst: WindowExpired},
				{Name: windowCancel, Src: []string{WindowActive}, Dst: WindowIdle},
				{Name: windowReset, Src: []string{WindowResolved, WindowExpired}, Dst: WindowIdle},
			},
			fsm.Callbacks{},
		),
	}
}

// Start opens the window with profile p.
func (w *TimingWindow) Start(p WindowProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if w.machine.Is(WindowActive) {
		return ErrWindowActive
	}
	if err := w.machine.Event(context.Background(), windowStart); err != nil {
		return err
	}
	w.profile = p
	w.elapsed = 0
	w.resolved = ZoneNone
	return nil
}

// Tick advances the window. Returns true on the tick it expires.
func (w *TimingWindow) Tick(dt float64) bool {
	if !w.machine.Is(WindowActive) || dt <= 0 {
		return false
	}
	w.elapsed += dt
	if w.elapsed+timerEpsilon < w.profile.Duration {
		return false
	}
	w.resolved = ZoneExpired
	_ = w.machine.Event(context.Background(), windowExpire)
	return true
}

// Classify reports the zone for the current elapsed time without resolving.
func (w *TimingWindow) Classify() Zone {
	switch w.machine.Current() {
	case WindowActive:
		return w.classifyAt(w.elapsed)
	case WindowResolved, WindowExpired:
		return w.resolved
	default:
		return ZoneNone
	}
}

func (w *TimingWindow) classifyAt(elapsed float64) Zone {
	if elapsed <= w.profile.Boundary+timerEpsilon {
		return w.profile.EarlyZone
	}
	if elapsed <= w.profile.Duration+timerEpsilon {
		return w.profile.LateZone
	}
	return ZoneExpired
}

// Resolve closes an active window and returns the zone it closed in.
func (w *TimingWindow) Resolve() (Zone, error) {
	if !w.machine.Is(WindowActive) {
		return ZoneNone, ErrWindowInactive
	}
	zone := w.classifyAt(w.elapsed)
	if err := w.machine.Event(context.Background(), windowResolve); err != nil {
		return ZoneNone, err
	}
	w.resolved = zone
	return zone, nil
}

// Cancel drops an active window without resolving it.
func (w *TimingWindow) Cancel() {
	if w.machine.Can(windowCancel) {
		_ = w.machine.Event(context.Background(), windowCancel)
	}
	w.elapsed = 0
	w.resolved = ZoneNone
}

// Reset returns a finished window to idle.
func (w *TimingWindow) Reset() {
	if w.machine.Can(windowReset) {
		_ = w.machine.Event(context.Background(), windowReset)
	}
	w.elapsed = 0
	w.resolved = ZoneNone
}

// State returns the lifecycle state name.
func (w *TimingWindow) State() string { return w.machine.Current() }

// Active reports whether the window is counting.
func (w *TimingWindow) Active() bool { return w.machine.Is(WindowActive) }

// Elapsed returns the seconds since Start.
func (w *TimingWindow) Elapsed() float64 { return w.elapsed }

// Profile returns the profile of the last Start.
func (w *TimingWindow) Profile() WindowProfile { return w.profile }

// Remaining returns the seconds until expiry, or 0 when inactive.
func (w *TimingWindow) Remaining() float64 {
	if !w.Active() {
		return 0
	}
	return math.Max(0, w.profile.Duration-w.elapsed)
}

// Progress returns elapsed/duration in [0, 1].
func (w *TimingWindow) Progress() float64 {
	if w.profile.Duration <= 0 {
		return 0
	}
	return math.Min(1, math.Max(0, w.elapsed/w.profile.Duration))
}
