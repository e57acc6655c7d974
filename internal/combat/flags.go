package combat

import (
	"strings"

	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/events"
)

// Tag is a persistent entity trait. Tags combine as bit flags.
type Tag uint8

const (
	TagShielded Tag = 1 << iota
	TagArmored
	TagGhost
	TagMechanical
	TagHasSoul
)

var tagNames = []struct {
	tag  Tag
	name string
}{
	{TagShielded, "shielded"},
	{TagArmored, "armored"},
	{TagGhost, "ghost"},
	{TagMechanical, "mechanical"},
	{TagHasSoul, "has_soul"},
}

// Has reports whether every bit of t is set.
func (s Tag) Has(t Tag) bool { return t != 0 && s&t == t }

// Names lists the set tags in declaration order.
func (s Tag) Names() []string {
	names := make([]string, 0, len(tagNames))
	for _, tn := range tagNames {
		if s&tn.tag != 0 {
			names = append(names, tn.name)
		}
	}
	return names
}

func (s Tag) String() string { return strings.Join(s.Names(), "|") }

// ParseTag maps a tag name (as used in stat tables) to its flag.
func ParseTag(name string) (Tag, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "-", "_")
	if n == "hassoul" || n == "have_soul" {
		n = "has_soul"
	}
	for _, tn := range tagNames {
		if tn.name == n {
			return tn.tag, true
		}
	}
	return 0, false
}

// Status is a transient entity condition. Statuses combine as bit flags.
type Status uint8

const (
	StatusVulnerable Status = 1 << iota
	StatusCombat
	StatusNonCombat
	StatusMarked
)

var statusNames = []struct {
	status Status
	name   string
}{
	{StatusVulnerable, "vulnerable"},
	{StatusCombat, "combat"},
	{StatusNonCombat, "non_combat"},
	{StatusMarked, "marked"},
}

// Has reports whether every bit of st is set.
func (s Status) Has(st Status) bool { return st != 0 && s&st == st }

// Names lists the set statuses in declaration order.
func (s Status) Names() []string {
	names := make([]string, 0, len(statusNames))
	for _, sn := range statusNames {
		if s&sn.status != 0 {
			names = append(names, sn.name)
		}
	}
	return names
}

func (s Status) String() string { return strings.Join(s.Names(), "|") }

// TagState owns an entity's tags. Tags are set at setup and change at
// runtime only through counter-attacks.
type TagState struct {
	owner EntityID
	bus   *events.Bus
	tags  Tag
}

// NewTagState creates a tag set with the configured initial tags.
func NewTagState(owner EntityID, initial Tag, bus *events.Bus) *TagState {
	return &TagState{owner: owner, bus: bus, tags: initial}
}

// Add sets t. Returns false when nothing changed.
func (s *TagState) Add(t Tag) bool {
	if s.tags|t == s.tags {
		return false
	}
	s.tags |= t
	s.publish(t, true)
	return true
}

// Remove clears t. Returns false when nothing changed.
func (s *TagState) Remove(t Tag) bool {
	if s.tags&t == 0 {
		return false
	}
	s.tags &^= t
	s.publish(t, false)
	return true
}

// Has reports whether every bit of t is set.
func (s *TagState) Has(t Tag) bool { return s.tags.Has(t) }

// Tags returns the current set.
func (s *TagState) Tags() Tag { return s.tags }

func (s *TagState) publish(changed Tag, added bool) {
	s.bus.Emit(events.EventTypeTagsChanged, string(s.owner), events.FlagsPayload{
		Flags:   uint8(s.tags),
		Names:   s.tags.Names(),
		Changed: changed.String(),
		Added:   added,
	})
}

// StatusState owns an entity's statuses and the two status countdowns.
// Combat and NonCombat are mutually exclusive; use EnterCombat and LeaveCombat
// to switch between them.
type StatusState struct {
	owner           EntityID
	bus             *events.Bus
	flags           Status
	markedTimer     float64
	vulnerableTimer float64
}

// NewStatusState creates a status set. New entities start out of combat.
func NewStatusState(owner EntityID, bus *events.Bus) *StatusState {
	return &StatusState{owner: owner, bus: bus, flags: StatusNonCombat}
}

// Add sets st. Returns false when nothing changed.
func (s *StatusState) Add(st Status) bool {
	if s.flags|st == s.flags {
		return false
	}
	s.flags |= st
	s.publish(st, true)
	return true
}

// Remove clears st. Returns false when nothing changed.
func (s *StatusState) Remove(st Status) bool {
	if s.flags&st == 0 {
		return false
	}
	s.flags &^= st
	if st&StatusMarked != 0 {
		s.markedTimer = 0
	}
	if st&StatusVulnerable != 0 {
		s.vulnerableTimer = 0
	}
	s.publish(st, false)
	return true
}

// Has reports whether every bit of st is set.
func (s *StatusState) Has(st Status) bool { return s.flags.Has(st) }

// Flags returns the current set.
func (s *StatusState) Flags() Status { return s.flags }

// EnterCombat clears NonCombat, then sets Combat.
func (s *StatusState) EnterCombat() {
	s.Remove(StatusNonCombat)
	s.Add(StatusCombat)
}

// LeaveCombat clears Combat, then sets NonCombat.
func (s *StatusState) LeaveCombat() {
	s.Remove(StatusCombat)
	s.Add(StatusNonCombat)
}

// SetMarked sets Marked and restarts its countdown. Durations do not stack.
// A non-positive duration clears the mark.
func (s *StatusState) SetMarked(duration float64) {
	if duration <= 0 {
		s.Remove(StatusMarked)
		return
	}
	s.Add(StatusMarked)
	s.markedTimer = duration
}

// SetVulnerable sets Vulnerable and restarts its countdown.
// A non-positive duration clears the status.
func (s *StatusState) SetVulnerable(duration float64) {
	if duration <= 0 {
		s.Remove(StatusVulnerable)
		return
	}
	s.Add(StatusVulnerable)
	s.vulnerableTimer = duration
}

// MarkedRemaining returns the seconds left on the mark.
func (s *StatusState) MarkedRemaining() float64 { return s.markedTimer }

// VulnerableRemaining returns the seconds left on vulnerability.
func (s *StatusState) VulnerableRemaining() float64 { return s.vulnerableTimer }

// Tick advances the running countdowns and clears statuses whose time ran out.
// Statuses added without a duration have no countdown and persist until removed.
func (s *StatusState) Tick(dt float64) {
	if s.markedTimer > 0 {
		s.markedTimer -= dt
		if s.markedTimer <= 0 {
			s.markedTimer = 0
			s.Remove(StatusMarked)
		}
	}
	if s.vulnerableTimer > 0 {
		s.vulnerableTimer -= dt
		if s.vulnerableTimer <= 0 {
			s.vulnerableTimer = 0
			s.Remove(StatusVulnerable)
		}
	}
}

func (s *StatusState) publish(changed Status, added bool) {
	s.bus.Emit(events.EventTypeStatusChanged, string(s.owner), events.FlagsPayload{
		Flags:   uint8(s.flags),
		Names:   s.flags.Names(),
		Changed: changed.String(),
		Added:   added,
	})
}
