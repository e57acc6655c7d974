package combat

import "github.com/google/uuid"

// EntityID identifies a combat entity for the lifetime of a world.
type EntityID string

// NewEntityID returns a fresh random identifier.
func NewEntityID() EntityID {
	return EntityID(uuid.NewString())
}

func (id EntityID) String() string { return string(id) }
