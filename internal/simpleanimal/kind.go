// Package simpleanimal implements the shared food -> mating-ground ->
// partner state machine of spec.md §4.6, generalized over insects and
// amphibians through the Kind interface (the Go realization of the
// capability descriptor _examples/original_source/src/ecosystem/simple_animal.rs
// calls SimpleAnimalKind, matching the teacher's own preference for
// interface-based polymorphism over generics).
package simpleanimal

import (
	"time"

	"github.com/sitegui/nature-pixel/internal/geom"
	"github.com/sitegui/nature-pixel/internal/gridmodel"
)

// Candidate is one alternative walking step: a target cell and the facing
// the animal would have after taking it.
type Candidate struct {
	Target geom.Point
	Facing geom.Direction
}

// Tuning holds the per-kind dials of spec.md §4.6/§6.
type Tuning struct {
	Tick              time.Duration
	EatingRadius      int
	MatingRadius      int
	DestinationRadius int
	StarvationDelay   time.Duration
}

// Kind is the species descriptor the engine is generic over.
type Kind interface {
	// AnimalKind identifies which cell animal kind this descriptor governs.
	AnimalKind() gridmodel.AnimalKind
	// WalkCandidates returns ordered alternative moves for an animal
	// facing the given direction at the given position.
	WalkCandidates(pos geom.Point, facing geom.Direction) []Candidate
	// IsFoodGoal reports whether a cell satisfies this kind's food goal.
	IsFoodGoal(c gridmodel.Cell) bool
	// IsMatingGroundGoal reports whether a cell satisfies this kind's
	// mating-ground goal.
	IsMatingGroundGoal(c gridmodel.Cell) bool
	// Build returns a freshly created animal of this kind in SearchFood,
	// with last_feeding_time set to now.
	Build(now time.Time) gridmodel.Animal
	// Tuning returns this kind's dials.
	Tuning() Tuning
}
