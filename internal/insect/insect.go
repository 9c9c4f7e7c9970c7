// Package insect provides the simpleanimal.Kind descriptor for insects:
// scavengers that eat dead matter, mate on any grass, and walk by turning in
// place one step at a time per spec.md §4.6/§6.
package insect

import (
	"time"

	"github.com/sitegui/nature-pixel/internal/config"
	"github.com/sitegui/nature-pixel/internal/geom"
	"github.com/sitegui/nature-pixel/internal/gridmodel"
	"github.com/sitegui/nature-pixel/internal/simpleanimal"
)

// Kind is the insect species descriptor.
type Kind struct {
	tuning simpleanimal.Tuning
}

// New builds an insect Kind from the insect agent config block.
func New(cfg config.AgentConfig) Kind {
	return Kind{tuning: simpleanimal.Tuning{
		Tick:              time.Duration(cfg.TickSeconds) * time.Second,
		EatingRadius:      cfg.EatingRadius,
		MatingRadius:      cfg.MatingRadius,
		DestinationRadius: cfg.DestinationRadius,
		StarvationDelay:   time.Duration(cfg.StarvationDelaySeconds) * time.Second,
	}}
}

// AnimalKind identifies insects.
func (Kind) AnimalKind() gridmodel.AnimalKind { return gridmodel.AnimalInsect }

// WalkCandidates returns the two single-step turns an insect may take: turn
// right then step, or turn left then step.
func (Kind) WalkCandidates(pos geom.Point, facing geom.Direction) []simpleanimal.Candidate {
	right := facing.TurnRight()
	left := facing.TurnLeft()
	return []simpleanimal.Candidate{
		{Target: pos.Step(right), Facing: right},
		{Target: pos.Step(left), Facing: left},
	}
}

// IsFoodGoal reports whether the cell holds dead matter.
func (Kind) IsFoodGoal(c gridmodel.Cell) bool { return c.Animal.IsDead() }

// IsMatingGroundGoal reports whether the cell carries any grass.
func (Kind) IsMatingGroundGoal(c gridmodel.Cell) bool { return !c.Grass.IsEmpty() }

// Build returns a freshly hatched insect in SearchFood.
func (Kind) Build(now time.Time) gridmodel.Animal {
	return gridmodel.Animal{
		Kind: gridmodel.AnimalInsect,
		SimpleBody: gridmodel.SimpleAnimalState{
			Phase:           gridmodel.SearchFood,
			LastFeedingTime: now.UnixNano(),
		},
	}
}

// Tuning returns the insect dials.
func (k Kind) Tuning() simpleanimal.Tuning { return k.tuning }
