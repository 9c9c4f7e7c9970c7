// Package amphibian provides the simpleanimal.Kind descriptor for
// amphibians: predators that eat insects, mate in open water, and walk with
// a richer candidate set of turns and multi-step hops per spec.md §4.6/§6.
package amphibian

import (
	"time"

	"github.com/sitegui/nature-pixel/internal/config"
	"github.com/sitegui/nature-pixel/internal/geom"
	"github.com/sitegui/nature-pixel/internal/gridmodel"
	"github.com/sitegui/nature-pixel/internal/simpleanimal"
)

// Kind is the amphibian species descriptor.
type Kind struct {
	tuning simpleanimal.Tuning
}

// New builds an amphibian Kind from the amphibian agent config block.
func New(cfg config.AgentConfig) Kind {
	return Kind{tuning: simpleanimal.Tuning{
		Tick:              time.Duration(cfg.TickSeconds) * time.Second,
		EatingRadius:      cfg.EatingRadius,
		MatingRadius:      cfg.MatingRadius,
		DestinationRadius: cfg.DestinationRadius,
		StarvationDelay:   time.Duration(cfg.StarvationDelaySeconds) * time.Second,
	}}
}

// AnimalKind identifies amphibians.
func (Kind) AnimalKind() gridmodel.AnimalKind { return gridmodel.AnimalAmphibian }

// WalkCandidates returns turn-right, turn-left, one step forward, and two
// steps forward, each with the resulting facing.
func (Kind) WalkCandidates(pos geom.Point, facing geom.Direction) []simpleanimal.Candidate {
	right := facing.TurnRight()
	left := facing.TurnLeft()
	oneStep := pos.Step(facing)
	twoStep := oneStep.Step(facing)
	return []simpleanimal.Candidate{
		{Target: pos.Step(right), Facing: right},
		{Target: pos.Step(left), Facing: left},
		{Target: oneStep, Facing: facing},
		{Target: twoStep, Facing: facing},
	}
}

// IsFoodGoal reports whether the cell holds a live insect.
func (Kind) IsFoodGoal(c gridmodel.Cell) bool {
	return c.Animal.Kind == gridmodel.AnimalInsect
}

// IsMatingGroundGoal reports whether the cell carries any water.
func (Kind) IsMatingGroundGoal(c gridmodel.Cell) bool { return c.Water != gridmodel.WaterEmpty }

// Build returns a freshly hatched amphibian in SearchFood.
func (Kind) Build(now time.Time) gridmodel.Animal {
	return gridmodel.Animal{
		Kind: gridmodel.AnimalAmphibian,
		SimpleBody: gridmodel.SimpleAnimalState{
			Phase:           gridmodel.SearchFood,
			LastFeedingTime: now.UnixNano(),
		},
	}
}

// Tuning returns the amphibian dials.
func (k Kind) Tuning() simpleanimal.Tuning { return k.tuning }
