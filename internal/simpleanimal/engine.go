package simpleanimal

import (
	"math/rand"
	"time"

	channerics "github.com/niceyeti/channerics/channels"
	"github.com/sitegui/nature-pixel/internal/geom"
	"github.com/sitegui/nature-pixel/internal/gridmodel"
	"github.com/sitegui/nature-pixel/internal/world"
)

// ChangeKind identifies which effect a pending Change applies.
type ChangeKind int

const (
	ChangeStarveDie ChangeKind = iota
	ChangeStarveReset
	ChangeEat
	ChangeAdvanceToSearchPartner
	ChangeFallbackToSearchMatingGround
	ChangeMate
	ChangeMoveTo
	ChangeSetDestination
)

// Change is one pending mutation computed during the plan phase, re-checked
// against the live grid before it is applied.
type Change struct {
	Kind          ChangeKind
	At            geom.Point
	ExpectedPhase gridmodel.SimpleAnimalPhase

	FoodTarget  geom.Point
	Partner     geom.Point
	Newborn     geom.Point
	MoveTarget  geom.Point
	NewFacing   geom.Direction
	Destination geom.Point
}

// Engine runs the shared state machine for one Kind.
type Engine struct {
	kind Kind
	rng  *rand.Rand
}

// NewEngine builds an engine for kind.
func NewEngine(kind Kind, rng *rand.Rand) *Engine {
	return &Engine{kind: kind, rng: rng}
}

// Tick runs one full plan-then-commit cycle.
func (e *Engine) Tick(w *world.World, caller string, now time.Time) {
	changes := e.plan(w, caller, now)
	if len(changes) == 0 {
		return
	}
	w.Commit(caller, func(g *gridmodel.Grid) bool {
		changed := false
		for _, ch := range changes {
			if e.apply(g, ch, now) {
				changed = true
			}
		}
		return changed
	})
}

func (e *Engine) plan(w *world.World, caller string, now time.Time) []Change {
	return world.Plan(w, caller, func(g *gridmodel.Grid) []Change {
		tuning := e.kind.Tuning()
		var changes []Change

		g.ForEach(func(p geom.Point, c gridmodel.Cell) bool {
			if c.Animal.Kind != e.kind.AnimalKind() {
				return true
			}
			body := c.Animal.SimpleBody

			// 1. Starvation.
			if now.UnixNano()-body.LastFeedingTime > int64(tuning.StarvationDelay) {
				if body.Phase == gridmodel.SearchFood {
					changes = append(changes, Change{Kind: ChangeStarveDie, At: p, ExpectedPhase: body.Phase})
				} else {
					changes = append(changes, Change{Kind: ChangeStarveReset, At: p, ExpectedPhase: body.Phase})
				}
				return true
			}

			// 2. Goal reached.
			switch body.Phase {
			case gridmodel.SearchFood:
				for _, t := range g.Circle(p, tuning.EatingRadius) {
					tc, _ := g.At(t)
					if e.kind.IsFoodGoal(tc) {
						changes = append(changes, Change{Kind: ChangeEat, At: p, ExpectedPhase: body.Phase, FoodTarget: t})
						return true
					}
				}
			case gridmodel.SearchMatingGround:
				for _, t := range g.Surroundings(p) {
					tc, _ := g.At(t)
					if e.kind.IsMatingGroundGoal(tc) {
						changes = append(changes, Change{Kind: ChangeAdvanceToSearchPartner, At: p, ExpectedPhase: body.Phase})
						return true
					}
				}
			case gridmodel.SearchPartner:
				partner, foundPartner := geom.Point{}, false
				for _, t := range g.Circle(p, tuning.MatingRadius) {
					if t == p {
						continue
					}
					tc, _ := g.At(t)
					if tc.Animal.Kind == e.kind.AnimalKind() && tc.Animal.SimpleBody.Phase == gridmodel.SearchPartner {
						partner, foundPartner = t, true
						break
					}
				}
				if foundPartner {
					var emptyCells []geom.Point
					for _, t := range g.Circle(p, tuning.MatingRadius) {
						tc, _ := g.At(t)
						if tc.Animal.IsEmpty() {
							emptyCells = append(emptyCells, t)
						}
					}
					if len(emptyCells) > 0 {
						newborn := emptyCells[e.rng.Intn(len(emptyCells))]
						changes = append(changes, Change{
							Kind: ChangeMate, At: p, ExpectedPhase: body.Phase,
							Partner: partner, Newborn: newborn,
						})
						return true
					}
				}
			}

			// 3. Walk toward an already-set destination.
			if body.HasDestination && body.Destination != p {
				candidates := e.kind.WalkCandidates(p, body.Facing)
				var valid []Candidate
				for _, cand := range candidates {
					tc, ok := g.At(cand.Target)
					if ok && tc.Animal.IsEmpty() {
						valid = append(valid, cand)
					}
				}
				if len(valid) > 0 {
					best := closestTo(valid, body.Destination)
					chosen := best[e.rng.Intn(len(best))]
					changes = append(changes, Change{
						Kind: ChangeMoveTo, At: p, ExpectedPhase: body.Phase,
						MoveTarget: chosen.Target, NewFacing: chosen.Facing,
					})
					return true
				}
			}

			// 4. Retarget.
			switch body.Phase {
			case gridmodel.SearchFood, gridmodel.SearchMatingGround:
				goalFn := e.kind.IsFoodGoal
				if body.Phase == gridmodel.SearchMatingGround {
					goalFn = e.kind.IsMatingGroundGoal
				}
				dest, ok := firstMatch(g, p, tuning.DestinationRadius, goalFn)
				if !ok {
					circumference := g.Circumference(p, tuning.DestinationRadius)
					if len(circumference) > 0 {
						dest, ok = circumference[e.rng.Intn(len(circumference))], true
					}
				}
				if ok {
					changes = append(changes, Change{Kind: ChangeSetDestination, At: p, ExpectedPhase: body.Phase, Destination: dest})
				}
			case gridmodel.SearchPartner:
				farthest, found := farthestMatch(g, p, tuning.DestinationRadius, e.kind.IsMatingGroundGoal)
				if found {
					changes = append(changes, Change{Kind: ChangeSetDestination, At: p, ExpectedPhase: body.Phase, Destination: farthest})
				} else {
					changes = append(changes, Change{Kind: ChangeFallbackToSearchMatingGround, At: p, ExpectedPhase: body.Phase})
				}
			}
			return true
		})

		return changes
	})
}

func closestTo(candidates []Candidate, destination geom.Point) []Candidate {
	minDist := -1
	var best []Candidate
	for _, c := range candidates {
		d := geom.Distance(c.Target, destination)
		switch {
		case minDist == -1 || d < minDist:
			minDist = d
			best = []Candidate{c}
		case d == minDist:
			best = append(best, c)
		}
	}
	return best
}

func firstMatch(g *gridmodel.Grid, center geom.Point, radius int, goalFn func(gridmodel.Cell) bool) (geom.Point, bool) {
	for _, t := range g.Circle(center, radius) {
		tc, _ := g.At(t)
		if goalFn(tc) {
			return t, true
		}
	}
	return geom.Point{}, false
}

func farthestMatch(g *gridmodel.Grid, center geom.Point, radius int, goalFn func(gridmodel.Cell) bool) (geom.Point, bool) {
	maxDist := -1
	var farthest geom.Point
	for _, t := range g.Circle(center, radius) {
		tc, _ := g.At(t)
		if !goalFn(tc) {
			continue
		}
		if d := geom.Distance(center, t); d > maxDist {
			maxDist = d
			farthest = t
		}
	}
	return farthest, maxDist >= 0
}

// apply re-validates and commits a single pending change. It returns
// whether the grid was mutated.
func (e *Engine) apply(g *gridmodel.Grid, ch Change, now time.Time) bool {
	cell, ok := g.At(ch.At)
	if !ok || cell.Animal.Kind != e.kind.AnimalKind() || cell.Animal.SimpleBody.Phase != ch.ExpectedPhase {
		return false
	}

	switch ch.Kind {
	case ChangeStarveDie:
		cell.Animal = gridmodel.Animal{Kind: gridmodel.AnimalDead}
		g.Set(ch.At, cell)
		return true

	case ChangeStarveReset:
		cell.Animal.SimpleBody.Phase = gridmodel.SearchFood
		cell.Animal.SimpleBody.LastFeedingTime = now.UnixNano()
		cell.Animal.SimpleBody.HasDestination = false
		g.Set(ch.At, cell)
		return true

	case ChangeEat:
		foodCell, ok := g.At(ch.FoodTarget)
		if !ok || !e.kind.IsFoodGoal(foodCell) {
			return false
		}
		cell.Animal.SimpleBody.Phase = gridmodel.SearchMatingGround
		cell.Animal.SimpleBody.LastFeedingTime = now.UnixNano()
		cell.Animal.SimpleBody.HasDestination = false
		g.Set(ch.At, cell)
		foodCell.Animal = gridmodel.Empty
		g.Set(ch.FoodTarget, foodCell)
		return true

	case ChangeAdvanceToSearchPartner:
		cell.Animal.SimpleBody.Phase = gridmodel.SearchPartner
		cell.Animal.SimpleBody.HasDestination = false
		g.Set(ch.At, cell)
		return true

	case ChangeFallbackToSearchMatingGround:
		cell.Animal.SimpleBody.Phase = gridmodel.SearchMatingGround
		cell.Animal.SimpleBody.HasDestination = false
		g.Set(ch.At, cell)
		return true

	case ChangeMate:
		partnerCell, ok := g.At(ch.Partner)
		if !ok || partnerCell.Animal.Kind != e.kind.AnimalKind() || partnerCell.Animal.SimpleBody.Phase != gridmodel.SearchPartner {
			return false
		}
		newbornCell, ok := g.At(ch.Newborn)
		if !ok || !newbornCell.Animal.IsEmpty() {
			return false
		}

		cell.Animal.SimpleBody.Phase = gridmodel.SearchFood
		cell.Animal.SimpleBody.HasDestination = false
		g.Set(ch.At, cell)

		partnerCell.Animal.SimpleBody.Phase = gridmodel.SearchFood
		partnerCell.Animal.SimpleBody.HasDestination = false
		g.Set(ch.Partner, partnerCell)

		newbornCell.Animal = e.kind.Build(now)
		g.Set(ch.Newborn, newbornCell)
		return true

	case ChangeMoveTo:
		targetCell, ok := g.At(ch.MoveTarget)
		if !ok || !targetCell.Animal.IsEmpty() {
			return false
		}
		moved := cell.Animal
		moved.SimpleBody.Facing = ch.NewFacing
		if ch.MoveTarget == cell.Animal.SimpleBody.Destination {
			moved.SimpleBody.HasDestination = false
		}
		targetCell.Animal = moved
		g.Set(ch.MoveTarget, targetCell)
		cell.Animal = gridmodel.Empty
		g.Set(ch.At, cell)
		return true

	case ChangeSetDestination:
		cell.Animal.SimpleBody.HasDestination = true
		cell.Animal.SimpleBody.Destination = ch.Destination
		g.Set(ch.At, cell)
		return true
	}

	return false
}

// Run loops Tick every Tuning().Tick until done is closed.
func (e *Engine) Run(w *world.World, caller string, done <-chan struct{}) {
	tuning := e.kind.Tuning()
	for range channerics.NewTicker(done, tuning.Tick) {
		e.Tick(w, caller, time.Now())
	}
}
