package snake

import (
	"math/rand"
	"time"

	channerics "github.com/niceyeti/channerics/channels"
	"github.com/sitegui/nature-pixel/internal/geom"
	"github.com/sitegui/nature-pixel/internal/gridmodel"
	"github.com/sitegui/nature-pixel/internal/world"
)

// extracted is one fully-linked snake found during phase 2/3: its points in
// head-first order.
type extracted struct {
	species gridmodel.SnakeSpecies
	points  []geom.Point
}

func (e extracted) head() geom.Point { return e.points[0] }
func (e extracted) tail() geom.Point { return e.points[len(e.points)-1] }

// ChangeKind identifies which effect a pending snake Change applies.
type ChangeKind int

const (
	ChangeNewSnake ChangeKind = iota
	ChangeMove
	ChangeEat
	ChangeStarve
	ChangeDeath
)

// Change is one pending mutation computed during the plan phase of a
// single species' tick, re-checked against the live grid before commit.
type Change struct {
	Kind    ChangeKind
	Species gridmodel.SnakeSpecies

	// NewSnake: the points in head-first order.
	// Move/Eat/Starve: the snake's points in head-first order.
	// Death: a single dangling point (only Points[0] is meaningful).
	Points []geom.Point

	MoveTarget geom.Point // Move, Eat: the new head position
	FoodTarget geom.Point // Eat: the prey's current position
}

// Engine runs the five-phase per-tick protocol of spec.md §4.7 for all three
// snake species at once (species are independent only in their tuning; the
// grid they share is the same, so a single index pass covers all of them).
type Engine struct {
	tuning Tuning
	rng    *rand.Rand
}

// NewEngine builds a snake engine from its tuning.
func NewEngine(tuning Tuning, rng *rand.Rand) *Engine {
	return &Engine{tuning: tuning, rng: rng}
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

// Run loops Tick every configured interval until done is closed.
func (e *Engine) Run(w *world.World, caller string, done <-chan struct{}) {
	for range channerics.NewTicker(done, e.tuning.Tick) {
		e.Tick(w, caller, time.Now())
	}
}

func (e *Engine) plan(w *world.World, caller string, now time.Time) []Change {
	return world.Plan(w, caller, func(g *gridmodel.Grid) []Change {
		heads := make(map[gridmodel.SnakeSpecies]map[geom.Point]gridmodel.SnakeSegment)
		bodies := make(map[gridmodel.SnakeSpecies]map[geom.Point]gridmodel.SnakeSegment)
		spareParts := make(map[gridmodel.SnakeSpecies]map[geom.Point]bool)
		var uneatenPreys []geom.Point

		g.ForEach(func(p geom.Point, c gridmodel.Cell) bool {
			if c.Animal.Kind == gridmodel.AnimalAmphibian {
				uneatenPreys = append(uneatenPreys, p)
				return true
			}
			if c.Animal.Kind != gridmodel.AnimalSnake {
				return true
			}
			species := c.Animal.Snake.Species
			seg := c.Animal.Snake.Segment
			if seg == nil {
				if spareParts[species] == nil {
					spareParts[species] = make(map[geom.Point]bool)
				}
				spareParts[species][p] = true
				return true
			}
			switch seg.Kind {
			case gridmodel.SegmentHead:
				if heads[species] == nil {
					heads[species] = make(map[geom.Point]gridmodel.SnakeSegment)
				}
				heads[species][p] = *seg
			case gridmodel.SegmentBody:
				if bodies[species] == nil {
					bodies[species] = make(map[geom.Point]gridmodel.SnakeSegment)
				}
				bodies[species][p] = *seg
			}
			return true
		})

		preySet := make(map[geom.Point]bool, len(uneatenPreys))
		for _, p := range uneatenPreys {
			preySet[p] = true
		}

		var changes []Change
		for _, species := range []gridmodel.SnakeSpecies{gridmodel.SnakeA, gridmodel.SnakeB, gridmodel.SnakeC} {
			speciesBodies := bodies[species]
			if speciesBodies == nil {
				speciesBodies = make(map[geom.Point]gridmodel.SnakeSegment)
			}

			var snakes []extracted
			for h, headSeg := range heads[species] {
				points, ok := e.extractSnake(species, h, headSeg, speciesBodies)
				if !ok {
					changes = append(changes, Change{Kind: ChangeDeath, Species: species, Points: []geom.Point{h}})
					continue
				}
				snakes = append(snakes, extracted{species: species, points: points})
			}

			for p := range speciesBodies {
				changes = append(changes, Change{Kind: ChangeDeath, Species: species, Points: []geom.Point{p}})
			}

			spawned := e.spawnNewSnakes(g, species, spareParts[species])
			for _, points := range spawned {
				changes = append(changes, Change{Kind: ChangeNewSnake, Species: species, Points: points})
			}
			for _, points := range spawned {
				snakes = append(snakes, extracted{species: species, points: points})
			}

			for _, s := range snakes {
				if ch, ok := e.decide(g, s, now, preySet); ok {
					changes = append(changes, ch)
				}
			}
		}

		return changes
	})
}

// extractSnake walks the chain from head.next_segment, removing each body
// cell from bodySet as it is consumed so no other head can claim it, per
// spec.md §4.7 phase 2. It returns the ordered head-first point list and
// whether the resulting snake is well-formed (length >= min_size).
func (e *Engine) extractSnake(species gridmodel.SnakeSpecies, head geom.Point, headSeg gridmodel.SnakeSegment, bodySet map[geom.Point]gridmodel.SnakeSegment) ([]geom.Point, bool) {
	maxSize := e.tuning.maxSize(species)
	points := []geom.Point{head}
	hasNext, next := headSeg.HasNext, headSeg.Next

	for hasNext && len(points) < maxSize {
		seg, ok := bodySet[next]
		if !ok {
			break
		}
		delete(bodySet, next)
		points = append(points, next)
		hasNext, next = seg.HasNext, seg.Next
	}

	if len(points) < e.tuning.MinSize {
		return nil, false
	}
	return points, true
}

// spawnNewSnakes implements spec.md §4.7 phase 3: while spare parts remain,
// seed a deque from one point and grow it by randomly extending from either
// end, consuming adjacent spare parts, until it reaches min_size exactly.
func (e *Engine) spawnNewSnakes(g *gridmodel.Grid, species gridmodel.SnakeSpecies, spareParts map[geom.Point]bool) [][]geom.Point {
	if len(spareParts) == 0 {
		return nil
	}

	remaining := make(map[geom.Point]bool, len(spareParts))
	for p := range spareParts {
		remaining[p] = true
	}

	var seeds []geom.Point
	for p := range remaining {
		seeds = append(seeds, p)
	}
	e.rng.Shuffle(len(seeds), func(i, j int) { seeds[i], seeds[j] = seeds[j], seeds[i] })

	var spawned [][]geom.Point
	for _, seed := range seeds {
		if !remaining[seed] {
			continue
		}
		delete(remaining, seed)
		deque := []geom.Point{seed}
		head, tail := seed, seed

		for len(deque) < e.tuning.MinSize {
			type candidate struct {
				atHead bool
				point  geom.Point
			}
			var candidates []candidate
			for _, base := range []struct {
				atHead bool
				point  geom.Point
			}{{true, head}, {false, tail}} {
				for _, d := range geom.Directions {
					c := base.point.Step(d)
					if remaining[c] {
						candidates = append(candidates, candidate{atHead: base.atHead, point: c})
					}
				}
			}
			if len(candidates) == 0 {
				break
			}
			chosen := candidates[e.rng.Intn(len(candidates))]
			delete(remaining, chosen.point)
			if chosen.atHead {
				deque = append([]geom.Point{chosen.point}, deque...)
				head = chosen.point
			} else {
				deque = append(deque, chosen.point)
				tail = chosen.point
			}
		}

		if len(deque) >= e.tuning.MinSize {
			spawned = append(spawned, deque)
		}
	}

	return spawned
}

// decide implements spec.md §4.7 phase 4 for one already-extracted snake.
func (e *Engine) decide(g *gridmodel.Grid, s extracted, now time.Time, preySet map[geom.Point]bool) (Change, bool) {
	head := s.head()
	headCell, ok := g.At(head)
	if !ok {
		return Change{}, false
	}

	lastFeeding := int64(0)
	if headCell.Animal.Kind == gridmodel.AnimalSnake && headCell.Animal.Snake.Segment != nil {
		lastFeeding = headCell.Animal.Snake.Segment.LastFeedingTime
	} else {
		lastFeeding = now.UnixNano()
	}

	if now.UnixNano()-lastFeeding > int64(e.tuning.StarvationDelay) {
		return Change{Kind: ChangeStarve, Species: s.species, Points: s.points}, true
	}

	if e.rng.Float64() >= e.tuning.moveRatio(s.species) {
		return Change{}, false
	}

	length := len(s.points)
	maxSize := e.tuning.maxSize(s.species)

	if length < maxSize {
		if prey, target, ok := e.findAdjacentPrey(g, head, preySet); ok {
			delete(preySet, prey)
			return Change{Kind: ChangeEat, Species: s.species, Points: s.points, MoveTarget: target, FoodTarget: prey}, true
		}
		if prey, ok := closestPrey(head, preySet, e.rng); ok {
			if target, ok := e.moveToward(g, head, prey); ok {
				return Change{Kind: ChangeMove, Species: s.species, Points: s.points, MoveTarget: target}, true
			}
		}
	}

	if target, ok := e.randomWalkTarget(g, s); ok {
		return Change{Kind: ChangeMove, Species: s.species, Points: s.points, MoveTarget: target}, true
	}
	return Change{}, false
}

// findAdjacentPrey looks for any amphibian within eating radius of head
// that is still in preySet, picks one uniformly, and computes the head's
// move target toward it.
func (e *Engine) findAdjacentPrey(g *gridmodel.Grid, head geom.Point, preySet map[geom.Point]bool) (geom.Point, geom.Point, bool) {
	var candidates []geom.Point
	for _, p := range g.Circle(head, e.tuning.EatingRadius) {
		if preySet[p] {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return geom.Point{}, geom.Point{}, false
	}
	prey := candidates[e.rng.Intn(len(candidates))]
	target, ok := e.moveToward(g, head, prey)
	if !ok {
		return geom.Point{}, geom.Point{}, false
	}
	return prey, target, true
}

// closestPrey picks one of the closest remaining preys to head, breaking
// ties at random.
func closestPrey(head geom.Point, preySet map[geom.Point]bool, rng *rand.Rand) (geom.Point, bool) {
	if len(preySet) == 0 {
		return geom.Point{}, false
	}
	minDist := -1
	var closest []geom.Point
	for p := range preySet {
		d := geom.Distance(head, p)
		switch {
		case minDist == -1 || d < minDist:
			minDist = d
			closest = []geom.Point{p}
		case d == minDist:
			closest = append(closest, p)
		}
	}
	return closest[rng.Intn(len(closest))], true
}

// moveToward enumerates the four axis neighbors of head that are
// Animal-Empty, keeps those minimizing taxicab distance to goal, and picks
// one uniformly at random.
func (e *Engine) moveToward(g *gridmodel.Grid, head, goal geom.Point) (geom.Point, bool) {
	var best []geom.Point
	minDist := -1
	for _, d := range geom.Directions {
		c := head.Step(d)
		cell, ok := g.At(c)
		if !ok || !cell.Animal.IsEmpty() {
			continue
		}
		dist := geom.Distance(c, goal)
		switch {
		case minDist == -1 || dist < minDist:
			minDist = dist
			best = []geom.Point{c}
		case dist == minDist:
			best = append(best, c)
		}
	}
	if len(best) == 0 {
		return geom.Point{}, false
	}
	return best[e.rng.Intn(len(best))], true
}

// randomWalkTarget implements the weighted random-walk fallback of spec.md
// §4.7: four-axis uniform for a length-1 snake; for longer snakes, the
// forward direction (away from the body) gets weight 4, the two sides
// weight 1 each, and the backward direction is excluded (occupied by body).
func (e *Engine) randomWalkTarget(g *gridmodel.Grid, s extracted) (geom.Point, bool) {
	head := s.head()

	type weighted struct {
		point  geom.Point
		weight int
	}
	var options []weighted

	if len(s.points) == 1 {
		for _, d := range geom.Directions {
			c := head.Step(d)
			if cell, ok := g.At(c); ok && cell.Animal.IsEmpty() {
				options = append(options, weighted{c, 1})
			}
		}
	} else {
		forward := directionOf(s.points[1], head)
		backward := forward.TurnOver()
		for _, d := range geom.Directions {
			if d == backward {
				continue
			}
			c := head.Step(d)
			cell, ok := g.At(c)
			if !ok || !cell.Animal.IsEmpty() {
				continue
			}
			weight := 1
			if d == forward {
				weight = 4
			}
			options = append(options, weighted{c, weight})
		}
	}

	total := 0
	for _, o := range options {
		total += o.weight
	}
	if total == 0 {
		return geom.Point{}, false
	}
	roll := e.rng.Intn(total)
	for _, o := range options {
		if roll < o.weight {
			return o.point, true
		}
		roll -= o.weight
	}
	return geom.Point{}, false
}

// directionOf returns the axis direction from `from` to an adjacent `to`.
func directionOf(from, to geom.Point) geom.Direction {
	for _, d := range geom.Directions {
		if from.Step(d) == to {
			return d
		}
	}
	return geom.North
}

// apply re-validates and commits a single pending change. It returns
// whether the grid was mutated.
func (e *Engine) apply(g *gridmodel.Grid, ch Change, now time.Time) bool {
	switch ch.Kind {
	case ChangeNewSnake:
		return e.applyNewSnake(g, ch, now)
	case ChangeMove:
		return e.applyMove(g, ch, now)
	case ChangeEat:
		return e.applyEat(g, ch, now)
	case ChangeStarve:
		return e.applyStarve(g, ch)
	case ChangeDeath:
		return e.applyDeath(g, ch)
	}
	return false
}

func (e *Engine) applyNewSnake(g *gridmodel.Grid, ch Change, now time.Time) bool {
	for _, p := range ch.Points {
		cell, ok := g.At(p)
		if !ok || cell.Animal.Kind != gridmodel.AnimalSnake || cell.Animal.Snake.Species != ch.Species || cell.Animal.Snake.Segment != nil {
			return false
		}
	}

	for i, p := range ch.Points {
		cell, _ := g.At(p)
		if i == 0 {
			cell.Animal.Snake.Segment = &gridmodel.SnakeSegment{
				Kind: gridmodel.SegmentHead, LastFeedingTime: now.UnixNano(),
				HasNext: true, Next: ch.Points[1],
			}
		} else if i == len(ch.Points)-1 {
			cell.Animal.Snake.Segment = &gridmodel.SnakeSegment{Kind: gridmodel.SegmentBody, HasNext: false}
		} else {
			cell.Animal.Snake.Segment = &gridmodel.SnakeSegment{Kind: gridmodel.SegmentBody, HasNext: true, Next: ch.Points[i+1]}
		}
		g.Set(p, cell)
	}
	return true
}

// validateChain re-checks that every point in points is still a Body (after
// the head) of the expected species with the expected forward link, and
// that the head is still a Head of that species with next_segment = points[1].
func validateChain(g *gridmodel.Grid, species gridmodel.SnakeSpecies, points []geom.Point) bool {
	headCell, ok := g.At(points[0])
	if !ok || headCell.Animal.Kind != gridmodel.AnimalSnake || headCell.Animal.Snake.Species != species {
		return false
	}
	seg := headCell.Animal.Snake.Segment
	if seg == nil || seg.Kind != gridmodel.SegmentHead {
		return false
	}
	if len(points) > 1 && (!seg.HasNext || seg.Next != points[1]) {
		return false
	}
	if len(points) == 1 && seg.HasNext {
		return false
	}

	for i := 1; i < len(points); i++ {
		cell, ok := g.At(points[i])
		if !ok || cell.Animal.Kind != gridmodel.AnimalSnake || cell.Animal.Snake.Species != species {
			return false
		}
		bodySeg := cell.Animal.Snake.Segment
		if bodySeg == nil || bodySeg.Kind != gridmodel.SegmentBody {
			return false
		}
		isTail := i == len(points)-1
		if isTail && bodySeg.HasNext {
			return false
		}
		if !isTail && (!bodySeg.HasNext || bodySeg.Next != points[i+1]) {
			return false
		}
	}
	return true
}

// applyMove commits a Move: the old tail is emptied, so the snake's length
// is unchanged — the head advances and the tail follows.
func (e *Engine) applyMove(g *gridmodel.Grid, ch Change, now time.Time) bool {
	if !validateChain(g, ch.Species, ch.Points) {
		return false
	}
	targetCell, ok := g.At(ch.MoveTarget)
	if !ok || !targetCell.Animal.IsEmpty() {
		return false
	}

	e.writeNewHead(g, ch.Species, ch.Points[0], ch.MoveTarget, now)

	if len(ch.Points) == 1 {
		// The single old segment is at once the old head and the old tail:
		// it is entirely absorbed into the new head, so its old cell is
		// vacated rather than demoted to a dangling body.
		cell, _ := g.At(ch.Points[0])
		cell.Animal = gridmodel.Empty
		g.Set(ch.Points[0], cell)
		e.clearForwardLink(g, ch.MoveTarget)
		return true
	}

	e.demoteOldHead(g, ch.Points)
	tailIdx := len(ch.Points) - 1
	tailCell, _ := g.At(ch.Points[tailIdx])
	tailCell.Animal = gridmodel.Empty
	g.Set(ch.Points[tailIdx], tailCell)
	e.clearForwardLink(g, ch.Points[tailIdx-1])
	return true
}

// applyEat commits an Eat: the old tail is left untouched, so the snake
// grows by one segment (the old head becomes the new second segment).
func (e *Engine) applyEat(g *gridmodel.Grid, ch Change, now time.Time) bool {
	if !validateChain(g, ch.Species, ch.Points) {
		return false
	}
	targetCell, ok := g.At(ch.MoveTarget)
	if !ok || !targetCell.Animal.IsEmpty() {
		return false
	}
	foodCell, ok := g.At(ch.FoodTarget)
	if !ok || foodCell.Animal.Kind != gridmodel.AnimalAmphibian {
		return false
	}

	e.writeNewHead(g, ch.Species, ch.Points[0], ch.MoveTarget, now)
	e.demoteOldHead(g, ch.Points)

	foodCell.Animal = gridmodel.Empty
	g.Set(ch.FoodTarget, foodCell)
	return true
}

// writeNewHead writes a fresh Head at target whose next_segment is oldHead.
func (e *Engine) writeNewHead(g *gridmodel.Grid, species gridmodel.SnakeSpecies, oldHead, target geom.Point, now time.Time) {
	targetCell, _ := g.At(target)
	targetCell.Animal = gridmodel.Animal{
		Kind: gridmodel.AnimalSnake,
		Snake: gridmodel.SnakeState{
			Species: species,
			Segment: &gridmodel.SnakeSegment{
				Kind: gridmodel.SegmentHead, LastFeedingTime: now.UnixNano(),
				HasNext: true, Next: oldHead,
			},
		},
	}
	g.Set(target, targetCell)
}

// demoteOldHead turns points[0] (still a Head) into a Body segment whose
// forward link is unchanged (still pointing to points[1], or absent for a
// length-1 snake, which callers handle separately).
func (e *Engine) demoteOldHead(g *gridmodel.Grid, points []geom.Point) {
	cell, _ := g.At(points[0])
	seg := cell.Animal.Snake.Segment
	cell.Animal.Snake.Segment = &gridmodel.SnakeSegment{Kind: gridmodel.SegmentBody, HasNext: seg.HasNext, Next: seg.Next}
	g.Set(points[0], cell)
}

// clearForwardLink marks the segment at p as the new tail (no next_segment).
func (e *Engine) clearForwardLink(g *gridmodel.Grid, p geom.Point) {
	cell, _ := g.At(p)
	seg := cell.Animal.Snake.Segment
	cell.Animal.Snake.Segment = &gridmodel.SnakeSegment{Kind: seg.Kind, LastFeedingTime: seg.LastFeedingTime, HasNext: false}
	g.Set(p, cell)
}

func (e *Engine) applyStarve(g *gridmodel.Grid, ch Change) bool {
	changed := false
	for _, p := range ch.Points {
		cell, ok := g.At(p)
		if !ok || cell.Animal.Kind != gridmodel.AnimalSnake || cell.Animal.Snake.Species != ch.Species {
			continue
		}
		cell.Animal = gridmodel.Animal{Kind: gridmodel.AnimalDead}
		g.Set(p, cell)
		changed = true
	}
	return changed
}

func (e *Engine) applyDeath(g *gridmodel.Grid, ch Change) bool {
	p := ch.Points[0]
	cell, ok := g.At(p)
	if !ok || cell.Animal.Kind != gridmodel.AnimalSnake {
		return false
	}
	cell.Animal = gridmodel.Animal{Kind: gridmodel.AnimalDead}
	g.Set(p, cell)
	return true
}
