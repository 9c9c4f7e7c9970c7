package snake

import (
	"math/rand"
	"testing"
	"time"

	"github.com/sitegui/nature-pixel/internal/geom"
	"github.com/sitegui/nature-pixel/internal/gridmodel"
	"github.com/sitegui/nature-pixel/internal/world"
)

func newTestWorld(size int) *world.World {
	return world.New(gridmodel.NewGrid(size, make([]uint8, size*size)))
}

func testTuning() Tuning {
	return Tuning{
		Tick:            time.Second,
		MinSize:         3,
		EatingRadius:    2,
		StarvationDelay: time.Hour,
		Species: map[gridmodel.SnakeSpecies]SpeciesTuning{
			gridmodel.SnakeA: {MaxSize: 5, MoveRatio: 1.0},
			gridmodel.SnakeB: {MaxSize: 8, MoveRatio: 0.7},
			gridmodel.SnakeC: {MaxSize: 12, MoveRatio: 0.5},
		},
	}
}

func snakeAt(t *testing.T, snap world.Snapshot, size int, p geom.Point) gridmodel.Cell {
	t.Helper()
	return snap.Cells[p.Y*size+p.X]
}

// Scenario 5 (formation): three adjacent spare parts of species A form a
// well-formed snake with a Head at one end, Body segments, and a tail whose
// next_segment is absent.
func TestThreeAdjacentSparePartsFormASnake(t *testing.T) {
	w := newTestWorld(7)
	pts := []geom.Point{{X: 3, Y: 2}, {X: 3, Y: 3}, {X: 3, Y: 4}}

	w.Commit("setup", func(g *gridmodel.Grid) bool {
		for _, p := range pts {
			g.Set(p, gridmodel.Cell{Animal: gridmodel.Animal{
				Kind:  gridmodel.AnimalSnake,
				Snake: gridmodel.SnakeState{Species: gridmodel.SnakeA, Segment: nil},
			}})
		}
		return true
	})

	// move_ratio=0 so the snake only forms this tick and does not also
	// immediately walk away from the positions under test.
	tuning := testTuning()
	tuning.Species[gridmodel.SnakeA] = SpeciesTuning{MaxSize: 5, MoveRatio: 0}
	engine := NewEngine(tuning, rand.New(rand.NewSource(1)))
	engine.Tick(w, "test", time.Now())

	snap := w.ReadSnapshot("test")
	var heads, tails, bodies int
	for _, p := range pts {
		c := snakeAt(t, snap, 7, p)
		if c.Animal.Kind != gridmodel.AnimalSnake {
			t.Fatalf("expected %v to remain a snake cell, got %v", p, c.Animal.Kind)
		}
		seg := c.Animal.Snake.Segment
		if seg == nil {
			t.Fatalf("expected %v to be enrolled into a chain, still a spare part", p)
		}
		switch seg.Kind {
		case gridmodel.SegmentHead:
			heads++
		case gridmodel.SegmentBody:
			bodies++
			if !seg.HasNext {
				tails++
			}
		}
	}
	if heads != 1 {
		t.Fatalf("expected exactly one head, got %d", heads)
	}
	if tails != 1 {
		t.Fatalf("expected exactly one tail, got %d", tails)
	}
	if bodies != 2 {
		t.Fatalf("expected two body segments (one of which is the tail), got %d", bodies)
	}
}

// Scenario 5 (movement/eating): a well-formed 3-segment snake with an
// amphibian within eating radius moves toward or eats it when move_ratio=1.
func TestSnakeMovesOrEatsTowardNearbyPrey(t *testing.T) {
	w := newTestWorld(7)
	head := geom.Point{X: 3, Y: 4}
	mid := geom.Point{X: 3, Y: 3}
	tail := geom.Point{X: 3, Y: 2}
	prey := geom.Point{X: 3, Y: 6}
	now := time.Now()

	w.Commit("setup", func(g *gridmodel.Grid) bool {
		g.Set(head, gridmodel.Cell{Animal: gridmodel.Animal{Kind: gridmodel.AnimalSnake, Snake: gridmodel.SnakeState{
			Species: gridmodel.SnakeA,
			Segment: &gridmodel.SnakeSegment{Kind: gridmodel.SegmentHead, LastFeedingTime: now.UnixNano(), HasNext: true, Next: mid},
		}}})
		g.Set(mid, gridmodel.Cell{Animal: gridmodel.Animal{Kind: gridmodel.AnimalSnake, Snake: gridmodel.SnakeState{
			Species: gridmodel.SnakeA,
			Segment: &gridmodel.SnakeSegment{Kind: gridmodel.SegmentBody, HasNext: true, Next: tail},
		}}})
		g.Set(tail, gridmodel.Cell{Animal: gridmodel.Animal{Kind: gridmodel.AnimalSnake, Snake: gridmodel.SnakeState{
			Species: gridmodel.SnakeA,
			Segment: &gridmodel.SnakeSegment{Kind: gridmodel.SegmentBody, HasNext: false},
		}}})
		g.Set(prey, gridmodel.Cell{Animal: gridmodel.Animal{Kind: gridmodel.AnimalAmphibian}})
		return true
	})

	engine := NewEngine(testTuning(), rand.New(rand.NewSource(2)))
	engine.Tick(w, "test", now.Add(time.Second))

	snap := w.ReadSnapshot("test")
	newHeadPos := geom.Point{X: 3, Y: 5}
	newHeadCell := snakeAt(t, snap, 7, newHeadPos)
	if newHeadCell.Animal.Kind != gridmodel.AnimalSnake || newHeadCell.Animal.Snake.Segment == nil || newHeadCell.Animal.Snake.Segment.Kind != gridmodel.SegmentHead {
		t.Fatalf("expected the head to advance one cell toward the prey at %v, got cell %+v", newHeadPos, newHeadCell)
	}

	oldHeadCell := snakeAt(t, snap, 7, head)
	if oldHeadCell.Animal.Kind != gridmodel.AnimalSnake || oldHeadCell.Animal.Snake.Segment == nil || oldHeadCell.Animal.Snake.Segment.Kind != gridmodel.SegmentBody {
		t.Fatalf("expected the old head to demote to a body segment, got %+v", oldHeadCell)
	}
}

// Scenario 6: a well-formed 3-segment snake with starvation_delay=0 dies
// entirely (every segment becomes Dead) on the next tick.
func TestSnakeStarves(t *testing.T) {
	w := newTestWorld(7)
	head := geom.Point{X: 3, Y: 2}
	mid := geom.Point{X: 3, Y: 3}
	tail := geom.Point{X: 3, Y: 4}
	past := time.Now().Add(-time.Hour)

	w.Commit("setup", func(g *gridmodel.Grid) bool {
		g.Set(head, gridmodel.Cell{Animal: gridmodel.Animal{Kind: gridmodel.AnimalSnake, Snake: gridmodel.SnakeState{
			Species: gridmodel.SnakeA,
			Segment: &gridmodel.SnakeSegment{Kind: gridmodel.SegmentHead, LastFeedingTime: past.UnixNano(), HasNext: true, Next: mid},
		}}})
		g.Set(mid, gridmodel.Cell{Animal: gridmodel.Animal{Kind: gridmodel.AnimalSnake, Snake: gridmodel.SnakeState{
			Species: gridmodel.SnakeA,
			Segment: &gridmodel.SnakeSegment{Kind: gridmodel.SegmentBody, HasNext: true, Next: tail},
		}}})
		g.Set(tail, gridmodel.Cell{Animal: gridmodel.Animal{Kind: gridmodel.AnimalSnake, Snake: gridmodel.SnakeState{
			Species: gridmodel.SnakeA,
			Segment: &gridmodel.SnakeSegment{Kind: gridmodel.SegmentBody, HasNext: false},
		}}})
		return true
	})

	tuning := testTuning()
	tuning.StarvationDelay = 0
	engine := NewEngine(tuning, rand.New(rand.NewSource(3)))
	engine.Tick(w, "test", time.Now())

	snap := w.ReadSnapshot("test")
	for _, p := range []geom.Point{head, mid, tail} {
		c := snakeAt(t, snap, 7, p)
		if c.Animal.Kind != gridmodel.AnimalDead {
			t.Fatalf("expected %v to starve to Dead, got %v", p, c.Animal.Kind)
		}
	}
}

// A head whose next_segment chain is broken before min_size is reached dies
// instead of forming an invalid snake.
func TestInvalidHeadChainDies(t *testing.T) {
	w := newTestWorld(5)
	head := geom.Point{X: 2, Y: 2}
	missing := geom.Point{X: 2, Y: 3}

	w.Commit("setup", func(g *gridmodel.Grid) bool {
		g.Set(head, gridmodel.Cell{Animal: gridmodel.Animal{Kind: gridmodel.AnimalSnake, Snake: gridmodel.SnakeState{
			Species: gridmodel.SnakeA,
			Segment: &gridmodel.SnakeSegment{Kind: gridmodel.SegmentHead, LastFeedingTime: time.Now().UnixNano(), HasNext: true, Next: missing},
		}}})
		return true
	})

	engine := NewEngine(testTuning(), rand.New(rand.NewSource(4)))
	engine.Tick(w, "test", time.Now())

	snap := w.ReadSnapshot("test")
	c := snakeAt(t, snap, 5, head)
	if c.Animal.Kind != gridmodel.AnimalDead {
		t.Fatalf("expected invalid head to die, got %v", c.Animal.Kind)
	}
}

// A dangling body with no owning head dies.
func TestDanglingBodyDies(t *testing.T) {
	w := newTestWorld(5)
	p := geom.Point{X: 2, Y: 2}

	w.Commit("setup", func(g *gridmodel.Grid) bool {
		g.Set(p, gridmodel.Cell{Animal: gridmodel.Animal{Kind: gridmodel.AnimalSnake, Snake: gridmodel.SnakeState{
			Species: gridmodel.SnakeA,
			Segment: &gridmodel.SnakeSegment{Kind: gridmodel.SegmentBody, HasNext: false},
		}}})
		return true
	})

	engine := NewEngine(testTuning(), rand.New(rand.NewSource(5)))
	engine.Tick(w, "test", time.Now())

	snap := w.ReadSnapshot("test")
	c := snakeAt(t, snap, 5, p)
	if c.Animal.Kind != gridmodel.AnimalDead {
		t.Fatalf("expected dangling body to die, got %v", c.Animal.Kind)
	}
}

// Two spare parts alone never form a snake below min_size=3.
func TestTwoSparePartsDoNotFormASnake(t *testing.T) {
	w := newTestWorld(5)
	a := geom.Point{X: 2, Y: 2}
	b := geom.Point{X: 2, Y: 3}

	w.Commit("setup", func(g *gridmodel.Grid) bool {
		g.Set(a, gridmodel.Cell{Animal: gridmodel.Animal{Kind: gridmodel.AnimalSnake, Snake: gridmodel.SnakeState{Species: gridmodel.SnakeA}}})
		g.Set(b, gridmodel.Cell{Animal: gridmodel.Animal{Kind: gridmodel.AnimalSnake, Snake: gridmodel.SnakeState{Species: gridmodel.SnakeA}}})
		return true
	})

	engine := NewEngine(testTuning(), rand.New(rand.NewSource(6)))
	engine.Tick(w, "test", time.Now())

	snap := w.ReadSnapshot("test")
	for _, p := range []geom.Point{a, b} {
		c := snakeAt(t, snap, 5, p)
		if c.Animal.Kind != gridmodel.AnimalSnake || c.Animal.Snake.Segment != nil {
			t.Fatalf("expected %v to remain an unenrolled spare part, got %+v", p, c.Animal)
		}
	}
}
