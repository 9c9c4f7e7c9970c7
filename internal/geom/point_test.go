package geom

import (
	"reflect"
	"testing"
)

func TestCircumferenceInterior(t *testing.T) {
	const size = 100

	cases := []struct {
		center Point
		r      int
		want   []Point
	}{
		{Point{10, 20}, 0, []Point{{10, 20}}},
		{Point{10, 20}, 1, []Point{{9, 20}, {11, 20}, {10, 21}, {10, 19}}},
		{
			Point{10, 20}, 2,
			[]Point{{8, 20}, {12, 20}, {9, 21}, {9, 19}, {10, 22}, {10, 18}, {11, 21}, {11, 19}},
		},
	}

	for _, c := range cases {
		got := Circumference(c.center, c.r, size)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("Circumference(%v, %d) = %v, want %v", c.center, c.r, got, c.want)
		}
	}
}

func TestCircumferenceNearLeftEdge(t *testing.T) {
	const size = 100

	cases := []struct {
		center Point
		r      int
		want   []Point
	}{
		{
			Point{1, 20}, 2,
			[]Point{{3, 20}, {0, 21}, {0, 19}, {1, 22}, {1, 18}, {2, 21}, {2, 19}},
		},
		{
			Point{0, 20}, 2,
			[]Point{{2, 20}, {0, 22}, {0, 18}, {1, 21}, {1, 19}},
		},
	}

	for _, c := range cases {
		got := Circumference(c.center, c.r, size)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("Circumference(%v, %d) = %v, want %v", c.center, c.r, got, c.want)
		}
	}
}

func TestCircumferenceNearRightEdge(t *testing.T) {
	const size = 100

	cases := []struct {
		center Point
		r      int
		want   []Point
	}{
		{
			Point{98, 20}, 2,
			[]Point{{96, 20}, {97, 21}, {97, 19}, {98, 22}, {98, 18}, {99, 21}, {99, 19}},
		},
		{
			Point{99, 20}, 2,
			[]Point{{97, 20}, {98, 21}, {98, 19}, {99, 22}, {99, 18}},
		},
	}

	for _, c := range cases {
		got := Circumference(c.center, c.r, size)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("Circumference(%v, %d) = %v, want %v", c.center, c.r, got, c.want)
		}
	}
}

func TestCircleRadiusZero(t *testing.T) {
	got := Circle(Point{5, 5}, 0, 100)
	want := []Point{{5, 5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Circle(r=0) = %v, want %v", got, want)
	}
}

func TestCircleContainsOnlyInBoundsPointsWithinDistance(t *testing.T) {
	const size = 10
	center := Point{0, 0}
	got := Circle(center, 3, size)

	seen := map[Point]bool{}
	for _, p := range got {
		if seen[p] {
			t.Fatalf("Circle produced duplicate point %v", p)
		}
		seen[p] = true
		if p.X < 0 || p.X >= size || p.Y < 0 || p.Y >= size {
			t.Fatalf("Circle produced out-of-bounds point %v", p)
		}
		if Distance(center, p) > 3 {
			t.Fatalf("Circle produced point %v farther than radius", p)
		}
	}

	// Every in-bounds point within distance 3 must be present.
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			p := Point{x, y}
			if Distance(center, p) <= 3 && !seen[p] {
				t.Fatalf("Circle missing in-bounds point %v", p)
			}
		}
	}
}

func TestSurroundingsIsCircleOfOne(t *testing.T) {
	got := Surroundings(Point{5, 5}, 100)
	want := Circle(Point{5, 5}, 1, 100)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Surroundings = %v, want %v", got, want)
	}
	if len(got) != 5 {
		t.Errorf("Surroundings of an interior point should have 5 points, got %d", len(got))
	}
}

func TestTurns(t *testing.T) {
	if North.TurnRight() != East {
		t.Errorf("North.TurnRight() = %v, want East", North.TurnRight())
	}
	if East.TurnRight() != South {
		t.Errorf("East.TurnRight() = %v, want South", East.TurnRight())
	}
	if North.TurnLeft() != West {
		t.Errorf("North.TurnLeft() = %v, want West", North.TurnLeft())
	}
	if North.TurnOver() != South {
		t.Errorf("North.TurnOver() = %v, want South", North.TurnOver())
	}
}

func TestStep(t *testing.T) {
	p := Point{5, 5}
	if got := p.Step(North); got != (Point{5, 4}) {
		t.Errorf("Step(North) = %v", got)
	}
	if got := p.Step(South); got != (Point{5, 6}) {
		t.Errorf("Step(South) = %v", got)
	}
	if got := p.Step(East); got != (Point{6, 5}) {
		t.Errorf("Step(East) = %v", got)
	}
	if got := p.Step(West); got != (Point{4, 5}) {
		t.Errorf("Step(West) = %v", got)
	}
}
