// Package geom implements taxicab geometry over a bounded square grid:
// points, distances, and the circle/circumference/surroundings
// neighborhoods the simulation engine uses for goal search and movement.
package geom

// Point is a signed 2-D coordinate in taxicab geometry.
type Point struct {
	X, Y int
}

// Direction is one of the four axis-aligned unit steps.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// Directions lists all four unit directions in a fixed order.
var Directions = [4]Direction{North, East, South, West}

// Step returns the point reached by moving one unit in d from p.
func (p Point) Step(d Direction) Point {
	switch d {
	case North:
		return Point{p.X, p.Y - 1}
	case South:
		return Point{p.X, p.Y + 1}
	case East:
		return Point{p.X + 1, p.Y}
	case West:
		return Point{p.X - 1, p.Y}
	default:
		return p
	}
}

// TurnRight rotates d by 90 degrees clockwise.
func (d Direction) TurnRight() Direction {
	return (d + 1) % 4
}

// TurnLeft rotates d by 90 degrees counter-clockwise.
func (d Direction) TurnLeft() Direction {
	return (d + 3) % 4
}

// TurnOver reverses d.
func (d Direction) TurnOver() Direction {
	return (d + 2) % 4
}

// Distance returns the taxicab distance between a and b.
func Distance(a, b Point) int {
	return absInt(a.X-b.X) + absInt(a.Y-b.Y)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// validRange clamps [center-radius, center+radius] to [0, size).
func validRange(center, radius, size int) (int, int) {
	lo := center - radius
	if lo < 0 {
		lo = 0
	}
	hi := center + radius + 1
	if hi > size {
		hi = size
	}
	return lo, hi
}

// Circle returns every in-bounds point within taxicab distance r of center,
// for a size x size grid. Order is unspecified but the result never
// duplicates a point.
func Circle(center Point, r, size int) []Point {
	if r < 0 {
		return nil
	}
	loX, hiX := validRange(center.X, r, size)
	points := make([]Point, 0, (2*r+1)*(2*r+1))
	for x := loX; x < hiX; x++ {
		remaining := r - absInt(x-center.X)
		loY, hiY := validRange(center.Y, remaining, size)
		for y := loY; y < hiY; y++ {
			points = append(points, Point{x, y})
		}
	}
	return points
}

// Circumference returns every in-bounds point at taxicab distance exactly r
// from center, for a size x size grid.
func Circumference(center Point, r, size int) []Point {
	if r < 0 {
		return nil
	}
	inBounds := func(p Point) bool {
		return p.X >= 0 && p.X < size && p.Y >= 0 && p.Y < size
	}
	if r == 0 {
		if inBounds(center) {
			return []Point{center}
		}
		return nil
	}

	points := make([]Point, 0, 4*r)
	maybeAppend := func(p Point) {
		if inBounds(p) {
			points = append(points, p)
		}
	}
	maybeAppend(Point{center.X - r, center.Y})
	maybeAppend(Point{center.X + r, center.Y})
	for dx := -r + 1; dx < r; dx++ {
		dy := r - absInt(dx)
		maybeAppend(Point{center.X + dx, center.Y + dy})
		maybeAppend(Point{center.X + dx, center.Y - dy})
	}
	return points
}

// Surroundings returns the 5 points within taxicab distance 1 of p
// (p itself plus its four neighbors), filtered to the size x size grid.
func Surroundings(p Point, size int) []Point {
	return Circle(p, 1, size)
}
