package gridmodel

import "github.com/sitegui/nature-pixel/internal/geom"

// Grid is a square array of cells with bounds-checked access.
type Grid struct {
	size  int
	cells []Cell
}

// NewGrid builds a size x size grid of empty cells with the given heights.
// heights must have length size*size, row-major (y*size+x).
func NewGrid(size int, heights []uint8) *Grid {
	cells := make([]Cell, size*size)
	for i, h := range heights {
		cells[i].Height = h
	}
	return &Grid{size: size, cells: cells}
}

// Size returns the grid's side length.
func (g *Grid) Size() int { return g.size }

func (g *Grid) index(p geom.Point) (int, bool) {
	if p.X < 0 || p.X >= g.size || p.Y < 0 || p.Y >= g.size {
		return 0, false
	}
	return p.Y*g.size + p.X, true
}

// InBounds reports whether p is a valid grid coordinate.
func (g *Grid) InBounds(p geom.Point) bool {
	_, ok := g.index(p)
	return ok
}

// At returns the cell at p and true, or the zero Cell and false if out of range.
func (g *Grid) At(p geom.Point) (Cell, bool) {
	i, ok := g.index(p)
	if !ok {
		return Cell{}, false
	}
	return g.cells[i], true
}

// Set overwrites the cell at p. It panics if p is out of range, since every
// caller is expected to have validated the point first (via At or a prior
// Circle/Circumference enumeration).
func (g *Grid) Set(p geom.Point, c Cell) {
	i, ok := g.index(p)
	if !ok {
		panic("gridmodel: Set on out-of-range point")
	}
	g.cells[i] = c
}

// Circle returns every in-bounds point within taxicab distance r of center.
func (g *Grid) Circle(center geom.Point, r int) []geom.Point {
	return geom.Circle(center, r, g.size)
}

// Circumference returns every in-bounds point at taxicab distance exactly r.
func (g *Grid) Circumference(center geom.Point, r int) []geom.Point {
	return geom.Circumference(center, r, g.size)
}

// Surroundings returns the up-to-5 in-bounds points within distance 1 of p.
func (g *Grid) Surroundings(p geom.Point) []geom.Point {
	return geom.Surroundings(p, g.size)
}

// Snapshot returns a copy of every cell in row-major order, safe to read
// without further synchronization.
func (g *Grid) Snapshot() []Cell {
	out := make([]Cell, len(g.cells))
	copy(out, g.cells)
	return out
}

// TwoMut returns exclusive pointers to the cells at a and b. It panics if a
// and b coincide or either is out of range, enforcing the invariant that
// callers never alias the same cell through two references.
func (g *Grid) TwoMut(a, b geom.Point) (*Cell, *Cell) {
	ia, ok := g.index(a)
	if !ok {
		panic("gridmodel: TwoMut on out-of-range point")
	}
	ib, ok := g.index(b)
	if !ok {
		panic("gridmodel: TwoMut on out-of-range point")
	}
	if ia == ib {
		panic("gridmodel: TwoMut called with coinciding points")
	}
	return &g.cells[ia], &g.cells[ib]
}

// ThreeMut returns exclusive pointers to the cells at a, b and c. It panics
// if any two coincide or any is out of range.
func (g *Grid) ThreeMut(a, b, c geom.Point) (*Cell, *Cell, *Cell) {
	ia, ok := g.index(a)
	if !ok {
		panic("gridmodel: ThreeMut on out-of-range point")
	}
	ib, ok := g.index(b)
	if !ok {
		panic("gridmodel: ThreeMut on out-of-range point")
	}
	ic, ok := g.index(c)
	if !ok {
		panic("gridmodel: ThreeMut on out-of-range point")
	}
	if ia == ib || ib == ic || ia == ic {
		panic("gridmodel: ThreeMut called with coinciding points")
	}
	return &g.cells[ia], &g.cells[ib], &g.cells[ic]
}

// ForEach calls fn for every cell in row-major order, stopping early if fn
// returns false.
func (g *Grid) ForEach(fn func(p geom.Point, c Cell) bool) {
	for y := 0; y < g.size; y++ {
		for x := 0; x < g.size; x++ {
			if !fn(geom.Point{X: x, Y: y}, g.cells[y*g.size+x]) {
				return
			}
		}
	}
}
