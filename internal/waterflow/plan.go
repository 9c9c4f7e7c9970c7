// Package waterflow implements the water-flow planner and ticker of
// spec.md §4.3/§4.4: a per-cell downhill priority list precomputed once at
// bootstrap from the immutable height field, and a ticker that performs a
// bounded donor->recipient transfer per source cell each tick, respecting
// a minimum fall and a once-per-tick in-degree limit.
package waterflow

import (
	"sort"

	"github.com/sitegui/nature-pixel/internal/geom"
	"github.com/sitegui/nature-pixel/internal/gridmodel"
)

// Plan is the immutable per-cell downhill target priority list.
type Plan struct {
	size      int
	targets   map[geom.Point][]geom.Point
	heights   map[geom.Point]int
	thickness int
}

// BuildPlan precomputes, for every cell in grid, the ordered list of
// candidate downhill targets within maxRadius, per spec.md §4.3: fall(s,t)
// = height(s) - height(t); candidates with fall > -thickness are retained
// (water may flood one "thickness" uphill); the survivors are ordered by
// (distance ascending, target height ascending).
func BuildPlan(grid *gridmodel.Grid, maxRadius, thickness int) *Plan {
	size := grid.Size()
	heights := make(map[geom.Point]int, size*size)
	grid.ForEach(func(p geom.Point, c gridmodel.Cell) bool {
		heights[p] = int(c.Height)
		return true
	})

	targets := make(map[geom.Point][]geom.Point, size*size)
	grid.ForEach(func(s geom.Point, c gridmodel.Cell) bool {
		candidates := grid.Circle(s, maxRadius)
		kept := make([]geom.Point, 0, len(candidates))
		for _, t := range candidates {
			if t == s {
				continue
			}
			fall := heights[s] - heights[t]
			if fall > -thickness {
				kept = append(kept, t)
			}
		}
		sort.Slice(kept, func(i, j int) bool {
			di, dj := geom.Distance(s, kept[i]), geom.Distance(s, kept[j])
			if di != dj {
				return di < dj
			}
			return heights[kept[i]] < heights[kept[j]]
		})
		targets[s] = kept
		return true
	})

	return &Plan{size: size, targets: targets, heights: heights, thickness: thickness}
}

// TargetsFor returns the precomputed, ordered candidate list for source s.
func (p *Plan) TargetsFor(s geom.Point) []geom.Point {
	return p.targets[s]
}

// Fall returns height(s) - height(t) using the immutable heights recorded
// at plan time.
func (p *Plan) Fall(s, t geom.Point) int {
	return p.heights[s] - p.heights[t]
}

// minFall implements the min_fall table of spec.md §4.4. drierTo is the
// water level s settles into after stepping drier; wetterTo is the water
// level t settles into after stepping wetter. Higher-energy transfers
// (draining a Deep source, filling a target all the way to Deep) require a
// correspondingly different minimum head.
func minFall(drierTo, wetterTo gridmodel.Water, thickness int) int {
	if drierTo == gridmodel.WaterEmpty {
		// s was Shallow, draining to Empty.
		if wetterTo == gridmodel.WaterShallow {
			return 0
		}
		return thickness
	}
	// s was Deep, draining to Shallow.
	if wetterTo == gridmodel.WaterShallow {
		return -thickness
	}
	return 0
}
