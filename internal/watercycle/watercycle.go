// Package watercycle implements the atmospheric water-cycle ticker of
// spec.md §4.5: an integer reservoir that alternates rain and evaporation
// phases, each computing a per-tick ratio that makes the cumulative
// probability converge to the configured target regardless of how the
// cycle happens to be discretized into ticks.
//
// Grounded closely on _examples/original_source/src/ecosystem/water_cycle.rs,
// including its own circle() helper and unit test table.
package watercycle

import (
	"math"
	"math/rand"
	"time"

	"github.com/sitegui/nature-pixel/internal/geom"
	"github.com/sitegui/nature-pixel/internal/gridmodel"
	"github.com/sitegui/nature-pixel/internal/world"
)

// Config holds the water-cycle tunables, mirroring spec.md §6's water keys.
type Config struct {
	MinCycle          time.Duration
	MaxCycle          time.Duration
	EvaporationRatio  float64
	EvaporationTick   time.Duration
	RainRatio         float64
	RainTick          time.Duration
	MaxRainRadius     int
	InAtmosphereRatio float64
}

// Ticker drives the rain/evaporation loop against an integer atmospheric
// reservoir, task-local per spec.md §5's "shared resources" rule.
type Ticker struct {
	cfg              Config
	rng              *rand.Rand
	atmosphereWater  int
}

// NewTicker seeds the atmospheric reservoir to round(ratio * size^2) and
// returns a ready-to-run ticker.
func NewTicker(cfg Config, size int, rng *rand.Rand) *Ticker {
	atmosphere := int(math.Round(cfg.InAtmosphereRatio * float64(size*size)))
	return &Ticker{cfg: cfg, rng: rng, atmosphereWater: atmosphere}
}

// Run alternates rain and evaporation forever until done is closed. Each
// phase sleeps between sub-ticks; no sleep happens while the world lock is
// held, since every sub-tick's Commit call is synchronous.
func (t *Ticker) Run(w *world.World, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		default:
		}
		if !t.rain(w, done) {
			return
		}
		if !t.evaporate(w, done) {
			return
		}
	}
}

func (t *Ticker) cycleDuration() time.Duration {
	span := int64(t.cfg.MaxCycle - t.cfg.MinCycle)
	if span <= 0 {
		return t.cfg.MinCycle
	}
	return t.cfg.MinCycle + time.Duration(t.rng.Int63n(span+1))
}

func ratioPerTick(overall float64, numTicks int) float64 {
	return 1 - math.Pow(1-overall, 1/float64(numTicks))
}

func numSubTicks(cycle, subTick time.Duration) int {
	n := int(math.Ceil(float64(cycle) / float64(subTick)))
	if n < 1 {
		n = 1
	}
	return n
}

// rain runs one rain phase to completion. It returns false if done fired
// mid-phase, signaling the caller to stop.
func (t *Ticker) rain(w *world.World, done <-chan struct{}) bool {
	numTicks := numSubTicks(t.cycleDuration(), t.cfg.RainTick)
	ratio := ratioPerTick(t.cfg.RainRatio, numTicks)

	for i := 0; i < numTicks; i++ {
		size := w.Size()
		center := geom.Point{X: t.rng.Intn(size), Y: t.rng.Intn(size)}
		remaining := int(math.Ceil(float64(t.atmosphereWater) * ratio))

		w.Commit("watercycle-rain", func(g *gridmodel.Grid) bool {
			changed := false
			for radius := 0; remaining > 0 && radius <= t.cfg.MaxRainRadius; radius++ {
				candidates := circle(center, radius, size)
				t.rng.Shuffle(len(candidates), func(i, j int) {
					candidates[i], candidates[j] = candidates[j], candidates[i]
				})
				for _, p := range candidates {
					if remaining <= 0 {
						break
					}
					cell, ok := g.At(p)
					if !ok {
						continue
					}
					wetter, ok := cell.Water.Wetter()
					if !ok {
						continue
					}
					cell.Water = wetter
					g.Set(p, cell)
					remaining--
					t.atmosphereWater--
					changed = true
				}
			}
			return changed
		})

		if !sleepOrDone(t.cfg.RainTick, done) {
			return false
		}
	}
	return true
}

// evaporate runs one evaporation phase to completion.
func (t *Ticker) evaporate(w *world.World, done <-chan struct{}) bool {
	numTicks := numSubTicks(t.cycleDuration(), t.cfg.EvaporationTick)
	ratio := ratioPerTick(t.cfg.EvaporationRatio, numTicks)

	for i := 0; i < numTicks; i++ {
		w.Commit("watercycle-evaporate", func(g *gridmodel.Grid) bool {
			changed := false
			g.ForEach(func(p geom.Point, cell gridmodel.Cell) bool {
				drier, ok := cell.Water.Drier()
				if !ok {
					return true
				}
				if t.rng.Float64() >= ratio {
					return true
				}
				cell.Water = drier
				g.Set(p, cell)
				t.atmosphereWater++
				changed = true
				return true
			})
			return changed
		})

		if !sleepOrDone(t.cfg.EvaporationTick, done) {
			return false
		}
	}
	return true
}

func sleepOrDone(d time.Duration, done <-chan struct{}) bool {
	select {
	case <-done:
		return false
	case <-time.After(d):
		return true
	}
}

// circle enumerates every point at taxicab distance exactly radius from
// center, clamped to a size x size grid. Ported directly from
// _examples/original_source/src/ecosystem/water_cycle.rs's own circle()
// helper (duplicated there rather than sharing Point::circumference).
func circle(center geom.Point, radius, size int) []geom.Point {
	if radius == 0 {
		if center.X >= 0 && center.X < size && center.Y >= 0 && center.Y < size {
			return []geom.Point{center}
		}
		return nil
	}

	points := make([]geom.Point, 0, 4*radius)
	maybePush := func(x, y int) {
		if x >= 0 && x < size && y >= 0 && y < size {
			points = append(points, geom.Point{X: x, Y: y})
		}
	}

	maybePush(center.X-radius, center.Y)
	maybePush(center.X+radius, center.Y)
	for dx := -radius + 1; dx < radius; dx++ {
		dy := radius - absInt(dx)
		maybePush(center.X+dx, center.Y+dy)
		maybePush(center.X+dx, center.Y-dy)
	}
	return points
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
