package waterflow

import (
	"time"

	channerics "github.com/niceyeti/channerics/channels"
	"github.com/sitegui/nature-pixel/internal/geom"
	"github.com/sitegui/nature-pixel/internal/gridmodel"
	"github.com/sitegui/nature-pixel/internal/world"
)

// Ticker drives the per-tick water-flow transfers against a precomputed Plan.
type Ticker struct {
	plan      *Plan
	tick      time.Duration
	thickness int
}

// NewTicker builds a ticker from a bootstrap-time Plan.
func NewTicker(plan *Plan, tick time.Duration, thickness int) *Ticker {
	return &Ticker{plan: plan, tick: tick, thickness: thickness}
}

// Run loops Tick every configured interval until done is closed. The sleep
// between ticks is the only suspension point; the tick body itself runs
// entirely inside a single write-lock commit and never yields.
func (t *Ticker) Run(w *world.World, done <-chan struct{}) {
	for range channerics.NewTicker(done, t.tick) {
		t.Tick(w)
	}
}

// Tick performs one water-flow pass: for every source cell in grid order
// that has not already received water this tick, attempt exactly one
// transfer to the first legal target in its priority list.
func (t *Ticker) Tick(w *world.World) {
	w.Commit("waterflow", func(g *gridmodel.Grid) bool {
		received := make(map[geom.Point]bool, g.Size())
		changed := false

		g.ForEach(func(s geom.Point, sourceCell gridmodel.Cell) bool {
			if received[s] {
				return true
			}
			drierTo, canStepDrier := sourceCell.Water.Drier()
			if !canStepDrier {
				return true
			}

			for _, target := range t.plan.TargetsFor(s) {
				targetCell, ok := g.At(target)
				if !ok {
					continue
				}
				wetterTo, canStepWetter := targetCell.Water.Wetter()
				if !canStepWetter {
					continue
				}
				if t.plan.Fall(s, target) <= minFall(drierTo, wetterTo, t.thickness) {
					continue
				}

				sourcePtr, targetPtr := g.TwoMut(s, target)
				sourcePtr.Water = drierTo
				targetPtr.Water = wetterTo
				received[target] = true
				changed = true
				break
			}
			return true
		})

		return changed
	})
}
