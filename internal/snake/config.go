// Package snake implements the emergent multi-segment snake subsystem of
// spec.md §4.7: snake individuals exist only as chains of cell-local
// Head/Body links, reconstructed fresh every tick in five phases (index,
// extract, spawn, per-snake decision, commit).
package snake

import (
	"time"

	"github.com/sitegui/nature-pixel/internal/config"
	"github.com/sitegui/nature-pixel/internal/gridmodel"
)

// SpeciesTuning holds one species' max_size/move_ratio pair.
type SpeciesTuning struct {
	MaxSize   int
	MoveRatio float64
}

// Tuning holds every snake-engine dial from spec.md §6.
type Tuning struct {
	Tick            time.Duration
	MinSize         int
	EatingRadius    int
	StarvationDelay time.Duration
	Species         map[gridmodel.SnakeSpecies]SpeciesTuning
}

// NewTuning builds a Tuning from the snake config block.
func NewTuning(cfg config.SnakeConfig) Tuning {
	return Tuning{
		Tick:            time.Duration(cfg.TickSeconds * float64(time.Second)),
		MinSize:         cfg.MinSize,
		EatingRadius:    cfg.EatingRadius,
		StarvationDelay: time.Duration(cfg.StarvationDelaySeconds * float64(time.Second)),
		Species: map[gridmodel.SnakeSpecies]SpeciesTuning{
			gridmodel.SnakeA: {MaxSize: cfg.A.MaxSize, MoveRatio: cfg.A.MoveRatio},
			gridmodel.SnakeB: {MaxSize: cfg.B.MaxSize, MoveRatio: cfg.B.MoveRatio},
			gridmodel.SnakeC: {MaxSize: cfg.C.MaxSize, MoveRatio: cfg.C.MoveRatio},
		},
	}
}

func (t Tuning) maxSize(s gridmodel.SnakeSpecies) int { return t.Species[s].MaxSize }

func (t Tuning) moveRatio(s gridmodel.SnakeSpecies) float64 { return t.Species[s].MoveRatio }
