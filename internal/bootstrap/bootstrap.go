// Package bootstrap decodes a grayscale height-map image into per-cell
// heights, constructs the initial empty grid, wraps it in a world, and
// spawns every ticker against it.
package bootstrap

import (
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"time"

	"github.com/sitegui/nature-pixel/internal/amphibian"
	"github.com/sitegui/nature-pixel/internal/apierr"
	"github.com/sitegui/nature-pixel/internal/config"
	"github.com/sitegui/nature-pixel/internal/gridmodel"
	"github.com/sitegui/nature-pixel/internal/insect"
	"github.com/sitegui/nature-pixel/internal/simpleanimal"
	"github.com/sitegui/nature-pixel/internal/snake"
	"github.com/sitegui/nature-pixel/internal/waterflow"
	"github.com/sitegui/nature-pixel/internal/watercycle"
	"github.com/sitegui/nature-pixel/internal/world"
)

// LoadHeightMap opens the grayscale PNG at path, requires it to be exactly
// size x size, and returns its luma channel normalized so the darkest
// pixel maps to height 0 and the brightest to height 255.
func LoadHeightMap(path string, size int) ([]uint8, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &apierr.ConfigLoadError{Cause: err}
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, &apierr.ConfigLoadError{Cause: err}
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width != size || height != size {
		return nil, &apierr.HeightMapMismatch{Expected: size, ActualWidth: width, ActualHeight: height}
	}

	raw := make([]uint8, size*size)
	minLuma, maxLuma := uint8(255), uint8(0)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			gray := toLuma(img.At(bounds.Min.X+x, bounds.Min.Y+y))
			raw[y*size+x] = gray
			if gray < minLuma {
				minLuma = gray
			}
			if gray > maxLuma {
				maxLuma = gray
			}
		}
	}

	span := int(maxLuma) - int(minLuma)
	heights := make([]uint8, size*size)
	for i, gray := range raw {
		if span == 0 {
			heights[i] = 0
			continue
		}
		heights[i] = uint8((int(gray) - int(minLuma)) * 255 / span)
	}

	return heights, nil
}

// toLuma reduces an arbitrary pixel to an 8-bit grayscale intensity using
// the standard library's luma-weighted gray model.
func toLuma(c color.Color) uint8 {
	return color.GrayModel.Convert(c).(color.Gray).Y
}

// World bundles the live world together with every goroutine-spawning
// ticker it owns, so a caller can stop everything by closing Done.
type World struct {
	World *world.World
	Done  chan struct{}
}

// New loads the configured height map, builds an empty grid of the right
// size, wraps it in a world, and spawns the water-flow, water-cycle,
// insect, amphibian and snake tickers as goroutines. Stop by closing the
// returned Done channel.
func New(cfg *config.Config) (*World, error) {
	heights, err := LoadHeightMap(cfg.HeightMap, cfg.MapSize)
	if err != nil {
		return nil, err
	}

	grid := gridmodel.NewGrid(cfg.MapSize, heights)
	w := world.New(grid)
	done := make(chan struct{})

	plan := waterflow.BuildPlan(grid, cfg.Water.FlowMaxRadius, cfg.Water.Thickness)
	flowTicker := waterflow.NewTicker(plan, secondsToDuration(cfg.Water.FlowTickSeconds), cfg.Water.Thickness)
	go flowTicker.Run(w, done)

	cycleTicker := watercycle.NewTicker(watercycle.Config{
		MinCycle:          secondsToDuration(cfg.Water.MinCycleSeconds),
		MaxCycle:          secondsToDuration(cfg.Water.MaxCycleSeconds),
		EvaporationRatio:  cfg.Water.EvaporationRatio,
		EvaporationTick:   secondsToDuration(cfg.Water.EvaporationTickSeconds),
		RainRatio:         cfg.Water.RainRatio,
		RainTick:          secondsToDuration(cfg.Water.RainTickSeconds),
		MaxRainRadius:     cfg.Water.MaxRainRadius,
		InAtmosphereRatio: cfg.Water.InAtmosphereRatio,
	}, cfg.MapSize, newRNG())
	go cycleTicker.Run(w, done)

	insectEngine := simpleanimal.NewEngine(insect.New(cfg.Insect), newRNG())
	go insectEngine.Run(w, "insect", done)

	amphibianEngine := simpleanimal.NewEngine(amphibian.New(cfg.Amphibian), newRNG())
	go amphibianEngine.Run(w, "amphibian", done)

	snakeEngine := snake.NewEngine(snake.NewTuning(cfg.Snake), newRNG())
	go snakeEngine.Run(w, "snake", done)

	return &World{World: w, Done: done}, nil
}

// Stop closes Done, signaling every spawned ticker to exit at its next
// suspension point.
func (b *World) Stop() {
	close(b.Done)
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func newRNG() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
