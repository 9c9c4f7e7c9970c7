package amphibian

import (
	"testing"
	"time"

	"github.com/sitegui/nature-pixel/internal/config"
	"github.com/sitegui/nature-pixel/internal/geom"
	"github.com/sitegui/nature-pixel/internal/gridmodel"
)

func TestIsFoodGoalOnlyMatchesLiveInsect(t *testing.T) {
	k := New(config.Default().Amphibian)
	if !k.IsFoodGoal(gridmodel.Cell{Animal: gridmodel.Animal{Kind: gridmodel.AnimalInsect}}) {
		t.Fatal("expected a live insect to be a food goal")
	}
	if k.IsFoodGoal(gridmodel.Cell{Animal: gridmodel.Animal{Kind: gridmodel.AnimalDead}}) {
		t.Fatal("dead matter must not be amphibian food")
	}
}

func TestIsMatingGroundGoalRequiresWater(t *testing.T) {
	k := New(config.Default().Amphibian)
	if k.IsMatingGroundGoal(gridmodel.Cell{Water: gridmodel.WaterEmpty}) {
		t.Fatal("dry cell must not be a mating ground")
	}
	if !k.IsMatingGroundGoal(gridmodel.Cell{Water: gridmodel.WaterShallow}) {
		t.Fatal("any water must be a mating ground")
	}
}

func TestWalkCandidatesIncludesTwoStepHop(t *testing.T) {
	k := New(config.Default().Amphibian)
	pos := geom.Point{X: 5, Y: 5}
	cands := k.WalkCandidates(pos, geom.East)
	if len(cands) != 4 {
		t.Fatalf("expected 4 walk candidates, got %d", len(cands))
	}
	want := geom.Point{X: 7, Y: 5}
	found := false
	for _, c := range cands {
		if c.Target == want {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a two-step-forward candidate at %v", want)
	}
}
