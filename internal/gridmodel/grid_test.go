package gridmodel

import (
	"testing"

	"github.com/sitegui/nature-pixel/internal/geom"
)

func TestTwoMutPanicsOnCoincidingPoints(t *testing.T) {
	g := NewGrid(3, make([]uint8, 9))
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for coinciding points")
		}
	}()
	g.TwoMut(geom.Point{X: 1, Y: 1}, geom.Point{X: 1, Y: 1})
}

func TestThreeMutPanicsOnCoincidingPoints(t *testing.T) {
	g := NewGrid(3, make([]uint8, 9))
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for coinciding points")
		}
	}()
	g.ThreeMut(geom.Point{X: 0, Y: 0}, geom.Point{X: 1, Y: 1}, geom.Point{X: 0, Y: 0})
}

func TestTwoMutAllowsIndependentMutation(t *testing.T) {
	g := NewGrid(3, make([]uint8, 9))
	a, b := g.TwoMut(geom.Point{X: 0, Y: 0}, geom.Point{X: 1, Y: 0})
	a.Water = WaterShallow
	b.Water = WaterDeep

	ca, _ := g.At(geom.Point{X: 0, Y: 0})
	cb, _ := g.At(geom.Point{X: 1, Y: 0})
	if ca.Water != WaterShallow || cb.Water != WaterDeep {
		t.Fatalf("mutations through TwoMut did not persist: %v %v", ca, cb)
	}
}

func TestColorProjectionPrecedence(t *testing.T) {
	c := Cell{
		Animal: Animal{Kind: AnimalInsect},
		Water:  WaterDeep,
		Grass:  GrassHigh,
	}
	if got := c.Color(); got != ColorInsect {
		t.Errorf("animal should take precedence over water/grass, got %v", got)
	}

	c.Animal = Empty
	if got := c.Color(); got != ColorDeepWater {
		t.Errorf("water should take precedence over grass, got %v", got)
	}

	c.Water = WaterEmpty
	if got := c.Color(); got != ColorHighGrass {
		t.Errorf("expected grass color, got %v", got)
	}

	c.Grass = GrassEmpty
	if got := c.Color(); got != ColorEmpty {
		t.Errorf("expected empty color, got %v", got)
	}
}

func TestColorProjectionIsTotal(t *testing.T) {
	// Every reachable animal/water/grass combination must map to some
	// in-palette color without panicking.
	for animalKind := AnimalNone; animalKind <= AnimalDead; animalKind++ {
		for water := WaterEmpty; water <= WaterDeep; water++ {
			for grass := GrassEmpty; grass <= GrassHigh; grass++ {
				c := Cell{Animal: Animal{Kind: animalKind}, Water: water, Grass: grass}
				idx := c.Color()
				if int(idx) < 0 || int(idx) >= len(Palette) {
					t.Fatalf("color index %d out of palette range for %+v", idx, c)
				}
			}
		}
	}
}

func TestPaintEmptyClearsAllLayers(t *testing.T) {
	c := Cell{
		Animal: Animal{Kind: AnimalInsect},
		Water:  WaterDeep,
		Grass:  GrassHigh,
		Height: 200,
	}
	painted, err := c.Paint(ColorEmpty, 0)
	if err != nil {
		t.Fatal(err)
	}
	if painted.Color() != ColorEmpty {
		t.Errorf("expected empty color after painting empty, got %v", painted.Color())
	}
	if painted.Height != 200 {
		t.Errorf("painting must not touch height, got %d", painted.Height)
	}
}

func TestPaintWaterOnlyTouchesWaterLayer(t *testing.T) {
	c := Cell{Animal: Animal{Kind: AnimalInsect}, Grass: GrassHigh}
	painted, err := c.Paint(ColorShallowWater, 0)
	if err != nil {
		t.Fatal(err)
	}
	if painted.Water != WaterShallow {
		t.Errorf("expected shallow water, got %v", painted.Water)
	}
	if painted.Animal.Kind != AnimalInsect {
		t.Errorf("painting water must not clear the animal layer, got %v", painted.Animal.Kind)
	}
	if painted.Grass != GrassHigh {
		t.Errorf("painting water must not clear the grass layer, got %v", painted.Grass)
	}
}

func TestPaintRejectsNonPaintableColor(t *testing.T) {
	c := Cell{}
	if _, err := c.Paint(ColorDeadMatter, 0); err == nil {
		t.Fatal("expected error painting a non-paintable color")
	}
}

func TestPaintThenReadRoundTrips(t *testing.T) {
	for _, idx := range AvailableColors {
		c := Cell{}
		painted, err := c.Paint(idx, 0)
		if err != nil {
			t.Fatalf("paint(%v): %v", idx, err)
		}
		if painted.Color() != idx {
			t.Errorf("painting %v then reading color gave %v", idx, painted.Color())
		}
	}
}
