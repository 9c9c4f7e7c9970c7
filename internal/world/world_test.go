package world

import (
	"testing"
	"time"

	"github.com/sitegui/nature-pixel/internal/geom"
	"github.com/sitegui/nature-pixel/internal/gridmodel"
)

func newTestWorld(size int) *World {
	return New(gridmodel.NewGrid(size, make([]uint8, size*size)))
}

func TestVersionAdvancesOnlyWhenCommitMutates(t *testing.T) {
	w := newTestWorld(3)
	before := w.VersionID()

	w.Commit("test", func(g *gridmodel.Grid) bool {
		return false
	})
	if w.VersionID() != before {
		t.Fatalf("version advanced on a no-op commit: %s -> %s", before, w.VersionID())
	}

	w.Commit("test", func(g *gridmodel.Grid) bool {
		g.Set(geom.Point{X: 0, Y: 0}, gridmodel.Cell{Water: gridmodel.WaterShallow})
		return true
	})
	if w.VersionID() == before {
		t.Fatalf("version did not advance after a mutating commit")
	}
}

func TestVersionNeverRepeatsAcrossCommits(t *testing.T) {
	w := newTestWorld(3)
	seen := map[string]bool{}
	seen[w.VersionID()] = true

	for i := 0; i < 20; i++ {
		w.Commit("test", func(g *gridmodel.Grid) bool { return true })
		v := w.VersionID()
		if seen[v] {
			t.Fatalf("version id %s repeated", v)
		}
		seen[v] = true
	}
}

func TestWaitForChangeReturnsImmediatelyOnStaleVersion(t *testing.T) {
	w := newTestWorld(3)
	snap := w.WaitForChange("test", "not-the-current-version", time.Second)
	if snap.VersionID != w.VersionID() {
		t.Fatalf("expected current version, got %s", snap.VersionID)
	}
}

func TestWaitForChangeWakesOnCommit(t *testing.T) {
	w := newTestWorld(3)
	current := w.VersionID()

	done := make(chan Snapshot, 1)
	go func() {
		done <- w.WaitForChange("test", current, 2*time.Second)
	}()

	time.Sleep(20 * time.Millisecond)
	w.Commit("test", func(g *gridmodel.Grid) bool { return true })

	select {
	case snap := <-done:
		if snap.VersionID == current {
			t.Fatalf("WaitForChange returned stale version")
		}
	case <-time.After(time.Second):
		t.Fatal("WaitForChange did not wake on commit")
	}
}

func TestWaitForChangeTimesOut(t *testing.T) {
	w := newTestWorld(3)
	current := w.VersionID()

	start := time.Now()
	snap := w.WaitForChange("test", current, 50*time.Millisecond)
	if time.Since(start) < 50*time.Millisecond {
		t.Fatalf("WaitForChange returned before the timeout elapsed")
	}
	if snap.VersionID != current {
		t.Fatalf("expected unchanged version on timeout, got %s vs %s", snap.VersionID, current)
	}
}

func TestPaintRejectsOutOfRangeCoordinate(t *testing.T) {
	w := newTestWorld(3)
	if _, err := w.Paint(10, 10, gridmodel.ColorEmpty, 0); err == nil {
		t.Fatal("expected error for out-of-range coordinate")
	}
}

func TestPaintRejectsNonPaintableColor(t *testing.T) {
	w := newTestWorld(3)
	if _, err := w.Paint(1, 1, gridmodel.ColorDeadMatter, 0); err == nil {
		t.Fatal("expected error for non-paintable color")
	}
}

func TestPaintThenSnapshotReflectsColor(t *testing.T) {
	w := newTestWorld(3)
	if _, err := w.Paint(1, 1, gridmodel.ColorShallowWater, 0); err != nil {
		t.Fatal(err)
	}
	snap := w.ReadSnapshot("test")
	cell := snap.Cells[1*3+1]
	if cell.Color() != gridmodel.ColorShallowWater {
		t.Fatalf("expected shallow water at (1,1), got %v", cell.Color())
	}
}
