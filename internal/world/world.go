// Package world holds the single shared authoritative grid: every ticker
// and the HTTP edge read and mutate it through the same lock discipline —
// plan under a read lock, commit under a brief write lock, then advance the
// version id and wake long-pollers.
package world

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/sitegui/nature-pixel/internal/geom"
	"github.com/sitegui/nature-pixel/internal/gridmodel"
	"github.com/sitegui/nature-pixel/internal/locktrack"
)

// World is the shared state: a grid, a monotonic version id, and a change
// signal that wakes everyone blocked in WaitForChange.
type World struct {
	lock *locktrack.Lock
	grid *gridmodel.Grid

	versionMu sync.Mutex
	versionID uint64
	changed   chan struct{}
}

// New wraps grid in a fresh World with version id 0.
func New(grid *gridmodel.Grid) *World {
	return &World{
		lock:    locktrack.New(),
		grid:    grid,
		changed: make(chan struct{}),
	}
}

// Size returns the grid's side length.
func (w *World) Size() int { return w.grid.Size() }

// VersionID returns the opaque, strictly-increasing current version token.
func (w *World) VersionID() string {
	w.versionMu.Lock()
	defer w.versionMu.Unlock()
	return strconv.FormatUint(w.versionID, 10)
}

// Snapshot is a read-only view of the entire world at one version.
type Snapshot struct {
	VersionID string
	Size      int
	Cells     []gridmodel.Cell // row-major
}

// ReadSnapshot takes a read lock, named caller, and returns a consistent
// snapshot of the whole grid and current version.
func (w *World) ReadSnapshot(caller string) Snapshot {
	unlock := w.lock.RLock(caller)
	defer unlock()

	w.versionMu.Lock()
	version := w.versionID
	w.versionMu.Unlock()

	return Snapshot{
		VersionID: strconv.FormatUint(version, 10),
		Size:      w.grid.Size(),
		Cells:     w.grid.Snapshot(),
	}
}

// WaitForChange blocks, up to timeout, until the version id differs from
// lastVersionID, then returns a fresh snapshot. It never holds the world
// lock while suspended: it takes the read lock only to check/build the
// snapshot, releasing it before awaiting the change signal.
func (w *World) WaitForChange(caller, lastVersionID string, timeout time.Duration) Snapshot {
	snap := w.ReadSnapshot(caller)
	if snap.VersionID != lastVersionID {
		return snap
	}

	w.versionMu.Lock()
	ch := w.changed
	w.versionMu.Unlock()

	select {
	case <-ch:
	case <-time.After(timeout):
	}

	return w.ReadSnapshot(caller)
}

// Plan executes fn under a read lock named caller and returns its result.
// Tickers use this to compute a batch of proposed changes without blocking
// other readers.
func Plan[T any](w *World, caller string, fn func(g *gridmodel.Grid) T) T {
	unlock := w.lock.RLock(caller)
	defer unlock()
	return fn(w.grid)
}

// Commit executes fn under the write lock named caller. fn must return
// whether it actually mutated the grid; if so, the version id advances and
// every WaitForChange waiter is released. fn must not suspend.
func (w *World) Commit(caller string, fn func(g *gridmodel.Grid) bool) {
	unlock := w.lock.Lock(caller)
	changed := fn(w.grid)
	unlock()

	if !changed {
		return
	}

	w.versionMu.Lock()
	w.versionID++
	ch := w.changed
	w.changed = make(chan struct{})
	w.versionMu.Unlock()
	close(ch)
}

// Paint applies a single-cell paint request under the write lock, returning
// the new version id.
func (w *World) Paint(x, y int, colorIndex gridmodel.ColorIndex, nowNanos int64) (string, error) {
	p := geom.Point{X: x, Y: y}
	if !w.grid.InBounds(p) {
		return "", fmt.Errorf("coordinate (%d,%d) is out of range", x, y)
	}
	if !gridmodel.IsPaintable(colorIndex) {
		return "", fmt.Errorf("color index %d is not paintable", colorIndex)
	}

	var paintErr error
	w.Commit("api", func(g *gridmodel.Grid) bool {
		cell, ok := g.At(p)
		if !ok {
			paintErr = fmt.Errorf("coordinate (%d,%d) is out of range", x, y)
			return false
		}
		painted, err := cell.Paint(colorIndex, nowNanos)
		if err != nil {
			paintErr = err
			return false
		}
		g.Set(p, painted)
		return true
	})
	if paintErr != nil {
		return "", paintErr
	}
	return w.VersionID(), nil
}

// LockStats returns a point-in-time snapshot of lock contention telemetry.
func (w *World) LockStats() locktrack.Snapshot {
	return w.lock.Stats()
}
