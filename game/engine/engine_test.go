package engine

import (
	"errors"
	"testing"
	"time"
)

// fakeClock is a manually advanced time source
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestEngine(t *testing.T, disks int) (*GameEngine, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	e := NewEngine(WithClock(clock.Now))
	if err := e.NewGame(disks); err != nil {
		t.Fatalf("NewGame(%d) failed: %v", disks, err)
	}
	return e, clock
}

func TestNewEngine(t *testing.T) {
	e := NewEngine()
	if e == nil {
		t.Fatal("Expected engine to be non-nil")
	}

	if e.Status() != StatusNotStarted {
		t.Errorf("Expected status %s, got %s", StatusNotStarted, e.Status())
	}
	if e.IsComplete() {
		t.Error("Expected engine without a game not to be complete")
	}
	if e.Elapsed() != 0 {
		t.Errorf("Expected zero elapsed before a game, got %v", e.Elapsed())
	}
	if e.ToggleSelect() {
		t.Error("Expected pick up to fail before a game")
	}
}

func TestNewGame_InitialLayout(t *testing.T) {
	for n := MinDisks; n <= MaxDisks; n++ {
		e, _ := newTestEngine(t, n)
		towers := e.Towers()

		if len(towers[0]) != n {
			t.Fatalf("N=%d: expected %d disks on tower 0, got %d", n, n, len(towers[0]))
		}
		for i, d := range towers[0] {
			if d.Size() != n-i {
				t.Errorf("N=%d: position %d expected size %d, got %d", n, i, n-i, d.Size())
			}
		}
		if len(towers[1]) != 0 || len(towers[2]) != 0 {
			t.Errorf("N=%d: expected towers 1 and 2 empty, got %d and %d", n, len(towers[1]), len(towers[2]))
		}
		if e.DiskCount() != n {
			t.Errorf("N=%d: expected disk count %d, got %d", n, n, e.DiskCount())
		}
		if e.MoveCount() != 0 {
			t.Errorf("N=%d: expected move count 0, got %d", n, e.MoveCount())
		}
		if e.Cursor() != 0 {
			t.Errorf("N=%d: expected cursor 0, got %d", n, e.Cursor())
		}
		if _, held := e.Selected(); held {
			t.Errorf("N=%d: expected no selection", n)
		}
		if e.IsQuit() {
			t.Errorf("N=%d: expected quit flag cleared", n)
		}
		if e.IsComplete() {
			t.Errorf("N=%d: expected fresh game not to be complete", n)
		}
		if e.Status() != StatusInProgress {
			t.Errorf("N=%d: expected status %s, got %s", n, StatusInProgress, e.Status())
		}
	}
}

func TestNewGame_OutOfRange(t *testing.T) {
	e, _ := newTestEngine(t, 5)
	e.MoveCursorRight()
	if _, err := e.TryMoveDisk(0, 2); err != nil {
		t.Fatalf("TryMoveDisk failed: %v", err)
	}
	before := e.State()

	for _, n := range []int{2, 10, 0, -1} {
		err := e.NewGame(n)
		if !errors.Is(err, ErrDiskCountOutOfRange) {
			t.Errorf("NewGame(%d): expected ErrDiskCountOutOfRange, got %v", n, err)
		}
	}

	after := e.State()
	if after.DiskCount != before.DiskCount || after.MoveCount != before.MoveCount || after.Cursor != before.Cursor {
		t.Errorf("Expected failed NewGame not to mutate state: before %+v, after %+v", before, after)
	}
	for i := range before.Towers {
		if len(after.Towers[i]) != len(before.Towers[i]) {
			t.Errorf("Tower %d changed from %v to %v", i, before.Towers[i], after.Towers[i])
		}
	}
}

func TestNewGame_ResetsEverything(t *testing.T) {
	e, clock := newTestEngine(t, 3)

	if _, err := e.TryMoveDisk(0, 1); err != nil {
		t.Fatal(err)
	}
	e.ToggleSelect()
	clock.Advance(5 * time.Second)
	e.Quit()

	if err := e.NewGame(4); err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}

	if e.MoveCount() != 0 {
		t.Errorf("Expected move count reset, got %d", e.MoveCount())
	}
	if e.Cursor() != 0 {
		t.Errorf("Expected cursor reset, got %d", e.Cursor())
	}
	if _, held := e.Selected(); held {
		t.Error("Expected selection cleared")
	}
	if e.IsQuit() {
		t.Error("Expected quit flag cleared")
	}
	if e.Elapsed() != 0 {
		t.Errorf("Expected clock restarted, got %v", e.Elapsed())
	}
	if len(e.MoveLog()) != 0 {
		t.Errorf("Expected empty move log, got %d entries", len(e.MoveLog()))
	}
	if got := len(e.Towers()[0]); got != 4 {
		t.Errorf("Expected 4 disks on tower 0, got %d", got)
	}
	if got := len(e.Towers()[1]); got != 0 {
		t.Errorf("Expected tower 1 empty, got %d", got)
	}
}

func TestQuit(t *testing.T) {
	e, clock := newTestEngine(t, 4)

	if _, err := e.TryMoveDisk(0, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := e.TryMoveDisk(0, 2); err != nil {
		t.Fatal(err)
	}

	clock.Advance(3 * time.Second)
	e.Quit()
	e.Quit()

	if !e.IsQuit() {
		t.Error("Expected quit flag set")
	}
	if e.Status() != StatusQuit {
		t.Errorf("Expected status %s, got %s", StatusQuit, e.Status())
	}

	clock.Advance(time.Minute)
	result := e.GetGameResult()

	if result.IsComplete {
		t.Error("Expected quit game not to be complete")
	}
	if result.MoveCount != 2 {
		t.Errorf("Expected move count 2, got %d", result.MoveCount)
	}
	if result.DiskCount != 4 {
		t.Errorf("Expected disk count 4, got %d", result.DiskCount)
	}
	if result.Elapsed != 3*time.Second {
		t.Errorf("Expected elapsed frozen at 3s, got %v", result.Elapsed)
	}
	if result.OptimalMoves != 15 {
		t.Errorf("Expected optimal moves 15, got %d", result.OptimalMoves)
	}
}

func TestGetGameResult_StopsClock(t *testing.T) {
	e, clock := newTestEngine(t, 3)

	clock.Advance(2 * time.Second)
	if e.Elapsed() != 2*time.Second {
		t.Errorf("Expected running clock at 2s, got %v", e.Elapsed())
	}

	first := e.GetGameResult()
	clock.Advance(10 * time.Second)
	second := e.GetGameResult()

	if first.Elapsed != 2*time.Second {
		t.Errorf("Expected first result elapsed 2s, got %v", first.Elapsed)
	}
	if second.Elapsed != first.Elapsed {
		t.Errorf("Expected clock to stay stopped, got %v then %v", first.Elapsed, second.Elapsed)
	}
	if first.IsComplete {
		t.Error("Expected mid-game result not to be complete")
	}
}

func TestElapsed_NonNegative(t *testing.T) {
	e, clock := newTestEngine(t, 3)
	clock.Advance(-time.Second)

	if e.Elapsed() < 0 {
		t.Errorf("Expected non-negative elapsed, got %v", e.Elapsed())
	}
}

func TestState_Snapshot(t *testing.T) {
	e, clock := newTestEngine(t, 3)

	e.ToggleSelect()
	clock.Advance(1500 * time.Millisecond)

	state := e.State()
	if len(state.Towers) != TowerCount {
		t.Fatalf("Expected %d towers, got %d", TowerCount, len(state.Towers))
	}
	if want := []int{3, 2, 1}; !equalInts(state.Towers[0], want) {
		t.Errorf("Expected tower 0 %v, got %v", want, state.Towers[0])
	}
	sel, ok := state.SelectedTower()
	if !ok || sel != 0 {
		t.Errorf("Expected selection 0, got %d (ok=%v)", sel, ok)
	}
	if state.Elapsed != 1500*time.Millisecond {
		t.Errorf("Expected elapsed 1.5s, got %v", state.Elapsed)
	}
	if state.OptimalMoves != 7 {
		t.Errorf("Expected optimal moves 7, got %d", state.OptimalMoves)
	}
	if state.Status != StatusInProgress {
		t.Errorf("Expected status %s, got %s", StatusInProgress, state.Status)
	}

	// Mutating the snapshot must not touch the engine
	state.Towers[0][0] = 9
	if e.Towers()[0][0].Size() != 3 {
		t.Error("Expected snapshot to be independent of engine state")
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
