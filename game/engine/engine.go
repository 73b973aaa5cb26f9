package engine

import "time"

// Engine provides the main interface for game operations
type Engine interface {
	// Game lifecycle
	NewGame(diskCount int) error
	IsComplete() bool
	Quit()
	GetGameResult() GameResult

	// Interaction
	MoveCursorLeft()
	MoveCursorRight()
	ToggleSelect() bool
	CancelSelect()
	TryMoveDisk(fromIndex, toIndex int) (bool, error)

	// Read-only state
	State() State
	Status() Status
	Towers() [TowerCount][]Disk
	DiskCount() int
	MoveCount() int
	Cursor() int
	Selected() (int, bool)
	IsQuit() bool
	Elapsed() time.Duration
	MoveLog() []MoveRecord
}

// selection is the tower a disk was picked up from. The disk stays on
// that tower until a move is confirmed.
type selection struct {
	tower int
	held  bool
}

// GameEngine implements the Engine interface
type GameEngine struct {
	towers    [TowerCount]Tower
	diskCount int
	moveCount int
	cursor    int
	selection selection
	quit      bool
	watch     stopwatch
	log       []MoveRecord
}

// Option configures a GameEngine
type Option func(*GameEngine)

// WithClock replaces the time source used for elapsed time
func WithClock(now Clock) Option {
	return func(e *GameEngine) {
		if now != nil {
			e.watch.now = now
		}
	}
}

// NewEngine creates an engine with no game in progress. Call NewGame
// before any move.
func NewEngine(opts ...Option) *GameEngine {
	e := &GameEngine{
		watch: stopwatch{now: time.Now},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewGame resets the engine to a fresh game with diskCount disks stacked
// on the first tower and restarts the clock
func (e *GameEngine) NewGame(diskCount int) error {
	if err := ValidateDiskCount(diskCount); err != nil {
		return err
	}

	e.diskCount = diskCount
	e.moveCount = 0
	e.cursor = 0
	e.selection = selection{}
	e.quit = false
	e.log = nil

	for i := range e.towers {
		e.towers[i].clear()
	}
	for size := diskCount; size >= 1; size-- {
		// Sizes strictly decrease, so Push cannot fail here
		_ = e.towers[0].Push(Disk{size: size})
	}

	e.watch.restart()
	return nil
}

// IsComplete reports whether every disk sits on the target tower
func (e *GameEngine) IsComplete() bool {
	return e.diskCount > 0 && e.towers[TargetTower].Count() == e.diskCount
}

// Quit ends the game and stops the clock
func (e *GameEngine) Quit() {
	e.quit = true
	e.watch.stop()
}

// GetGameResult stops the clock and returns a summary of the game
func (e *GameEngine) GetGameResult() GameResult {
	e.watch.stop()
	return GameResult{
		DiskCount:    e.diskCount,
		MoveCount:    e.moveCount,
		Elapsed:      e.watch.Elapsed(),
		IsComplete:   e.IsComplete(),
		OptimalMoves: OptimalMoves(e.diskCount),
	}
}

// Status returns the top-level game status
func (e *GameEngine) Status() Status {
	switch {
	case e.diskCount == 0:
		return StatusNotStarted
	case e.IsComplete():
		return StatusComplete
	case e.quit:
		return StatusQuit
	default:
		return StatusInProgress
	}
}

// State returns a snapshot of the game
func (e *GameEngine) State() State {
	towers := make([][]int, TowerCount)
	for i := range e.towers {
		towers[i] = e.towers[i].Sizes()
	}

	var selected *int
	if e.selection.held {
		idx := e.selection.tower
		selected = &idx
	}

	return State{
		Towers:       towers,
		DiskCount:    e.diskCount,
		MoveCount:    e.moveCount,
		Cursor:       e.cursor,
		Selected:     selected,
		Quit:         e.quit,
		Complete:     e.IsComplete(),
		Status:       e.Status(),
		Elapsed:      e.watch.Elapsed(),
		OptimalMoves: OptimalMoves(e.diskCount),
		MoveLog:      e.MoveLog(),
	}
}

// Towers returns a copy of every tower's disks, bottom-to-top
func (e *GameEngine) Towers() [TowerCount][]Disk {
	var out [TowerCount][]Disk
	for i := range e.towers {
		out[i] = e.towers[i].Disks()
	}
	return out
}

// DiskCount returns the number of disks in the current game
func (e *GameEngine) DiskCount() int {
	return e.diskCount
}

// MoveCount returns the number of successful moves
func (e *GameEngine) MoveCount() int {
	return e.moveCount
}

// Cursor returns the highlighted tower index
func (e *GameEngine) Cursor() int {
	return e.cursor
}

// Selected returns the tower a disk was picked up from, if any
func (e *GameEngine) Selected() (int, bool) {
	return e.selection.tower, e.selection.held
}

// IsQuit reports whether the player quit
func (e *GameEngine) IsQuit() bool {
	return e.quit
}

// Elapsed returns the time since the game started, frozen once stopped
func (e *GameEngine) Elapsed() time.Duration {
	if e.diskCount == 0 {
		return 0
	}
	return e.watch.Elapsed()
}

// MoveLog returns a copy of the successful moves of the current game
func (e *GameEngine) MoveLog() []MoveRecord {
	out := make([]MoveRecord, len(e.log))
	copy(out, e.log)
	return out
}
