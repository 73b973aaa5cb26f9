package engine

import (
	"errors"
	"fmt"
	"time"
)

const (
	MinDisks     = 3
	MaxDisks     = 9
	DefaultDisks = 4
	TowerCount   = 3

	// TargetTower is the tower that must hold every disk to finish.
	TargetTower = TowerCount - 1
)

var (
	ErrDiskCountOutOfRange = errors.New("disk count out of range")
	ErrInvalidTower        = errors.New("tower index out of range")
	ErrInvalidDiskSize     = errors.New("disk size out of range")
	ErrIllegalPlacement    = errors.New("illegal disk placement")
	ErrEmptyTower          = errors.New("tower is empty")
)

// Disk is a single disk. Its size identifies it within a game.
type Disk struct {
	size int
}

// NewDisk creates a disk of the given size
func NewDisk(size int) (Disk, error) {
	if size < 1 || size > MaxDisks {
		return Disk{}, fmt.Errorf("%w: %d (must be between 1 and %d)", ErrInvalidDiskSize, size, MaxDisks)
	}
	return Disk{size: size}, nil
}

// Size returns the disk size
func (d Disk) Size() int {
	return d.size
}

// Status is the top-level state of a game
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusComplete   Status = "complete"
	StatusQuit       Status = "quit"
)

// IsTerminal reports whether the status ends the running session
func (s Status) IsTerminal() bool {
	return s == StatusComplete || s == StatusQuit
}

// MoveRecord represents a single successful move
type MoveRecord struct {
	Number int `json:"number"`
	Disk   int `json:"disk"`
	From   int `json:"from"`
	To     int `json:"to"`
}

// State is a read-only snapshot of a game. Towers hold disk sizes
// bottom-to-top.
type State struct {
	Towers       [][]int       `json:"towers"`
	DiskCount    int           `json:"disk_count"`
	MoveCount    int           `json:"move_count"`
	Cursor       int           `json:"cursor"`
	Selected     *int          `json:"selected,omitempty"`
	Quit         bool          `json:"quit"`
	Complete     bool          `json:"complete"`
	Status       Status        `json:"status"`
	Elapsed      time.Duration `json:"elapsed_ns"`
	OptimalMoves int           `json:"optimal_moves"`
	MoveLog      []MoveRecord  `json:"move_log"`
}

// SelectedTower returns the tower a disk was picked up from, if any
func (s State) SelectedTower() (int, bool) {
	if s.Selected == nil {
		return 0, false
	}
	return *s.Selected, true
}

// GameResult summarizes a game at the time it was requested
type GameResult struct {
	DiskCount    int           `json:"disk_count"`
	MoveCount    int           `json:"move_count"`
	Elapsed      time.Duration `json:"elapsed_ns"`
	IsComplete   bool          `json:"is_complete"`
	OptimalMoves int           `json:"optimal_moves"`
}

// OptimalMoves returns the minimum number of moves for n disks (2^n - 1)
func OptimalMoves(n int) int {
	if n <= 0 {
		return 0
	}
	return 1<<n - 1
}

// ValidateDiskCount checks that n is a playable disk count
func ValidateDiskCount(n int) error {
	if n < MinDisks || n > MaxDisks {
		return fmt.Errorf("%w: %d (must be between %d and %d)", ErrDiskCountOutOfRange, n, MinDisks, MaxDisks)
	}
	return nil
}

func validTower(i int) bool {
	return i >= 0 && i < TowerCount
}
