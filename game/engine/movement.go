package engine

import "fmt"

// MoveCursorLeft moves the cursor one tower left, stopping at the first tower
func (e *GameEngine) MoveCursorLeft() {
	if e.cursor > 0 {
		e.cursor--
	}
}

// MoveCursorRight moves the cursor one tower right, stopping at the last tower
func (e *GameEngine) MoveCursorRight() {
	if e.cursor < TowerCount-1 {
		e.cursor++
	}
}

// ToggleSelect picks up the top disk of the tower under the cursor, or,
// when a disk is already held, tries to place it there. It returns false
// if the action was not allowed; a failed placement keeps the disk held.
func (e *GameEngine) ToggleSelect() bool {
	if !e.selection.held {
		if e.towers[e.cursor].Count() == 0 {
			return false
		}
		e.selection = selection{tower: e.cursor, held: true}
		return true
	}

	moved, err := e.TryMoveDisk(e.selection.tower, e.cursor)
	return err == nil && moved
}

// CancelSelect drops the current selection. The disk never left its tower,
// so nothing moves.
func (e *GameEngine) CancelSelect() {
	e.selection = selection{}
}

// TryMoveDisk moves the top disk of fromIndex onto toIndex. It returns
// false without changing anything when the source is empty or the move
// would put a disk on a smaller one. Indices outside [0, TowerCount) are
// an error.
func (e *GameEngine) TryMoveDisk(fromIndex, toIndex int) (bool, error) {
	if !validTower(fromIndex) {
		return false, fmt.Errorf("%w: from index %d", ErrInvalidTower, fromIndex)
	}
	if !validTower(toIndex) {
		return false, fmt.Errorf("%w: to index %d", ErrInvalidTower, toIndex)
	}

	from := &e.towers[fromIndex]
	to := &e.towers[toIndex]

	disk, ok := from.Peek()
	if !ok || !to.CanPlace(disk) {
		return false, nil
	}

	if _, err := from.Pop(); err != nil {
		return false, err
	}
	if err := to.Push(disk); err != nil {
		return false, err
	}

	e.moveCount++
	e.log = append(e.log, MoveRecord{
		Number: e.moveCount,
		Disk:   disk.size,
		From:   fromIndex,
		To:     toIndex,
	})
	e.selection = selection{}
	e.cursor = toIndex
	return true, nil
}
