package engine

import "fmt"

// Tower is a stack of disks, bottom-to-top, strictly decreasing in size
type Tower struct {
	disks []Disk
}

// Count returns the number of disks on the tower
func (t *Tower) Count() int {
	return len(t.disks)
}

// Peek returns the top disk, or false if the tower is empty
func (t *Tower) Peek() (Disk, bool) {
	if len(t.disks) == 0 {
		return Disk{}, false
	}
	return t.disks[len(t.disks)-1], true
}

// CanPlace reports whether d may legally be placed on top of the tower
func (t *Tower) CanPlace(d Disk) bool {
	top, ok := t.Peek()
	return !ok || top.size > d.size
}

// Push places d on top of the tower
func (t *Tower) Push(d Disk) error {
	if !t.CanPlace(d) {
		top, _ := t.Peek()
		return fmt.Errorf("%w: cannot place disk of size %d on disk of size %d", ErrIllegalPlacement, d.size, top.size)
	}
	t.disks = append(t.disks, d)
	return nil
}

// Pop removes and returns the top disk
func (t *Tower) Pop() (Disk, error) {
	top, ok := t.Peek()
	if !ok {
		return Disk{}, fmt.Errorf("%w: cannot pop", ErrEmptyTower)
	}
	t.disks = t.disks[:len(t.disks)-1]
	return top, nil
}

// Disks returns a copy of the disks, bottom-to-top
func (t *Tower) Disks() []Disk {
	out := make([]Disk, len(t.disks))
	copy(out, t.disks)
	return out
}

// Sizes returns the disk sizes, bottom-to-top
func (t *Tower) Sizes() []int {
	sizes := make([]int, len(t.disks))
	for i, d := range t.disks {
		sizes[i] = d.size
	}
	return sizes
}

func (t *Tower) clear() {
	t.disks = t.disks[:0]
}
