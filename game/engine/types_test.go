package engine

import (
	"errors"
	"testing"
)

func TestNewDisk(t *testing.T) {
	for size := 1; size <= MaxDisks; size++ {
		d, err := NewDisk(size)
		if err != nil {
			t.Fatalf("NewDisk(%d) returned error: %v", size, err)
		}
		if d.Size() != size {
			t.Errorf("Expected size %d, got %d", size, d.Size())
		}
	}
}

func TestNewDisk_OutOfRange(t *testing.T) {
	for _, size := range []int{0, -1, MaxDisks + 1} {
		if _, err := NewDisk(size); !errors.Is(err, ErrInvalidDiskSize) {
			t.Errorf("NewDisk(%d): expected ErrInvalidDiskSize, got %v", size, err)
		}
	}
}

func TestDiskEquality(t *testing.T) {
	a, _ := NewDisk(3)
	b, _ := NewDisk(3)
	c, _ := NewDisk(4)

	if a != b {
		t.Error("Expected disks of equal size to be equal")
	}
	if a == c {
		t.Error("Expected disks of different size to differ")
	}
}

func TestOptimalMoves(t *testing.T) {
	tests := []struct {
		disks int
		want  int
	}{
		{0, 0},
		{1, 1},
		{3, 7},
		{4, 15},
		{9, 511},
	}

	for _, tt := range tests {
		if got := OptimalMoves(tt.disks); got != tt.want {
			t.Errorf("OptimalMoves(%d) = %d, want %d", tt.disks, got, tt.want)
		}
	}
}

func TestValidateDiskCount(t *testing.T) {
	for n := MinDisks; n <= MaxDisks; n++ {
		if err := ValidateDiskCount(n); err != nil {
			t.Errorf("ValidateDiskCount(%d) returned error: %v", n, err)
		}
	}
	for _, n := range []int{2, 10, 0, -1} {
		if err := ValidateDiskCount(n); !errors.Is(err, ErrDiskCountOutOfRange) {
			t.Errorf("ValidateDiskCount(%d): expected ErrDiskCountOutOfRange, got %v", n, err)
		}
	}
}

func TestStatusIsTerminal(t *testing.T) {
	tests := map[Status]bool{
		StatusNotStarted: false,
		StatusInProgress: false,
		StatusComplete:   true,
		StatusQuit:       true,
	}
	for status, want := range tests {
		if got := status.IsTerminal(); got != want {
			t.Errorf("%s.IsTerminal() = %v, want %v", status, got, want)
		}
	}
}

func TestStateSelectedTower(t *testing.T) {
	var s State
	if _, ok := s.SelectedTower(); ok {
		t.Error("Expected no selection on zero state")
	}

	idx := 2
	s.Selected = &idx
	got, ok := s.SelectedTower()
	if !ok || got != 2 {
		t.Errorf("Expected selection 2, got %d (ok=%v)", got, ok)
	}
}
