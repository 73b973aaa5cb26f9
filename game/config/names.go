package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

var (
	ErrUnknownKey   = errors.New("unknown key name")
	ErrUnknownColor = errors.New("unknown color")
)

// ParseKey resolves a key name to a tcell key. Names are either a single
// character ("h"), "Space", or a tcell key name ("Left", "Esc", "Enter",
// "F1"). Single characters return tcell.KeyRune and the rune.
func ParseKey(name string) (tcell.Key, rune, error) {
	if r := []rune(name); len(r) == 1 {
		return tcell.KeyRune, r[0], nil
	}
	if strings.EqualFold(name, "Space") {
		return tcell.KeyRune, ' ', nil
	}
	for key, keyName := range tcell.KeyNames {
		if strings.EqualFold(keyName, name) {
			return key, 0, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: %q", ErrUnknownKey, name)
}

// ParseColor resolves a color name ("red") or hex value ("#ff8800")
func ParseColor(name string) (tcell.Color, error) {
	c := tcell.GetColor(strings.ToLower(strings.TrimSpace(name)))
	if c == tcell.ColorDefault {
		return tcell.ColorDefault, fmt.Errorf("%w %q", ErrUnknownColor, name)
	}
	return c, nil
}
