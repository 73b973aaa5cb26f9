package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wricardo/hanoi/game/engine"
)

var (
	ErrNoGame        = errors.New("no game in progress")
	ErrGameOver      = errors.New("game is over")
	ErrUnknownIntent = errors.New("unknown intent")
)

// Intent is a logical player input, independent of key bindings
type Intent string

const (
	IntentCursorLeft   Intent = "left"
	IntentCursorRight  Intent = "right"
	IntentToggle       Intent = "toggle"
	IntentCancelOrQuit Intent = "cancel"
)

// Intents lists every intent in display order
var Intents = []Intent{IntentCursorLeft, IntentCursorRight, IntentToggle, IntentCancelOrQuit}

// ParseIntent converts a name such as "left" or "toggle" into an Intent
func ParseIntent(name string) (Intent, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "left":
		return IntentCursorLeft, nil
	case "right":
		return IntentCursorRight, nil
	case "toggle", "select", "place":
		return IntentToggle, nil
	case "cancel", "quit":
		return IntentCancelOrQuit, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownIntent, name)
	}
}

// Outcome contains the result of a single command
type Outcome struct {
	Intent   Intent       `json:"intent,omitempty"`
	Accepted bool         `json:"accepted"`
	Message  string       `json:"message"`
	State    engine.State `json:"state"`
}

// Observer is notified with a snapshot after every state change
type Observer interface {
	OnState(state engine.State)
}

// ObserverFunc adapts a function to the Observer interface
type ObserverFunc func(state engine.State)

// OnState calls f(state)
func (f ObserverFunc) OnState(state engine.State) {
	f(state)
}
