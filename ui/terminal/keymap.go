package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/wricardo/hanoi/game/config"
	"github.com/wricardo/hanoi/game/service"
)

var ErrUnknownKey = config.ErrUnknownKey

// binding identifies a key press: a special key, or KeyRune plus the rune
type binding struct {
	key tcell.Key
	r   rune
}

// Keymap translates key events into intents
type Keymap struct {
	bindings map[binding]service.Intent
	labels   map[service.Intent]string
}

// NewKeymap builds a keymap from configured key names. Names are either a
// single character ("h"), "Space", or a tcell key name ("Left", "Esc",
// "Enter", "F1").
func NewKeymap(keys config.Keys) (*Keymap, error) {
	k := &Keymap{
		bindings: make(map[binding]service.Intent),
		labels:   make(map[service.Intent]string),
	}

	lists := map[service.Intent][]string{
		service.IntentCursorLeft:   keys.Left,
		service.IntentCursorRight:  keys.Right,
		service.IntentToggle:       keys.Toggle,
		service.IntentCancelOrQuit: keys.Cancel,
	}

	for _, intent := range service.Intents {
		names := lists[intent]
		if len(names) == 0 {
			return nil, fmt.Errorf("no keys bound to %s", intent)
		}
		for _, name := range names {
			b, err := parseKey(name)
			if err != nil {
				return nil, err
			}
			if other, dup := k.bindings[b]; dup && other != intent {
				return nil, fmt.Errorf("key %q bound to both %s and %s", name, other, intent)
			}
			k.bindings[b] = intent
		}
		k.labels[intent] = names[0]
	}

	return k, nil
}

// Intent returns the intent bound to ev, if any
func (k *Keymap) Intent(ev *tcell.EventKey) (service.Intent, bool) {
	b := binding{key: ev.Key()}
	if ev.Key() == tcell.KeyRune {
		b.r = ev.Rune()
	}
	intent, ok := k.bindings[b]
	return intent, ok
}

// Label returns the display name of the first key bound to intent
func (k *Keymap) Label(intent service.Intent) string {
	return k.labels[intent]
}

func parseKey(name string) (binding, error) {
	key, r, err := config.ParseKey(name)
	if err != nil {
		return binding{}, err
	}
	return binding{key: key, r: r}, nil
}
