package terminal

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/wricardo/hanoi/game/engine"
	"github.com/wricardo/hanoi/game/service"
)

// ErrAborted is returned when the player leaves the start screen
var ErrAborted = errors.New("aborted by player")

var banner = []string{
	"╔════════════════════════════════════════╗",
	"║         TOWERS  OF  HANOI              ║",
	"╚════════════════════════════════════════╝",
}

var gameOverBanner = []string{
	"╔════════════════════════════════════════╗",
	"║            GAME  OVER                  ║",
	"╚════════════════════════════════════════╝",
}

var rules = []string{
	"The Tower of Hanoi is a classic puzzle. You have three",
	"towers and a stack of disks of decreasing size. All disks",
	"start on the left tower. The goal is to move all disks to",
	"the right tower, one at a time, without ever placing a",
	"larger disk on top of a smaller one.",
}

// diskPrompt is the editable disk-count field of the start screen
type diskPrompt struct {
	defaultDisks int
	input        []rune
	errMsg       string
}

// handle processes one key. It returns done with the chosen disk count
// once the player confirms a valid value.
func (p *diskPrompt) handle(ev *tcell.EventKey) (disks int, done bool, err error) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return 0, false, ErrAborted

	case tcell.KeyEnter:
		if len(p.input) == 0 {
			return p.defaultDisks, true, nil
		}
		n, convErr := strconv.Atoi(string(p.input))
		if convErr == nil && engine.ValidateDiskCount(n) == nil {
			return n, true, nil
		}
		p.errMsg = fmt.Sprintf("  Please enter a number between %d and %d.", engine.MinDisks, engine.MaxDisks)
		p.input = p.input[:0]

	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(p.input) > 0 {
			p.input = p.input[:len(p.input)-1]
		}

	case tcell.KeyRune:
		if r := ev.Rune(); r >= '0' && r <= '9' && len(p.input) < 2 {
			p.input = append(p.input, r)
			p.errMsg = ""
		}
	}
	return 0, false, nil
}

// ShowStartScreen draws the title, rules and controls and asks for the
// number of disks. An empty answer picks defaultDisks.
func ShowStartScreen(ctx context.Context, s tcell.Screen, keys *Keymap, defaultDisks int) (int, error) {
	p := &diskPrompt{defaultDisks: defaultDisks}

	for {
		drawStartScreen(s, keys, p)

		switch ev := s.PollEvent().(type) {
		case nil:
			return 0, ErrAborted
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventInterrupt:
			if ctx.Err() != nil {
				return 0, ErrAborted
			}
		case *tcell.EventKey:
			disks, done, err := p.handle(ev)
			if err != nil {
				return 0, err
			}
			if done {
				return disks, nil
			}
		}
	}
}

func drawStartScreen(s tcell.Screen, keys *Keymap, p *diskPrompt) {
	s.Clear()

	y := 0
	for _, line := range banner {
		drawText(s, 0, y, styleTitle, line)
		y++
	}
	y++
	for _, line := range rules {
		drawText(s, 0, y, styleText, line)
		y++
	}
	y++

	drawText(s, 0, y, styleHint, "Controls:")
	y++
	controls := []struct {
		intent service.Intent
		text   string
	}{
		{service.IntentCursorLeft, "Move cursor left"},
		{service.IntentCursorRight, "Move cursor right"},
		{service.IntentToggle, "Pick up / place a disk"},
		{service.IntentCancelOrQuit, "Cancel selection / quit game"},
	}
	for _, c := range controls {
		drawText(s, 0, y, styleText, fmt.Sprintf("  %-7s %s", keys.Label(c.intent), c.text))
		y++
	}
	y++

	prompt := fmt.Sprintf("Number of disks [%d-%d] (default %d): ", engine.MinDisks, engine.MaxDisks, p.defaultDisks)
	x := drawText(s, 0, y, styleText, prompt)
	x = drawText(s, x, y, styleText, string(p.input))
	s.ShowCursor(x, y)
	y++

	if p.errMsg != "" {
		drawText(s, 0, y, styleError, p.errMsg)
	}

	s.Show()
}

// ShowEndScreen displays the game summary and waits for any key
func ShowEndScreen(s tcell.Screen, result engine.GameResult) {
	for {
		drawEndScreen(s, result)

		switch s.PollEvent().(type) {
		case nil, *tcell.EventKey:
			return
		case *tcell.EventResize:
			s.Sync()
		}
	}
}

func drawEndScreen(s tcell.Screen, result engine.GameResult) {
	s.Clear()
	s.HideCursor()

	y := 0
	for _, line := range gameOverBanner {
		drawText(s, 0, y, styleTitle, line)
		y++
	}
	y++

	if result.IsComplete {
		drawText(s, 0, y, styleSuccess, "  ★ Congratulations, puzzle complete! ★")
	} else {
		drawText(s, 0, y, styleHint, "  Game quit early.")
	}
	y += 2

	lines := []string{
		fmt.Sprintf("  Disks:       %d", result.DiskCount),
		fmt.Sprintf("  Moves:       %d", result.MoveCount),
		fmt.Sprintf("  Time:        %s", formatPrecise(result.Elapsed)),
		fmt.Sprintf("  Optimal:     %d moves", engine.OptimalMoves(result.DiskCount)),
	}
	for _, line := range lines {
		drawText(s, 0, y, styleText, line)
		y++
	}
	y++

	drawText(s, 0, y, styleText, "Press any key to exit...")
	s.Show()
}
