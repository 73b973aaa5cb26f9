package terminal

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/wricardo/hanoi/game/config"
	"github.com/wricardo/hanoi/game/engine"
	"github.com/wricardo/hanoi/game/service"
)

const (
	poleRune   = '║'
	diskRune   = '═'
	baseRune   = '═'
	jointRune  = '╨'
	cursorRune = '▼'

	// columnWidth fits the largest disk on both sides of the pole
	columnWidth = engine.MaxDisks*2 + 3
	halfWidth   = columnWidth / 2
)

var (
	styleText     = tcell.StyleDefault
	styleHint     = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleTitle    = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleError    = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleSuccess  = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	highlightBack = tcell.ColorGray
)

// ParsePalette converts color names ("red", "#ff8800") into tcell colors
func ParsePalette(names []string) ([]tcell.Color, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("palette is empty")
	}
	colors := make([]tcell.Color, len(names))
	for i, name := range names {
		c, err := config.ParseColor(name)
		if err != nil {
			return nil, err
		}
		colors[i] = c
	}
	return colors, nil
}

// Renderer draws game state onto a screen. It only reads state.
type Renderer struct {
	palette []tcell.Color
	keys    *Keymap
}

// NewRenderer creates a renderer with a disk palette and the keymap used
// for the help line
func NewRenderer(palette []tcell.Color, keys *Keymap) *Renderer {
	return &Renderer{palette: palette, keys: keys}
}

// DiskColor returns the display color for a disk size
func (r *Renderer) DiskColor(size int) tcell.Color {
	if len(r.palette) == 0 || size < 1 {
		return tcell.ColorWhite
	}
	return r.palette[(size-1)%len(r.palette)]
}

// Draw renders the towers, cursor, status and help lines and shows the
// result
func (r *Renderer) Draw(s tcell.Screen, state engine.State) {
	s.Clear()
	s.HideCursor()

	y := 0

	// Cursor row
	for t := 0; t < engine.TowerCount; t++ {
		if t == state.Cursor {
			drawText(s, t*columnWidth+halfWidth, y, styleHint, string(cursorRune))
		}
	}
	y++

	// Towers, top row first
	selected, held := state.SelectedTower()
	for row := state.DiskCount - 1; row >= 0; row-- {
		for t := 0; t < engine.TowerCount && t < len(state.Towers); t++ {
			x := t * columnWidth
			disks := state.Towers[t]
			if row < len(disks) {
				highlight := held && selected == t && row == len(disks)-1
				r.drawDisk(s, x, y, disks[row], highlight)
			} else {
				s.SetContent(x+halfWidth, y, poleRune, nil, styleText)
			}
		}
		y++
	}

	// Base and labels
	base := strings.Repeat(string(baseRune), halfWidth) + string(jointRune) + strings.Repeat(string(baseRune), halfWidth)
	for t := 0; t < engine.TowerCount; t++ {
		drawText(s, t*columnWidth, y, styleText, base)
		drawText(s, t*columnWidth, y+1, styleText, center(fmt.Sprintf("Tower %d", t+1), columnWidth))
	}
	y += 3

	drawText(s, 0, y, styleText, fmt.Sprintf("  Moves: %d    Time: %s", state.MoveCount, formatClock(state.Elapsed)))
	y++
	drawText(s, 0, y, styleHint, r.helpLine(held))

	s.Show()
}

func (r *Renderer) drawDisk(s tcell.Screen, x, y, size int, highlight bool) {
	style := tcell.StyleDefault.Foreground(r.DiskColor(size))
	if highlight {
		style = style.Background(highlightBack)
	}
	body := strings.Repeat(string(diskRune), size)
	drawText(s, x+halfWidth-size, y, style, body+string(poleRune)+body)
}

func (r *Renderer) helpLine(held bool) string {
	left := r.keyLabel(service.IntentCursorLeft)
	right := r.keyLabel(service.IntentCursorRight)
	toggle := r.keyLabel(service.IntentToggle)
	cancel := r.keyLabel(service.IntentCancelOrQuit)

	if held {
		return fmt.Sprintf("  Disk selected: use %s/%s then %s to place, %s to cancel", left, right, toggle, cancel)
	}
	return fmt.Sprintf("  %s/%s move cursor | %s pick up | %s quit", left, right, toggle, cancel)
}

func (r *Renderer) keyLabel(intent service.Intent) string {
	if r.keys == nil {
		return string(intent)
	}
	switch label := r.keys.Label(intent); label {
	case "Left":
		return "←"
	case "Right":
		return "→"
	default:
		return label
	}
}

// drawText writes text starting at (x, y) and returns the next column
func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) int {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}

func center(text string, width int) string {
	n := len([]rune(text))
	if n >= width {
		return text
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", width-n-left)
}

// formatClock renders a duration as mm:ss
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// formatPrecise renders a duration as mm:ss.cc
func formatPrecise(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	centis := int(d / (10 * time.Millisecond))
	return fmt.Sprintf("%02d:%02d.%02d", centis/6000, (centis/100)%60, centis%100)
}
