package terminal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"
	"github.com/wricardo/hanoi/game/config"
	"github.com/wricardo/hanoi/game/engine"
	"github.com/wricardo/hanoi/game/service"
)

// refreshInterval is how often the clock on screen is redrawn
const refreshInterval = time.Second

// Options configures an App
type Options struct {
	// Disks skips the start screen prompt when set
	Disks        int
	DefaultDisks int
	Palette      []string
	Keys         config.Keys
	// SkipEndScreen returns as soon as the game ends
	SkipEndScreen bool
}

// App runs one interactive session on a terminal screen
type App struct {
	screen   tcell.Screen
	service  service.GameService
	keymap   *Keymap
	renderer *Renderer
	opts     Options
}

// NewApp creates an app. The screen must already be initialized.
func NewApp(screen tcell.Screen, svc service.GameService, opts Options) (*App, error) {
	if opts.DefaultDisks == 0 {
		opts.DefaultDisks = engine.DefaultDisks
	}
	if err := engine.ValidateDiskCount(opts.DefaultDisks); err != nil {
		return nil, err
	}
	if opts.Disks != 0 {
		if err := engine.ValidateDiskCount(opts.Disks); err != nil {
			return nil, err
		}
	}

	keymap, err := NewKeymap(opts.Keys)
	if err != nil {
		return nil, fmt.Errorf("invalid key bindings: %w", err)
	}
	palette, err := ParsePalette(opts.Palette)
	if err != nil {
		return nil, fmt.Errorf("invalid palette: %w", err)
	}

	return &App{
		screen:   screen,
		service:  svc,
		keymap:   keymap,
		renderer: NewRenderer(palette, keymap),
		opts:     opts,
	}, nil
}

// Run shows the start screen, plays one game and shows the end screen.
// Cancelling ctx quits the game.
func (a *App) Run(ctx context.Context) (engine.GameResult, error) {
	stop := a.startRefresh(ctx)
	defer stop()

	disks := a.opts.Disks
	if disks == 0 {
		var err error
		disks, err = ShowStartScreen(ctx, a.screen, a.keymap, a.opts.DefaultDisks)
		if err != nil {
			return engine.GameResult{}, err
		}
	}

	if _, err := a.service.NewGame(ctx, disks); err != nil {
		return engine.GameResult{}, err
	}
	log.Info().Int("disks", disks).Msg("game started")

	if err := a.loop(ctx); err != nil {
		return engine.GameResult{}, err
	}
	stop()

	// Time stops at the winning move, before the end screen waits for a key
	result, err := a.service.Result(context.WithoutCancel(ctx))
	if err != nil {
		return engine.GameResult{}, err
	}

	if result.IsComplete {
		a.renderer.Draw(a.screen, a.service.State(ctx))
	}
	if !a.opts.SkipEndScreen && ctx.Err() == nil {
		ShowEndScreen(a.screen, result)
	}
	return result, nil
}

func (a *App) loop(ctx context.Context) error {
	for {
		state := a.service.State(ctx)
		if state.Status.IsTerminal() {
			return nil
		}
		a.renderer.Draw(a.screen, state)

		switch ev := a.screen.PollEvent().(type) {
		case nil:
			// Screen finalized underneath us
			return a.quit(ctx)

		case *tcell.EventResize:
			a.screen.Sync()

		case *tcell.EventInterrupt:
			if ctx.Err() != nil {
				log.Info().Msg("context cancelled, quitting game")
				return a.quit(ctx)
			}

		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC {
				return a.quit(ctx)
			}
			intent, ok := a.keymap.Intent(ev)
			if !ok {
				continue
			}
			if _, err := a.service.Apply(ctx, intent); err != nil {
				if errors.Is(err, context.Canceled) {
					return a.quit(ctx)
				}
				return err
			}
		}
	}
}

// quit ends the game no matter whether a disk is held
func (a *App) quit(ctx context.Context) error {
	ctx = context.WithoutCancel(ctx)
	for i := 0; i < 2; i++ {
		if a.service.State(ctx).Status.IsTerminal() {
			return nil
		}
		if _, err := a.service.Apply(ctx, service.IntentCancelOrQuit); err != nil {
			return err
		}
	}
	return nil
}

// startRefresh wakes the event loop every second so the clock redraws,
// and once more when ctx is cancelled
func (a *App) startRefresh(ctx context.Context) func() {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(refreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				_ = a.screen.PostEvent(tcell.NewEventInterrupt(nil))
				return
			case <-ticker.C:
				_ = a.screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}
