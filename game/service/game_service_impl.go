package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/wricardo/hanoi/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	engine    engine.Engine
	observers []Observer
	mu        sync.Mutex
}

// NewGameService creates a new game service driving e
func NewGameService(e engine.Engine) GameService {
	return &gameServiceImpl{engine: e}
}

// NewGame starts a fresh game with diskCount disks
func (s *gameServiceImpl) NewGame(ctx context.Context, diskCount int) (engine.State, error) {
	if err := ctx.Err(); err != nil {
		return engine.State{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.NewGame(diskCount); err != nil {
		return engine.State{}, fmt.Errorf("failed to start game: %w", err)
	}

	log.Info().Int("disks", diskCount).Int("optimal", engine.OptimalMoves(diskCount)).Msg("new game")

	state := s.engine.State()
	s.publish(state)
	return state, nil
}

// Result stops the clock and returns the game summary
func (s *gameServiceImpl) Result(ctx context.Context) (engine.GameResult, error) {
	if err := ctx.Err(); err != nil {
		return engine.GameResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine.Status() == engine.StatusNotStarted {
		return engine.GameResult{}, ErrNoGame
	}

	result := s.engine.GetGameResult()
	log.Info().
		Int("disks", result.DiskCount).
		Int("moves", result.MoveCount).
		Dur("elapsed", result.Elapsed).
		Bool("complete", result.IsComplete).
		Msg("game result")

	s.publish(s.engine.State())
	return result, nil
}

// Apply dispatches a logical intent to the engine
func (s *gameServiceImpl) Apply(ctx context.Context, intent Intent) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkPlayable(); err != nil {
		return nil, err
	}

	var accepted bool
	var message string

	switch intent {
	case IntentCursorLeft, IntentCursorRight:
		before := s.engine.Cursor()
		if intent == IntentCursorLeft {
			s.engine.MoveCursorLeft()
		} else {
			s.engine.MoveCursorRight()
		}
		accepted = s.engine.Cursor() != before
		message = fmt.Sprintf("Cursor on tower %d", s.engine.Cursor()+1)

	case IntentToggle:
		accepted, message = s.toggle()

	case IntentCancelOrQuit:
		if _, held := s.engine.Selected(); held {
			s.engine.CancelSelect()
			message = "Selection cancelled"
		} else {
			s.engine.Quit()
			message = "Game quit"
		}
		accepted = true

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownIntent, intent)
	}

	state := s.engine.State()
	log.Debug().Str("intent", string(intent)).Bool("accepted", accepted).Int("moves", state.MoveCount).Msg(message)

	s.publish(state)
	return &Outcome{
		Intent:   intent,
		Accepted: accepted,
		Message:  message,
		State:    state,
	}, nil
}

// MoveDisk moves the top disk between two towers directly
func (s *gameServiceImpl) MoveDisk(ctx context.Context, from, to int) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkPlayable(); err != nil {
		return nil, err
	}

	disk, hasDisk := s.topDisk(from)
	moved, err := s.engine.TryMoveDisk(from, to)
	if err != nil {
		return nil, err
	}

	var message string
	switch {
	case moved:
		message = s.movedMessage(disk, from, to)
	case !hasDisk:
		message = fmt.Sprintf("Tower %d is empty", from+1)
	default:
		message = fmt.Sprintf("Cannot place disk %d on tower %d", disk.Size(), to+1)
	}

	state := s.engine.State()
	log.Debug().Int("from", from).Int("to", to).Bool("accepted", moved).Int("moves", state.MoveCount).Msg(message)

	s.publish(state)
	return &Outcome{
		Accepted: moved,
		Message:  message,
		State:    state,
	}, nil
}

// State returns the current snapshot
func (s *gameServiceImpl) State(ctx context.Context) engine.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.State()
}

// Subscribe registers an observer and sends it the current state
func (s *gameServiceImpl) Subscribe(observer Observer) {
	if observer == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.observers = append(s.observers, observer)
	observer.OnState(s.engine.State())
}

// toggle runs the pick up / place gesture and describes what happened
func (s *gameServiceImpl) toggle() (bool, string) {
	cursor := s.engine.Cursor()
	from, held := s.engine.Selected()

	if !held {
		if !s.engine.ToggleSelect() {
			return false, fmt.Sprintf("Tower %d is empty", cursor+1)
		}
		disk, _ := s.topDisk(cursor)
		return true, fmt.Sprintf("Picked up disk %d from tower %d", disk.Size(), cursor+1)
	}

	disk, _ := s.topDisk(from)
	if !s.engine.ToggleSelect() {
		return false, fmt.Sprintf("Cannot place disk %d on tower %d", disk.Size(), cursor+1)
	}
	return true, s.movedMessage(disk, from, cursor)
}

func (s *gameServiceImpl) movedMessage(disk engine.Disk, from, to int) string {
	if s.engine.IsComplete() {
		return fmt.Sprintf("Puzzle complete in %d moves (optimal %d)",
			s.engine.MoveCount(), engine.OptimalMoves(s.engine.DiskCount()))
	}
	return fmt.Sprintf("Moved disk %d from tower %d to tower %d", disk.Size(), from+1, to+1)
}

func (s *gameServiceImpl) topDisk(idx int) (engine.Disk, bool) {
	if idx < 0 || idx >= engine.TowerCount {
		return engine.Disk{}, false
	}
	disks := s.engine.Towers()[idx]
	if len(disks) == 0 {
		return engine.Disk{}, false
	}
	return disks[len(disks)-1], true
}

func (s *gameServiceImpl) checkPlayable() error {
	status := s.engine.Status()
	if status == engine.StatusNotStarted {
		return ErrNoGame
	}
	if status.IsTerminal() {
		return fmt.Errorf("%w: %s", ErrGameOver, status)
	}
	return nil
}

// publish must be called with s.mu held
func (s *gameServiceImpl) publish(state engine.State) {
	for _, o := range s.observers {
		o.OnState(state)
	}
}
