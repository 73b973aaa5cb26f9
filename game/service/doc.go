// Package service provides the command layer between input drivers and the
// Towers of Hanoi engine.
//
// The service package implements:
//   - Translation of the four logical intents into engine calls
//   - Human-readable outcome messages for every command
//   - Publishing of state snapshots to observers (spectators)
//   - Serialization of commands arriving from concurrent drivers
//
// Core Types:
//
// GameService is the interface used by the terminal app and the MCP
// driver. Intent names a logical input (cursor left/right, toggle, cancel
// or quit). Outcome reports whether a command was accepted and carries the
// resulting State. Observer receives a copy of the State after every
// command.
//
// Usage:
//
//	svc := service.NewGameService(engine.NewEngine())
//	svc.Subscribe(hub)
//
//	if _, err := svc.NewGame(ctx, 4); err != nil {
//		log.Fatal(err)
//	}
//
//	outcome, err := svc.Apply(ctx, service.IntentToggle)
//
// Rule violations come back as an Outcome with Accepted set to false.
// Errors are reserved for commands that cannot be issued at all: no game
// started, game already over, unknown intent, or a tower index out of
// range.
package service
