// Package engine provides the core game logic for Towers of Hanoi.
//
// The engine package implements the game mechanics including:
//   - Three towers holding size-ordered disks
//   - Move legality (a disk may only rest on a larger disk)
//   - A cursor and a two-phase pick up / place selection
//   - Move counting, completion detection and elapsed time
//
// Core Types:
//
// The Engine interface defines the command surface, implemented by
// GameEngine. Tower is a single peg, Disk a single sized disk. State is a
// read-only value snapshot for renderers and spectators, and GameResult is
// the end-of-session summary.
//
// Usage:
//
//	e := engine.NewEngine()
//	if err := e.NewGame(4); err != nil {
//		log.Fatal(err)
//	}
//
//	e.ToggleSelect()    // pick up the top disk of tower 1
//	e.MoveCursorRight() // highlight tower 2
//	e.ToggleSelect()    // place it
//
//	result := e.GetGameResult()
//
// Game Rules:
//
// All disks start on the first tower, largest at the bottom. The player
// moves one top disk at a time and may never place a disk on a smaller
// one. The game is complete when every disk sits on the last tower; the
// shortest solution takes 2^N - 1 moves.
//
// Errors:
//
// Player mistakes (an illegal placement, picking from an empty tower) are
// reported as false with no state change. Programming errors (a disk
// count outside [MinDisks, MaxDisks], a tower index outside
// [0, TowerCount)) are returned as errors.
package engine
