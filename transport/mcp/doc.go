// Package mcp exposes a Towers of Hanoi game as Model Context Protocol
// tools, so an MCP client can play through tool calls instead of keys.
//
// MCP Tools:
//   - new_game: start a game with 3-9 disks
//   - game_state: board, move count, elapsed time, cursor and selection
//   - move_disk: move the top disk between towers (numbered 1-3)
//   - move_cursor, toggle_select, cancel_or_quit: the keyboard gestures
//   - game_result: summary of a solved or quit game
//   - game_instructions: rules and strategy
//
// Every response is text: a one-line message, the board, and the same
// data as JSON. A move that breaks the rules is a normal response with
// "accepted": false. Precondition failures (bad tower number, no game,
// game over) are reported as tool errors.
//
// Usage:
//
//	srv := mcp.NewServer(gameService, cfg.DefaultDisks)
//	err := srv.ServeStdio(ctx, os.Stdin, os.Stdout)
//
// Logs must never be written to stdout while serving, it carries the
// protocol.
package mcp
