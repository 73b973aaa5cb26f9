// Package api provides the read-only HTTP surface used to watch a Towers
// of Hanoi game from another machine or browser tab.
//
// Endpoints:
//
//   - GET /api/health - liveness, uptime and spectator count
//   - GET /api/state  - current engine.State snapshot
//   - GET /api/result - engine.GameResult once the game is complete or
//     quit; 409 while it is still running
//   - GET /ws         - WebSocket spectator feed (see transport/websocket)
//
// Every endpoint is GET only. Any other method on a known path answers
// 405, so nothing served here can change the game.
//
// Error Handling:
//
// Errors are returned as JSON with an appropriate HTTP status code:
//
//	{"error": "error message"}
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//	gameService.Subscribe(hub)
//	srv := api.NewServer(gameService, hub)
//	err := srv.ListenAndServe(ctx, ":8080")
package api
