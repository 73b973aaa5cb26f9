// Package websocket provides the read-only spectator feed for Towers of
// Hanoi.
//
// A central Hub owns the set of connected spectators. The game service
// notifies the hub of every state change through the service.Observer
// interface, and the hub fans each snapshot out to all clients. Clients
// never send moves; anything they write is read and discarded so
// disconnects and pongs are noticed.
//
// Message Protocol:
//
// Every frame is one JSON object:
//
//	{"event": "state_update", "state": {...}, "time": "..."}
//	{"event": "shutdown", "time": "..."}
//
// State is the same snapshot the HTTP API returns from /api/state. A
// client that connects mid-game receives the latest snapshot first.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//	gameService.Subscribe(hub)
//	router.HandleFunc("/ws", hub.ServeWS)
//
// Slow clients whose send buffer fills up are disconnected rather than
// allowed to stall the feed.
package websocket
