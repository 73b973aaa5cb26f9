package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/wricardo/hanoi/game/service"
	"github.com/wricardo/hanoi/transport/websocket"
)

// Server is the read-only spectator API
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
	started time.Time
}

// NewServer creates a new API server. hub may be nil, in which case /ws
// is not served.
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
		started: time.Now(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all routes. Routes match on path only and
// getOnly answers 405 for every other method, so the contract does not
// depend on the order mux tries routes in.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/api/health", getOnly(s.handleHealth))
	s.router.HandleFunc("/api/state", getOnly(s.handleGetState))
	s.router.HandleFunc("/api/result", getOnly(s.handleGetResult))

	if s.hub != nil {
		s.router.HandleFunc("/ws", getOnly(s.hub.ServeWS))
	}

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "not found")
	})
	s.router.Use(logRequests)
}

// getOnly rejects any method other than GET
func getOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			respondError(w, http.StatusMethodNotAllowed, "spectator API is read-only")
			return
		}
		next(w, r)
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves the API on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully. ln may be a plain TCP listener or a tunnel.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Msg("spectator server listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		log.Info().Str("addr", ln.Addr().String()).Msg("spectator server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("took", time.Since(start)).
			Msg("api request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	spectators := 0
	if s.hub != nil {
		spectators = s.hub.ClientCount()
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "healthy",
		"uptime":     time.Since(s.started).Round(time.Second).String(),
		"spectators": spectators,
	})
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.service.State(r.Context()))
}

// handleGetResult only reports finished games, since asking for the result
// stops the clock
func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	state := s.service.State(r.Context())
	if !state.Status.IsTerminal() {
		respondJSON(w, http.StatusConflict, map[string]interface{}{
			"error":  "game is not over",
			"status": state.Status,
		})
		return
	}

	result, err := s.service.Result(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoGame) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}
