package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
	"github.com/wricardo/hanoi/game/engine"
	"github.com/wricardo/hanoi/game/service"
)

// Version is reported to MCP clients during initialization
const Version = "1.0.0"

// Server exposes a game service as MCP tools
type Server struct {
	service      service.GameService
	defaultDisks int
	mcpServer    *server.MCPServer
}

// NewServer creates an MCP server driving gameService. defaultDisks is
// used by new_game when the caller does not pass a disk count.
func NewServer(gameService service.GameService, defaultDisks int) *Server {
	if defaultDisks == 0 {
		defaultDisks = engine.DefaultDisks
	}
	s := &Server{
		service:      gameService,
		defaultDisks: defaultDisks,
	}

	s.initMCPServer()
	return s
}

// initMCPServer initializes the MCP server with all tools
func (s *Server) initMCPServer() {
	s.mcpServer = server.NewMCPServer(
		"Towers of Hanoi",
		Version,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Towers of Hanoi - MCP Interface

Move every disk from tower 1 to tower 3, one disk at a time, never placing
a larger disk on a smaller one. Towers are numbered 1 to 3.

AVAILABLE TOOLS:
- new_game: Start a new game (3-9 disks)
- game_state: Get the current board
- move_disk: Move the top disk from one tower to another
- move_cursor / toggle_select / cancel_or_quit: Play with the same
  gestures as the keyboard (cursor, pick up, place, cancel)
- game_result: Final summary once the puzzle is solved or quit
- game_instructions: Full rules and tips`),
	)

	s.registerTools()
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "new_game",
		Description: "Start a new game, discarding any game in progress",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"disks": map[string]interface{}{
					"type":        "integer",
					"minimum":     engine.MinDisks,
					"maximum":     engine.MaxDisks,
					"description": fmt.Sprintf("Number of disks (default %d)", s.defaultDisks),
				},
			},
		},
	}, s.handleNewGame)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board, move count, elapsed time and selection",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleGameState)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "move_disk",
		Description: "Move the top disk of one tower onto another",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"from": map[string]interface{}{
					"type":        "integer",
					"minimum":     1,
					"maximum":     engine.TowerCount,
					"description": "Source tower (1-3)",
				},
				"to": map[string]interface{}{
					"type":        "integer",
					"minimum":     1,
					"maximum":     engine.TowerCount,
					"description": "Destination tower (1-3)",
				},
			},
			Required: []string{"from", "to"},
		},
	}, s.handleMoveDisk)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "move_cursor",
		Description: "Move the tower cursor one step left or right",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"left", "right"},
					"description": "Direction to move the cursor",
				},
			},
			Required: []string{"direction"},
		},
	}, s.handleMoveCursor)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "toggle_select",
		Description: "Pick up the top disk under the cursor, or place the held disk on the cursor tower",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.intentHandler(service.IntentToggle))

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "cancel_or_quit",
		Description: "Drop the current selection, or quit the game when nothing is held",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.intentHandler(service.IntentCancelOrQuit))

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_result",
		Description: "Get the final summary of a solved or quit game",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleGameResult)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules of the puzzle and how the tools map to them",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves MCP over in and out until ctx is cancelled or in is
// closed
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(stdlog.New(log.Logger, "mcp: ", 0))

	log.Info().Msg("mcp stdio server starting")
	err := stdio.Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Tool handlers

func (s *Server) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	disks, ok, err := intArg(args, "disks")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		disks = s.defaultDisks
	}

	state, err := s.service.NewGame(ctx, disks)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	message := fmt.Sprintf("New game with %d disks. Optimal solution takes %d moves.", disks, state.OptimalMoves)
	return mcp.NewToolResultText(formatResponse(message, true, state)), nil
}

func (s *Server) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state := s.service.State(ctx)
	if state.Status == engine.StatusNotStarted {
		return mcp.NewToolResultError(service.ErrNoGame.Error() + "; call new_game first"), nil
	}
	return mcp.NewToolResultText(formatResponse("Current game", true, state)), nil
}

func (s *Server) handleMoveDisk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	from, okFrom, err := intArg(args, "from")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to, okTo, err := intArg(args, "to")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !okFrom || !okTo {
		return mcp.NewToolResultError("from and to are required"), nil
	}

	// Tools speak in the 1-based numbers shown on screen
	outcome, err := s.service.MoveDisk(ctx, from-1, to-1)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatOutcome(outcome)), nil
}

func (s *Server) handleMoveCursor(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	direction, _ := args["direction"].(string)

	intent, err := service.ParseIntent(direction)
	if err != nil || (intent != service.IntentCursorLeft && intent != service.IntentCursorRight) {
		return mcp.NewToolResultError(fmt.Sprintf("direction must be left or right, got %q", direction)), nil
	}
	return s.apply(ctx, intent)
}

func (s *Server) intentHandler(intent service.Intent) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return s.apply(ctx, intent)
	}
}

func (s *Server) apply(ctx context.Context, intent service.Intent) (*mcp.CallToolResult, error) {
	outcome, err := s.service.Apply(ctx, intent)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatOutcome(outcome)), nil
}

// handleGameResult refuses while the game runs, since taking the result
// stops the clock
func (s *Server) handleGameResult(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state := s.service.State(ctx)
	if state.Status == engine.StatusInProgress {
		return mcp.NewToolResultError("game is not over; solve the puzzle or call cancel_or_quit first"), nil
	}

	result, err := s.service.Result(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatResult(result)), nil
}

func (s *Server) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := fmt.Sprintf(`Towers of Hanoi - Instructions

GAME OBJECTIVE:
All disks start stacked on tower 1, largest at the bottom. Move the whole
stack to tower 3.

RULES:
- Move one disk at a time, always the top disk of a tower.
- Never place a larger disk on top of a smaller one.
- A game uses %d to %d disks. The fewest possible moves for n disks is
  2^n - 1 (7 for 3 disks, 15 for 4).

PLAYING WITH TOOLS:
- move_disk(from, to): direct move using tower numbers 1-3.
- move_cursor(left|right), toggle_select, cancel_or_quit: the keyboard
  gestures. toggle_select picks up the disk under the cursor, then places
  it on the tower under the cursor. cancel_or_quit drops a held disk, or
  quits when nothing is held.

RESPONSES:
Every move reports whether it was accepted. A rejected move (empty
tower, larger onto smaller) changes nothing and is not counted.

STRATEGY:
To move n disks from A to C: move n-1 disks from A to B, move the largest
disk from A to C, then move n-1 disks from B to C.

When every disk is on tower 3, call game_result for the summary.`, engine.MinDisks, engine.MaxDisks)

	return mcp.NewToolResultText(instructions), nil
}

// Argument helpers

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads an integer argument. JSON numbers arrive as float64.
func intArg(args map[string]interface{}, name string) (int, bool, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.Abs(v) > math.MaxInt32 {
			return 0, false, fmt.Errorf("%s is out of range, got %v", name, v)
		}
		if v != math.Trunc(v) {
			return 0, false, fmt.Errorf("%s must be a whole number, got %v", name, v)
		}
		return int(v), true, nil
	case int:
		return v, true, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false, fmt.Errorf("%s must be a number, got %q", name, v)
		}
		return n, true, nil
	default:
		return 0, false, fmt.Errorf("%s must be a number", name)
	}
}

// Formatting

func formatOutcome(outcome *service.Outcome) string {
	return formatResponse(outcome.Message, outcome.Accepted, outcome.State)
}

func formatResponse(message string, accepted bool, state engine.State) string {
	var b strings.Builder

	mark := "✓"
	if !accepted {
		mark = "✗"
	}
	b.WriteString(fmt.Sprintf("%s %s\n\n", mark, message))
	b.WriteString(formatBoard(state))

	payload := struct {
		Accepted bool         `json:"accepted"`
		Message  string       `json:"message"`
		State    engine.State `json:"state"`
	}{accepted, message, state}
	if data, err := json.Marshal(payload); err == nil {
		b.WriteString("\nJSON: ")
		b.Write(data)
	}
	return b.String()
}

func formatBoard(state engine.State) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Moves: %d (optimal %d) | Time: %s | Status: %s\n",
		state.MoveCount, state.OptimalMoves, formatDuration(state.Elapsed), state.Status))

	held, holding := state.SelectedTower()
	for i, tower := range state.Towers {
		sizes := make([]string, len(tower))
		for j, size := range tower {
			sizes[j] = strconv.Itoa(size)
		}
		line := fmt.Sprintf("Tower %d: [%s]", i+1, strings.Join(sizes, " "))
		if i == state.Cursor {
			line += " <- cursor"
		}
		if holding && i == held {
			line += " (holding top disk)"
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func formatResult(result engine.GameResult) string {
	var b strings.Builder
	if result.IsComplete {
		b.WriteString("🎉 Puzzle complete!\n")
	} else {
		b.WriteString("Game quit before completion.\n")
	}
	b.WriteString(fmt.Sprintf("Disks: %d\nMoves: %d\nOptimal: %d\nTime: %s\n",
		result.DiskCount, result.MoveCount, result.OptimalMoves, formatDuration(result.Elapsed)))

	if data, err := json.Marshal(result); err == nil {
		b.WriteString("JSON: ")
		b.Write(data)
	}
	return b.String()
}

// formatDuration renders mm:ss.cc
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	centis := int(d / (10 * time.Millisecond))
	return fmt.Sprintf("%02d:%02d.%02d", centis/6000, (centis/100)%60, centis%100)
}
