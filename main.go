// Command hanoi plays Towers of Hanoi in the terminal.
//
// It supports three ways to run:
//  1. "play" (default): the interactive tcell game, optionally with a
//     read-only spectator API and WebSocket feed
//  2. "mcp": an MCP stdio server so an MCP client can play through tools
//  3. "init-config" / "check-config": write or validate a settings file
//
// Flags and HANOI_* environment variables override the settings file; a
// .env file in the working directory is loaded first when present.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
	"golang.org/x/sync/errgroup"

	"github.com/wricardo/hanoi/api"
	"github.com/wricardo/hanoi/game/config"
	"github.com/wricardo/hanoi/game/engine"
	"github.com/wricardo/hanoi/game/service"
	"github.com/wricardo/hanoi/transport/mcp"
	"github.com/wricardo/hanoi/transport/websocket"
	"github.com/wricardo/hanoi/ui/terminal"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Towers of Hanoi"
)

// defaultConfigPath is read when --config is not given. A missing file
// there is not an error.
const defaultConfigPath = "hanoi.json"

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "hanoi: %v\n", err)
		os.Exit(1)
	}
}

// newCommand builds the command tree
func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "hanoi",
		Usage:   "play Towers of Hanoi in the terminal",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "settings file (JSON)",
				Value:   defaultConfigPath,
				Sources: cli.EnvVars("HANOI_CONFIG"),
			},
			&cli.IntFlag{
				Name:    "disks",
				Aliases: []string{"n"},
				Usage:   fmt.Sprintf("number of disks, %d-%d (0 asks on the start screen)", engine.MinDisks, engine.MaxDisks),
				Sources: cli.EnvVars("HANOI_DISKS"),
			},
			&cli.StringFlag{
				Name:    "spectate",
				Usage:   "serve the read-only spectator API on this address, e.g. :8080",
				Sources: cli.EnvVars("HANOI_SPECTATE_ADDR"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "also expose the spectator API through an ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "write logs to this file",
				Sources: cli.EnvVars("HANOI_LOG_FILE"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error)",
				Sources: cli.EnvVars("HANOI_LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Action: runPlay,
		Commands: []*cli.Command{
			{
				Name:   "play",
				Usage:  "play in the terminal (default)",
				Action: runPlay,
			},
			{
				Name:   "mcp",
				Usage:  "serve the game as MCP tools over stdio",
				Action: runMCP,
			},
			{
				Name:  "init-config",
				Usage: "write the default settings to the config file",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "force", Usage: "overwrite an existing file"},
				},
				Action: runInitConfig,
			},
			{
				Name:   "check-config",
				Usage:  "validate the config file",
				Action: runCheckConfig,
			},
			{
				Name:  "version",
				Usage: "print the version",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					fmt.Fprintf(cmd.Root().Writer, "%s v%s\n", AppName, Version)
					return nil
				},
			},
		},
	}
}

// loadSettings reads the settings file and applies flag and environment
// overrides. A missing file is only an error when --config was given.
func loadSettings(cmd *cli.Command) (*config.Config, error) {
	path := cmd.String("config")

	var cfg *config.Config
	var err error
	if cmd.IsSet("config") {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadOrDefault(path)
	}
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("spectate") {
		cfg.SpectateAddr = cmd.String("spectate")
	}
	if cmd.IsSet("log-file") {
		cfg.LogFile = cmd.String("log-file")
	}
	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}
	if cmd.Bool("debug") {
		cfg.LogLevel = zerolog.DebugLevel.String()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if disks := cmd.Int("disks"); disks != 0 {
		if err := engine.ValidateDiskCount(disks); err != nil {
			return nil, fmt.Errorf("--disks: %w", err)
		}
	}
	return cfg, nil
}

// setupLogging points the global zerolog logger at the log file, or at
// fallback when no file is configured. The returned func closes the file.
func setupLogging(cfg *config.Config, fallback io.Writer) (func(), error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	zerolog.SetGlobalLevel(level)

	out := fallback
	closer := func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		closer = func() { f.Close() }
	}

	log.Logger = zerolog.New(out).With().Timestamp().Str("app", "hanoi").Logger()
	return closer, nil
}

// runPlay runs one interactive game on the terminal
func runPlay(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	// The screen belongs to tcell, so logs only go to a file
	closeLog, err := setupLogging(cfg, io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	log.Info().Str("version", Version).Int("disks", cmd.Int("disks")).Msg("starting game")

	gameService := service.NewGameService(engine.NewEngine())

	stopSpectator, err := startSpectator(ctx, cmd, cfg, gameService)
	if err != nil {
		return err
	}
	defer stopSpectator()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}

	app, err := terminal.NewApp(screen, gameService, terminal.Options{
		Disks:        cmd.Int("disks"),
		DefaultDisks: cfg.DefaultDisks,
		Palette:      cfg.Palette,
		Keys:         cfg.Keys,
	})
	if err != nil {
		screen.Fini()
		return err
	}

	result, err := app.Run(ctx)
	screen.Fini()

	if errors.Is(err, terminal.ErrAborted) {
		log.Info().Msg("aborted on start screen")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.Root().Writer, formatSummary(result))
	return nil
}

// runMCP serves the game over stdio. stdout carries the protocol, so logs go
// to the log file or stderr.
func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	closeLog, err := setupLogging(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	gameService := service.NewGameService(engine.NewEngine())

	stopSpectator, err := startSpectator(ctx, cmd, cfg, gameService)
	if err != nil {
		return err
	}
	defer stopSpectator()

	if disks := cmd.Int("disks"); disks != 0 {
		if _, err := gameService.NewGame(ctx, disks); err != nil {
			return err
		}
	}

	srv := mcp.NewServer(gameService, cfg.DefaultDisks)
	return srv.ServeStdio(ctx, os.Stdin, os.Stdout)
}

func runInitConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if _, err := os.Stat(path); err == nil && !cmd.Bool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.Save(path, config.Default()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.Root().Writer, "Wrote default settings to %s\n", path)
	return nil
}

func runCheckConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Root().Writer, "%s is valid (default %d disks, %d colors, log level %s)\n",
		path, cfg.DefaultDisks, len(cfg.Palette), cfg.LogLevel)
	return nil
}

// startSpectator starts the hub and API server when an address or ngrok is
// configured. The returned func shuts them down and waits for them.
func startSpectator(ctx context.Context, cmd *cli.Command, cfg *config.Config, gameService service.GameService) (func(), error) {
	useNgrok := cmd.Bool("ngrok")
	if cfg.SpectateAddr == "" && !useNgrok {
		return func() {}, nil
	}

	var listeners []net.Listener
	if cfg.SpectateAddr != "" {
		// Listen up front so a busy port fails before the game starts
		ln, err := net.Listen("tcp", cfg.SpectateAddr)
		if err != nil {
			return nil, fmt.Errorf("failed to listen on %s: %w", cfg.SpectateAddr, err)
		}
		fmt.Fprintf(os.Stderr, "Spectate: http://%s/api/state  ws://%s/ws\n", ln.Addr(), ln.Addr())
		listeners = append(listeners, ln)
	}
	if useNgrok {
		tun, err := listenNgrok(ctx, cmd.String("ngrok-domain"))
		if err != nil {
			for _, ln := range listeners {
				ln.Close()
			}
			return nil, err
		}
		fmt.Fprintf(os.Stderr, "Spectate (ngrok): %s/api/state\n", tun.URL())
		listeners = append(listeners, tun)
	}

	hub := websocket.NewHub()
	gameService.Subscribe(hub)
	apiServer := api.NewServer(gameService, hub)

	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	for _, ln := range listeners {
		g.Go(func() error {
			return apiServer.Serve(gctx, ln)
		})
	}

	return func() {
		cancel()
		if err := g.Wait(); err != nil {
			log.Error().Err(err).Msg("spectator server stopped with error")
		}
	}, nil
}

// ngrokTunnel is the part of an ngrok tunnel the spectator server needs
type ngrokTunnel interface {
	net.Listener
	URL() string
}

func listenNgrok(ctx context.Context, domain string) (ngrokTunnel, error) {
	authToken := os.Getenv("NGROK_AUTHTOKEN")
	if authToken == "" {
		authToken = os.Getenv("NGROK_AUTH_TOKEN")
	}
	if authToken == "" {
		return nil, errors.New("ngrok enabled but no auth token (set NGROK_AUTHTOKEN)")
	}

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		return nil, fmt.Errorf("failed to start ngrok tunnel: %w", err)
	}
	log.Info().Str("url", tun.URL()).Msg("ngrok tunnel established")
	return tun, nil
}

// formatSummary is printed after the screen is restored
func formatSummary(result engine.GameResult) string {
	elapsed := result.Elapsed.Round(10 * time.Millisecond)
	if result.IsComplete {
		return fmt.Sprintf("Solved %d disks in %d moves (optimal %d) in %s.",
			result.DiskCount, result.MoveCount, result.OptimalMoves, elapsed)
	}
	return fmt.Sprintf("Quit after %d moves with %d disks (%s).",
		result.MoveCount, result.DiskCount, elapsed)
}
