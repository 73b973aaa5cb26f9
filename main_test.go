package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/hanoi/game/config"
	"github.com/wricardo/hanoi/game/engine"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName != "Towers of Hanoi" {
		t.Errorf("Expected app name Towers of Hanoi, got %s", AppName)
	}
}

// runCommand runs the command tree with args and returns what it printed
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newCommand()
	cmd.Writer = &out
	cmd.ErrWriter = &out
	err := cmd.Run(context.Background(), append([]string{"hanoi"}, args...))
	return out.String(), err
}

// settingsFor runs only loadSettings with the given arguments
func settingsFor(t *testing.T, args ...string) (*config.Config, int, error) {
	t.Helper()
	var cfg *config.Config
	var disks int
	cmd := newCommand()
	cmd.Writer = &bytes.Buffer{}
	cmd.Action = func(ctx context.Context, c *cli.Command) error {
		var err error
		cfg, err = loadSettings(c)
		disks = c.Int("disks")
		return err
	}
	err := cmd.Run(context.Background(), append([]string{"hanoi"}, args...))
	return cfg, disks, err
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, "Towers of Hanoi v"+Version) {
		t.Errorf("Unexpected version output: %q", out)
	}
}

func TestLoadSettings_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, disks, err := settingsFor(t)
	if err != nil {
		t.Fatalf("loadSettings failed: %v", err)
	}
	if cfg.DefaultDisks != engine.DefaultDisks {
		t.Errorf("Expected default disks %d, got %d", engine.DefaultDisks, cfg.DefaultDisks)
	}
	if disks != 0 {
		t.Errorf("Expected disks 0 (ask), got %d", disks)
	}
	if cfg.SpectateAddr != "" {
		t.Errorf("Expected no spectator address, got %q", cfg.SpectateAddr)
	}
}

func TestLoadSettings_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")

	fileCfg := config.Default()
	fileCfg.DefaultDisks = 6
	fileCfg.SpectateAddr = ":7000"
	fileCfg.LogLevel = "warn"
	if err := config.Save(path, fileCfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// File only
	cfg, _, err := settingsFor(t, "--config", path)
	if err != nil {
		t.Fatalf("loadSettings failed: %v", err)
	}
	if cfg.DefaultDisks != 6 || cfg.SpectateAddr != ":7000" || cfg.LogLevel != "warn" {
		t.Errorf("Expected file values, got %+v", cfg)
	}

	// Environment beats file
	t.Setenv("HANOI_SPECTATE_ADDR", ":7100")
	t.Setenv("HANOI_LOG_LEVEL", "error")
	cfg, _, err = settingsFor(t, "--config", path)
	if err != nil {
		t.Fatalf("loadSettings failed: %v", err)
	}
	if cfg.SpectateAddr != ":7100" || cfg.LogLevel != "error" {
		t.Errorf("Expected environment values, got %+v", cfg)
	}

	// Flags beat environment
	cfg, _, err = settingsFor(t, "--config", path, "--spectate", ":7200", "--debug")
	if err != nil {
		t.Fatalf("loadSettings failed: %v", err)
	}
	if cfg.SpectateAddr != ":7200" {
		t.Errorf("Expected flag address, got %q", cfg.SpectateAddr)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected --debug to force debug level, got %q", cfg.LogLevel)
	}
}

func TestLoadSettings_Errors(t *testing.T) {
	dir := t.TempDir()

	// Explicit config that does not exist
	_, _, err := settingsFor(t, "--config", filepath.Join(dir, "missing.json"))
	if !errors.Is(err, config.ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound, got %v", err)
	}

	t.Chdir(dir)

	_, _, err = settingsFor(t, "--disks", "12")
	if !errors.Is(err, engine.ErrDiskCountOutOfRange) {
		t.Errorf("Expected ErrDiskCountOutOfRange, got %v", err)
	}

	_, _, err = settingsFor(t, "--log-level", "loud")
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}

	t.Setenv("HANOI_DISKS", "5")
	_, disks, err := settingsFor(t)
	if err != nil {
		t.Fatalf("loadSettings failed: %v", err)
	}
	if disks != 5 {
		t.Errorf("Expected disks from HANOI_DISKS, got %d", disks)
	}
}

func TestInitAndCheckConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hanoi.json")

	out, err := runCommand(t, "--config", path, "init-config")
	if err != nil {
		t.Fatalf("init-config failed: %v", err)
	}
	if !strings.Contains(out, "Wrote default settings") {
		t.Errorf("Unexpected output: %q", out)
	}

	if _, err := runCommand(t, "--config", path, "init-config"); err == nil {
		t.Error("Expected init-config to refuse overwriting")
	}
	if _, err := runCommand(t, "--config", path, "init-config", "--force"); err != nil {
		t.Errorf("Expected --force to overwrite, got %v", err)
	}

	out, err = runCommand(t, "--config", path, "check-config")
	if err != nil {
		t.Fatalf("check-config failed: %v", err)
	}
	if !strings.Contains(out, "is valid") {
		t.Errorf("Unexpected output: %q", out)
	}

	if err := os.WriteFile(path, []byte(`{"default_disks": 20}`), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := runCommand(t, "--config", path, "check-config"); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}

	// Names the terminal could not use are caught before play
	for _, content := range []string{`{"palette": ["banana"]}`, `{"keys": {"left": ["NotAKey"]}}`} {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		if _, err := runCommand(t, "--config", path, "check-config"); !errors.Is(err, config.ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", content, err)
		}
	}
}

func TestSetupLogging(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	path := filepath.Join(t.TempDir(), "hanoi.log")
	cfg := config.Default()
	cfg.LogFile = path
	cfg.LogLevel = "debug"

	closeLog, err := setupLogging(cfg, nil)
	if err != nil {
		t.Fatalf("setupLogging failed: %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("Expected debug level, got %s", zerolog.GlobalLevel())
	}
	closeLog()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected log file to be created: %v", err)
	}

	cfg.LogFile = ""
	cfg.LogLevel = "nope"
	if _, err := setupLogging(cfg, &bytes.Buffer{}); err == nil {
		t.Error("Expected error for bad log level")
	}
}

func TestFormatSummary(t *testing.T) {
	solved := formatSummary(engine.GameResult{
		DiskCount:    3,
		MoveCount:    9,
		Elapsed:      12345 * time.Millisecond,
		IsComplete:   true,
		OptimalMoves: 7,
	})
	if solved != "Solved 3 disks in 9 moves (optimal 7) in 12.35s." {
		t.Errorf("Unexpected summary: %q", solved)
	}

	quit := formatSummary(engine.GameResult{DiskCount: 4, MoveCount: 2, Elapsed: time.Second})
	if quit != "Quit after 2 moves with 4 disks (1s)." {
		t.Errorf("Unexpected summary: %q", quit)
	}
}
