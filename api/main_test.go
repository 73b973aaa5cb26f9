package api

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestMain(m *testing.M) {
	log.Logger = zerolog.Nop()
	os.Exit(m.Run())
}

func TestLoggerSilencedDuringTests(t *testing.T) {
	if log.Logger.GetLevel() != zerolog.Disabled {
		t.Errorf("Expected disabled logger, got %s", log.Logger.GetLevel())
	}
}
