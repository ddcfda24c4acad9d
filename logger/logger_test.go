package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/staticbackendhq/imageeditor/config"
)

func TestNewWritesToConsole(t *testing.T) {
	var buf bytes.Buffer

	log := New(config.AppConfig{}, &buf)
	log.Error().Err(errors.New("boom")).Str("file", "x.png").Msg("error processing image")

	out := buf.String()
	if !strings.Contains(out, "error processing image") {
		t.Errorf("expected message in output got %s", out)
	} else if !strings.Contains(out, "x.png") {
		t.Errorf("expected file field in output got %s", out)
	}
}

func TestNopDiscards(t *testing.T) {
	log := Nop()
	// must not panic
	log.Info().Msg("nothing")
}

func TestNewDevEnablesTrace(t *testing.T) {
	prev := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(prev)

	var buf bytes.Buffer

	log := New(config.AppConfig{AppEnv: config.AppEnvDev, LogConsoleLevel: "warn"}, &buf)
	log.Trace().Msg("traced")

	if !strings.Contains(buf.String(), "traced") {
		t.Errorf("expected trace output in dev got %q", buf.String())
	}
}
