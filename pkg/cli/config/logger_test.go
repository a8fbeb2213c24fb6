package config_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/kanbot/pkg/cli/config"
)

func TestLoggerConfigure(t *testing.T) {
	var cfg config.Logger
	cfg.SetOptions("debug", "json", "stderr")

	closer, err := cfg.Configure()
	gt.NoError(t, err).Required()
	closer()
}

func TestLoggerConfigureConsole(t *testing.T) {
	var cfg config.Logger
	cfg.SetOptions("info", "console", "stderr")

	closer, err := cfg.Configure()
	gt.NoError(t, err).Required()
	closer()
}

func TestLoggerRejectsInvalidLevel(t *testing.T) {
	var cfg config.Logger
	cfg.SetOptions("verbose", "json", "stdout")

	_, err := cfg.Configure()
	gt.Error(t, err)
}

func TestLoggerRejectsInvalidFormat(t *testing.T) {
	var cfg config.Logger
	cfg.SetOptions("info", "xml", "stdout")

	_, err := cfg.Configure()
	gt.Error(t, err)
}
