package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/kanbot/pkg/cli/config"
)

func writeSeedFile(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "board.toml")
	gt.NoError(t, os.WriteFile(path, []byte(data), 0600)).Required()
	return path
}

func TestBoardSeedLoad(t *testing.T) {
	path := writeSeedFile(t, `
[[column]]
name = "To Do"
color = "#93c5fd"

[[column]]
name = "In Progress"

[[column]]
name = "Done"
color = "#86efac"
`)

	var cfg config.Board
	cfg.SetPath(path)

	columns, err := cfg.Configure()
	gt.NoError(t, err).Required()
	gt.Array(t, columns).Length(3).Required()
	gt.Value(t, columns[0].Name).Equal("To Do")
	gt.Value(t, columns[0].Color).Equal("#93c5fd")
	gt.Value(t, columns[1].Color).Equal("")
	gt.Value(t, columns[2].Name).Equal("Done")
}

func TestBoardSeedRejectsMissingName(t *testing.T) {
	path := writeSeedFile(t, `
[[column]]
color = "#93c5fd"
`)

	var cfg config.Board
	cfg.SetPath(path)

	_, err := cfg.Configure()
	gt.Error(t, err)
}

func TestBoardSeedWithoutPath(t *testing.T) {
	var cfg config.Board

	columns, err := cfg.Configure()
	gt.NoError(t, err).Required()
	gt.Array(t, columns).Length(0)
}

func TestBoardSeedMissingFile(t *testing.T) {
	var cfg config.Board
	cfg.SetPath(filepath.Join(t.TempDir(), "nope.toml"))

	_, err := cfg.Configure()
	gt.Error(t, err)
}
