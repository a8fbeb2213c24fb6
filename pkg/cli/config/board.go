package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/kanbot/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Board holds CLI flags for the board seed configuration: the columns every
// newly created board starts with, loaded from a TOML file.
//
//	[[column]]
//	name = "To Do"
//	color = "#93c5fd"
type Board struct {
	path string
}

type boardSeed struct {
	Columns []seedColumn `toml:"column"`
}

type seedColumn struct {
	Name  string `toml:"name"`
	Color string `toml:"color"`
}

func (c *seedColumn) Validate() error {
	if c.Name == "" {
		return goerr.New("column name is required")
	}
	return nil
}

// Flags returns CLI flags for the board seed configuration
func (x *Board) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "board-config",
			Usage:       "Path to a TOML file defining the default columns of new boards",
			Sources:     cli.EnvVars("KANBOT_BOARD_CONFIG"),
			Destination: &x.path,
		},
	}
}

// Configure loads the seed file. Without a path the seed is empty and new
// boards start with no columns.
func (x *Board) Configure() ([]usecase.DefaultColumn, error) {
	if x.path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(x.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read board config", goerr.V("path", x.path))
	}

	var seed boardSeed
	if err := toml.Unmarshal(data, &seed); err != nil {
		return nil, goerr.Wrap(err, "failed to parse board config", goerr.V("path", x.path))
	}

	columns := make([]usecase.DefaultColumn, len(seed.Columns))
	for i, col := range seed.Columns {
		if err := col.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid board config", goerr.V("path", x.path), goerr.V("index", i))
		}
		columns[i] = usecase.DefaultColumn{
			Name:  col.Name,
			Color: col.Color,
		}
	}
	return columns, nil
}
