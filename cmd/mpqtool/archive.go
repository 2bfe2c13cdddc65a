package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/sc2-tools/mpq"
)

// openArchive reads and parses the archive named by the command's first
// positional argument.
func openArchive(c *cli.Context) (*mpq.Archive, error) {
	path := c.Args().First()
	if path == "" {
		return nil, fmt.Errorf("mpqtool: missing archive path")
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mpqtool: read %s: %w", path, err)
	}

	a, err := mpq.Open(buf)
	if err != nil {
		return nil, fmt.Errorf("mpqtool: open %s: %w", path, err)
	}
	return a, nil
}
