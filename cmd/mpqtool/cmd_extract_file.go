package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func newCmdExtractFile() *cli.Command {
	var name string
	return &cli.Command{
		Name:      "extract-file",
		Usage:     "write a named embedded file's plaintext to standard output",
		ArgsUsage: "<archive-path>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "name",
				Usage:       "the embedded file's path within the archive",
				Destination: &name,
				Required:    true,
			},
		},
		Action: func(c *cli.Context) error {
			a, err := openArchive(c)
			if err != nil {
				return err
			}

			_, _, ok := a.Lookup(name)
			if !ok {
				return fmt.Errorf("mpqtool: %q not found in archive", name)
			}

			data, err := a.Read(name)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}
}
