package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func newCmdList() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "print every file the archive's listfile resolves, one per line",
		ArgsUsage: "<archive-path>",
		Action: func(c *cli.Context) error {
			a, err := openArchive(c)
			if err != nil {
				return err
			}

			files, err := a.List()
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Printf("%s %d\n", f.Name, f.Size)
			}
			return nil
		},
	}
}
