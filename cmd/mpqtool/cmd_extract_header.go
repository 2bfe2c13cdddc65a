package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

// userDataContentName is the only --name value this command accepts: the
// raw bytes of the optional user-data preamble.
const userDataContentName = "user_data.content"

func newCmdExtractHeader() *cli.Command {
	var name string
	return &cli.Command{
		Name:      "extract-header",
		Usage:     "write header-level data to standard output",
		ArgsUsage: "<archive-path>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "name",
				Usage:       fmt.Sprintf("the header field to extract; only %q is supported", userDataContentName),
				Destination: &name,
				Required:    true,
			},
		},
		Action: func(c *cli.Context) error {
			if name != userDataContentName {
				return fmt.Errorf("mpqtool: unsupported --name %q", name)
			}

			a, err := openArchive(c)
			if err != nil {
				return err
			}

			ud := a.UserData()
			if ud == nil {
				return fmt.Errorf("mpqtool: archive has no user-data header")
			}

			_, err = os.Stdout.Write(ud.Content)
			return err
		},
	}
}
