// Command memo is the memo-taking CLI.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/silenthink/memo-cli/internal/cli/commands"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	app := &cli.App{
		Name:    "memo",
		Usage:   "Take, organize and back up notes from the terminal",
		Version: Version,
		Commands: []*cli.Command{
			commands.AddCommand(),
			commands.ListCommand(),
			commands.SearchCommand(),
			commands.ViewCommand(),
			commands.EditCommand(),
			commands.DeleteCommand(),
			commands.CategoryCommand(),
			commands.BackupCommand(),
			commands.SetupCommand(),
			commands.MCPCommand(Version),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
