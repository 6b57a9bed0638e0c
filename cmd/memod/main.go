// Command memod serves the memo store over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/silenthink/memo-cli/internal/ai"
	"github.com/silenthink/memo-cli/internal/backup"
	"github.com/silenthink/memo-cli/internal/server"
	"github.com/silenthink/memo-cli/internal/store"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "memod",
		Short:   "Memo HTTP daemon",
		Version: Version,
	}
	root.AddCommand(serveCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func serveCommand() *cobra.Command {
	var apiKey string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := server.LoadConfig()
			if err != nil {
				return err
			}

			s, err := store.Open(store.Options{
				Driver: cfg.DatabaseDriver,
				DSN:    cfg.DatabaseDSN,
				Debug:  cfg.Debug,
			})
			if err != nil {
				return err
			}
			defer s.Close()

			var suggester *ai.Suggester
			if apiKey == "" {
				apiKey = os.Getenv("MEMO_API_KEY")
			}
			if apiKey != "" {
				suggester = ai.NewSuggester(ai.NewClient(apiKey, ""))
			}

			backups := backup.NewManager(s, cfg.BackupDir)
			srv := server.New(s, backups, suggester)

			fmt.Printf("memod listening on %s (database: %s)\n", cfg.ListenAddr, cfg.DatabaseDriver)
			return srv.Router(cfg.Debug).Run(cfg.ListenAddr)
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "AI API key for the suggestion endpoint")
	return cmd
}
