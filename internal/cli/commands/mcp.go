package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/silenthink/memo-cli/internal/ai"
	"github.com/silenthink/memo-cli/internal/config"
	"github.com/silenthink/memo-cli/internal/mcp"
	"github.com/silenthink/memo-cli/internal/store"
)

// MCPCommand runs the MCP server over stdio so editors and agents can work
// with memos.
func MCPCommand(version string) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "MCP server integration",
		Subcommands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Serve MCP over stdio",
				Action: func(c *cli.Context) error {
					return withStore(func(cfg *config.Config, s *store.Store) error {
						var suggester *ai.Suggester
						if key, err := config.GetAPIKey(); err == nil && key != "" {
							suggester = ai.NewSuggester(ai.NewClient(key, ""))
						}
						return mcp.NewServer(s, suggester, version).Run(c.Context)
					})
				},
			},
			{
				Name:  "tools",
				Usage: "List the tools the MCP server exposes",
				Action: func(c *cli.Context) error {
					tools := []struct{ name, desc string }{
						{"memo_add", "create a memo"},
						{"memo_search", "search memos by text"},
						{"memo_list", "list memos by category and sort"},
						{"memo_list_categories", "list available categories"},
						{"suggest_category", "AI category suggestion"},
					}
					for _, tool := range tools {
						fmt.Printf("%-22s %s\n", tool.name, tool.desc)
					}
					return nil
				},
			},
			{
				Name:  "config",
				Usage: "Print a client configuration snippet",
				Action: func(c *cli.Context) error {
					fmt.Println(`{
  "mcpServers": {
    "memo": {
      "command": "memo",
      "args": ["mcp", "serve"]
    }
  }
}`)
					return nil
				},
			},
		},
	}
}
