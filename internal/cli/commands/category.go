package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/silenthink/memo-cli/internal/config"
	"github.com/silenthink/memo-cli/internal/query"
	"github.com/silenthink/memo-cli/internal/store"
)

// CategoryCommand groups category operations.
func CategoryCommand() *cli.Command {
	return &cli.Command{
		Name:    "category",
		Aliases: []string{"cat"},
		Usage:   "Work with categories",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List available categories",
				Action: func(c *cli.Context) error {
					return withStore(func(cfg *config.Config, s *store.Store) error {
						stored, err := s.Memos.Categories()
						if err != nil {
							return err
						}
						for _, cat := range query.BuildVocabulary(stored) {
							fmt.Println(cat)
						}
						return nil
					})
				},
			},
			{
				Name:      "suggest",
				Usage:     "Suggest a category for a memo with AI",
				ArgsUsage: "<title> [content]",
				Action: func(c *cli.Context) error {
					title := c.Args().First()
					if title == "" {
						return fmt.Errorf("title is required")
					}
					content := c.Args().Get(1)
					suggestion, err := suggestCategory(c.Context, title, content)
					if err != nil {
						return err
					}
					fmt.Println(titleStyle.Render(suggestion.Category))
					fmt.Printf("confidence: %.2f\n", suggestion.Confidence)
					fmt.Println(dimStyle.Render(suggestion.Reason))
					return nil
				},
			},
		},
	}
}
