package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v2"

	"github.com/silenthink/memo-cli/internal/ai"
	"github.com/silenthink/memo-cli/internal/config"
	"github.com/silenthink/memo-cli/internal/models"
	"github.com/silenthink/memo-cli/internal/query"
	"github.com/silenthink/memo-cli/internal/store"
)

// AddCommand creates a memo. With --ai the category is suggested from the
// title and content before saving.
func AddCommand() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Create a new memo",
		ArgsUsage: "<title>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "content", Aliases: []string{"c"}, Usage: "memo body"},
			&cli.StringFlag{Name: "category", Usage: "category name", Value: models.DefaultCategory},
			&cli.StringFlag{Name: "priority", Aliases: []string{"p"}, Usage: "normal, important or urgent", Value: "normal"},
			&cli.StringFlag{Name: "image", Usage: "path to an attached image"},
			&cli.BoolFlag{Name: "ai", Usage: "suggest the category with AI"},
		},
		Action: func(c *cli.Context) error {
			title := c.Args().First()
			if title == "" {
				return fmt.Errorf("title is required")
			}
			return withStore(func(cfg *config.Config, s *store.Store) error {
				category := c.String("category")
				content := c.String("content")

				if c.Bool("ai") {
					suggested, err := suggestCategory(c.Context, title, content)
					if err != nil {
						printError("AI suggestion failed: %v", err)
					} else {
						category = suggested.Category
						fmt.Printf("Suggested category: %s (confidence %.2f)\n",
							suggested.Category, suggested.Confidence)
						fmt.Println(dimStyle.Render(suggested.Reason))
						if isInteractive() {
							keep := true
							prompt := &survey.Confirm{
								Message: fmt.Sprintf("Use category %q?", suggested.Category),
								Default: true,
							}
							if err := survey.AskOne(prompt, &keep); err == nil && !keep {
								category = c.String("category")
							}
						}
					}
				}

				now := time.Now()
				memo := models.Memo{
					Title:        title,
					Content:      content,
					Category:     category,
					Priority:     models.ParsePriority(c.String("priority")),
					ImagePath:    c.String("image"),
					CreatedDate:  now,
					ModifiedDate: now,
				}
				id, err := s.Memos.Insert(&memo)
				if err != nil {
					return err
				}
				printSuccess("Created memo %d in category %s", id, category)
				return nil
			})
		},
	}
}

// ListCommand lists memos through the query composer, so category filter,
// search text and sort combine with the same rules everywhere.
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List memos",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "category", Usage: "filter by category", Value: models.CategoryAll},
			&cli.StringFlag{Name: "search", Aliases: []string{"q"}, Usage: "filter by search text"},
			&cli.StringFlag{Name: "sort", Aliases: []string{"s"}, Usage: sortFlagUsage(), Value: "modified-desc"},
		},
		Action: func(c *cli.Context) error {
			return withStore(func(cfg *config.Config, s *store.Store) error {
				memos, err := runQuery(s, c.String("search"), c.String("category"),
					resolveSort(cfg, c.String("sort"), c.IsSet("sort")))
				if err != nil {
					return err
				}
				renderMemoTable(memos)
				return nil
			})
		},
	}
}

// SearchCommand is shorthand for list with a search term.
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search memos by text",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "category", Usage: "restrict to one category", Value: models.CategoryAll},
		},
		Action: func(c *cli.Context) error {
			text := c.Args().First()
			if text == "" {
				return fmt.Errorf("search text is required")
			}
			return withStore(func(cfg *config.Config, s *store.Store) error {
				memos, err := runQuery(s, text, c.String("category"), models.SortModifiedDateDesc)
				if err != nil {
					return err
				}
				renderMemoTable(memos)
				return nil
			})
		},
	}
}

// ViewCommand shows one memo. --render formats the content as markdown,
// --copy puts it on the clipboard.
func ViewCommand() *cli.Command {
	return &cli.Command{
		Name:      "view",
		Usage:     "Show a memo",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "render", Aliases: []string{"r"}, Usage: "render content as markdown"},
			&cli.BoolFlag{Name: "copy", Usage: "copy content to the clipboard"},
		},
		Action: func(c *cli.Context) error {
			id, err := parseID(c.Args().First())
			if err != nil {
				return err
			}
			return withStore(func(cfg *config.Config, s *store.Store) error {
				memo, err := s.Memos.GetByID(id)
				if err != nil {
					if errors.Is(err, store.ErrNotFound) {
						return fmt.Errorf("memo %d not found", id)
					}
					return err
				}

				fmt.Println(titleStyle.Render(memo.Title))
				fmt.Println(dimStyle.Render(fmt.Sprintf("#%d · %s · %s · created %s · modified %s",
					memo.ID, memo.Category, models.PriorityText(memo.Priority),
					memo.CreatedDate.Format("2006-01-02 15:04"),
					memo.ModifiedDate.Format("2006-01-02 15:04"))))
				if memo.ImagePath != "" {
					fmt.Println(dimStyle.Render("image: " + memo.ImagePath))
				}
				fmt.Println()

				if c.Bool("render") {
					rendered, err := glamour.Render(memo.Content, "dark")
					if err != nil {
						fmt.Println(memo.Content)
					} else {
						fmt.Print(rendered)
					}
				} else {
					fmt.Println(memo.Content)
				}

				if c.Bool("copy") {
					if err := clipboard.WriteAll(memo.Content); err != nil {
						printError("failed to copy to clipboard: %v", err)
					} else {
						printSuccess("Copied to clipboard")
					}
				}
				return nil
			})
		},
	}
}

// EditCommand updates memo fields. Only the flags given change; the modified
// date always advances.
func EditCommand() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Update a memo",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "new title"},
			&cli.StringFlag{Name: "content", Aliases: []string{"c"}, Usage: "new body"},
			&cli.StringFlag{Name: "category", Usage: "new category"},
			&cli.StringFlag{Name: "priority", Aliases: []string{"p"}, Usage: "new priority"},
			&cli.StringFlag{Name: "image", Usage: "new image path"},
		},
		Action: func(c *cli.Context) error {
			id, err := parseID(c.Args().First())
			if err != nil {
				return err
			}
			return withStore(func(cfg *config.Config, s *store.Store) error {
				memo, err := s.Memos.GetByID(id)
				if err != nil {
					if errors.Is(err, store.ErrNotFound) {
						return fmt.Errorf("memo %d not found", id)
					}
					return err
				}

				changed := false
				if c.IsSet("title") {
					memo.Title = c.String("title")
					changed = true
				}
				if c.IsSet("content") {
					memo.Content = c.String("content")
					changed = true
				}
				if c.IsSet("category") {
					memo.Category = c.String("category")
					changed = true
				}
				if c.IsSet("priority") {
					memo.Priority = models.ParsePriority(c.String("priority"))
					changed = true
				}
				if c.IsSet("image") {
					memo.ImagePath = c.String("image")
					changed = true
				}
				if !changed {
					return fmt.Errorf("nothing to change, pass at least one field flag")
				}

				memo.ModifiedDate = time.Now()
				if err := s.Memos.Update(memo); err != nil {
					return err
				}
				printSuccess("Updated memo %d", id)
				return nil
			})
		},
	}
}

// DeleteCommand removes a memo, asking for confirmation on a terminal.
func DeleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a memo",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "skip confirmation"},
		},
		Action: func(c *cli.Context) error {
			id, err := parseID(c.Args().First())
			if err != nil {
				return err
			}
			return withStore(func(cfg *config.Config, s *store.Store) error {
				memo, err := s.Memos.GetByID(id)
				if err != nil {
					if errors.Is(err, store.ErrNotFound) {
						return fmt.Errorf("memo %d not found", id)
					}
					return err
				}

				if !c.Bool("force") && isInteractive() {
					confirmed := false
					prompt := &survey.Confirm{
						Message: fmt.Sprintf("Delete memo %d %q?", memo.ID, memo.Title),
					}
					if err := survey.AskOne(prompt, &confirmed); err != nil {
						return err
					}
					if !confirmed {
						fmt.Println("Cancelled.")
						return nil
					}
				}

				if err := s.Memos.Delete(memo); err != nil {
					return err
				}
				printSuccess("Deleted memo %d", id)
				return nil
			})
		},
	}
}

// runQuery executes one list query through the composer and waits for the
// delivery.
func runQuery(s *store.Store, search, category string, sort models.SortOption) ([]models.Memo, error) {
	type result struct {
		memos []models.Memo
		err   error
	}
	ch := make(chan result, 1)
	composer := query.New(s.Memos, func(memos []models.Memo, err error) {
		ch <- result{memos, err}
	})
	defer composer.Close()

	composer.Set(search, category, sort)

	select {
	case res := <-ch:
		return res.memos, res.err
	case <-time.After(10 * time.Second):
		return nil, fmt.Errorf("query timed out")
	}
}

// resolveSort picks the sort option: an explicit --sort wins, then the
// configured default, then modified-desc.
func resolveSort(cfg *config.Config, flagValue string, flagSet bool) models.SortOption {
	if flagSet {
		return models.ParseSortOption(flagValue)
	}
	if cfg.DefaultSort != "" {
		return models.ParseSortOption(cfg.DefaultSort)
	}
	return models.ParseSortOption(flagValue)
}

// suggestCategory builds a suggester from the stored API key and runs one
// suggestion.
func suggestCategory(ctx context.Context, title, content string) (*models.CategorySuggestion, error) {
	key, err := config.GetAPIKey()
	if err != nil {
		return nil, err
	}
	suggester := ai.NewSuggester(ai.NewClient(key, ""))
	return suggester.Suggest(ctx, title, content)
}

func parseID(arg string) (int64, error) {
	if arg == "" {
		return 0, fmt.Errorf("memo id is required")
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid memo id %q", arg)
	}
	return id, nil
}
