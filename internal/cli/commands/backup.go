package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/urfave/cli/v2"

	"github.com/silenthink/memo-cli/internal/backup"
	"github.com/silenthink/memo-cli/internal/config"
	"github.com/silenthink/memo-cli/internal/store"
)

// BackupCommand groups snapshot operations.
func BackupCommand() *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "Create, inspect and restore backups",
		Subcommands: []*cli.Command{
			backupCreateCommand(),
			backupListCommand(),
			backupInfoCommand(),
			backupRestoreCommand(),
			backupDeleteCommand(),
		},
	}
}

func newManager(cfg *config.Config, s *store.Store) (*backup.Manager, error) {
	dir, err := cfg.ResolveBackupDir()
	if err != nil {
		return nil, err
	}
	return backup.NewManager(s, dir), nil
}

func backupCreateCommand() *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Write a new backup file",
		Action: func(c *cli.Context) error {
			return withStore(func(cfg *config.Config, s *store.Store) error {
				mgr, err := newManager(cfg, s)
				if err != nil {
					return err
				}
				path, err := mgr.Create()
				if err != nil {
					return err
				}
				printSuccess("Backup written to %s", path)
				return nil
			})
		},
	}
}

func backupListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List backup files, most recent first",
		Action: func(c *cli.Context) error {
			return withStore(func(cfg *config.Config, s *store.Store) error {
				mgr, err := newManager(cfg, s)
				if err != nil {
					return err
				}
				infos, err := mgr.List()
				if err != nil {
					return err
				}
				if len(infos) == 0 {
					fmt.Println(dimStyle.Render("No backups found."))
					return nil
				}
				fmt.Println(headerStyle.Render(fmt.Sprintf("%-40s %-20s %6s %6s %8s",
					"FILE", "TAKEN", "MEMOS", "USERS", "SIZE")))
				for _, info := range infos {
					fmt.Printf("%-40s %-20s %6d %6d %8d\n",
						truncate(info.FileName, 40),
						info.BackupTime.Format("2006-01-02 15:04:05"),
						info.MemoCount, info.UserCount, info.FileSize)
				}
				return nil
			})
		},
	}
}

func backupInfoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Show the contents summary of one backup file",
		ArgsUsage: "<path>",
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return fmt.Errorf("backup path is required")
			}
			return withStore(func(cfg *config.Config, s *store.Store) error {
				mgr, err := newManager(cfg, s)
				if err != nil {
					return err
				}
				snapshot, err := mgr.Load(path)
				if err != nil {
					return err
				}
				fmt.Printf("version:  %d\n", snapshot.Version)
				fmt.Printf("taken at: %s\n", snapshot.BackupTime.Time().Format("2006-01-02 15:04:05"))
				fmt.Printf("memos:    %d\n", len(snapshot.Memos))
				fmt.Printf("users:    %d\n", len(snapshot.Users))
				return nil
			})
		},
	}
}

func backupRestoreCommand() *cli.Command {
	return &cli.Command{
		Name:      "restore",
		Usage:     "Restore memos and users from a backup file",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "clear",
				Usage: "delete existing memos before restoring (user accounts are kept)",
			},
			&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "skip confirmation"},
		},
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return fmt.Errorf("backup path is required")
			}
			return withStore(func(cfg *config.Config, s *store.Store) error {
				mgr, err := newManager(cfg, s)
				if err != nil {
					return err
				}

				if !c.Bool("force") && isInteractive() {
					message := "Restore this backup?"
					if c.Bool("clear") {
						message = "Restore this backup and DELETE all existing memos first?"
					}
					confirmed := false
					if err := survey.AskOne(&survey.Confirm{Message: message}, &confirmed); err != nil {
						return err
					}
					if !confirmed {
						fmt.Println("Cancelled.")
						return nil
					}
				}

				snapshot, report, err := mgr.Restore(path, c.Bool("clear"))
				if err != nil {
					return err
				}
				printSuccess("Restored backup from %s",
					snapshot.BackupTime.Time().Format("2006-01-02 15:04:05"))
				if report.MemosCleared {
					fmt.Println("existing memos cleared")
				}
				fmt.Printf("memos: %d restored, %d failed\n", report.MemosInserted, report.MemosFailed)
				fmt.Printf("users: %d restored, %d skipped, %d failed\n",
					report.UsersInserted, report.UsersSkipped, report.UsersFailed)
				return nil
			})
		},
	}
}

func backupDeleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a backup file",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "skip confirmation"},
		},
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return fmt.Errorf("backup path is required")
			}
			return withStore(func(cfg *config.Config, s *store.Store) error {
				mgr, err := newManager(cfg, s)
				if err != nil {
					return err
				}

				if !c.Bool("force") && isInteractive() {
					confirmed := false
					prompt := &survey.Confirm{Message: fmt.Sprintf("Delete backup %s?", path)}
					if err := survey.AskOne(prompt, &confirmed); err != nil {
						return err
					}
					if !confirmed {
						fmt.Println("Cancelled.")
						return nil
					}
				}

				removed, err := mgr.Delete(path)
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("backup file not found: %s", path)
				}
				printSuccess("Deleted %s", path)
				return nil
			})
		},
	}
}
