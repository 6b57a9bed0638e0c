package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/urfave/cli/v2"

	"github.com/silenthink/memo-cli/internal/auth"
	"github.com/silenthink/memo-cli/internal/config"
	"github.com/silenthink/memo-cli/internal/store"
)

// SetupCommand groups account and API key management.
func SetupCommand() *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Manage your account and API key",
		Subcommands: []*cli.Command{
			registerCommand(),
			loginCommand(),
			logoutCommand(),
			whoamiCommand(),
			apiKeyCommand(),
		},
	}
}

func registerCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "Create a new account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Aliases: []string{"u"}},
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "prompted when omitted"},
		},
		Action: func(c *cli.Context) error {
			username := c.String("username")
			email := c.String("email")
			password := c.String("password")

			if isInteractive() {
				if username == "" {
					if err := survey.AskOne(&survey.Input{Message: "Username:"}, &username); err != nil {
						return err
					}
				}
				if email == "" {
					if err := survey.AskOne(&survey.Input{Message: "Email:"}, &email); err != nil {
						return err
					}
				}
				if password == "" {
					if err := survey.AskOne(&survey.Password{Message: "Password:"}, &password); err != nil {
						return err
					}
				}
			}

			return withStore(func(cfg *config.Config, s *store.Store) error {
				svc := auth.NewService(s.Users)
				user, err := svc.Register(username, email, password)
				if err != nil {
					return err
				}
				printSuccess("Registered %s", user.Username)
				return nil
			})
		},
	}
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in and store a session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Aliases: []string{"u"}},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "prompted when omitted"},
		},
		Action: func(c *cli.Context) error {
			username := c.String("username")
			password := c.String("password")

			if isInteractive() {
				if username == "" {
					if err := survey.AskOne(&survey.Input{Message: "Username:"}, &username); err != nil {
						return err
					}
				}
				if password == "" {
					if err := survey.AskOne(&survey.Password{Message: "Password:"}, &password); err != nil {
						return err
					}
				}
			}

			return withStore(func(cfg *config.Config, s *store.Store) error {
				svc := auth.NewService(s.Users)
				session, err := svc.Login(username, password)
				if err != nil {
					return err
				}
				cfg.Session = session
				if err := config.Save(cfg); err != nil {
					return err
				}
				printSuccess("Logged in as %s", session.Username)
				return nil
			})
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Discard the stored session",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Session == nil {
				fmt.Println("Not logged in.")
				return nil
			}
			username := cfg.Session.Username
			cfg.Session = nil
			if err := config.Save(cfg); err != nil {
				return err
			}
			printSuccess("Logged out %s", username)
			return nil
		},
	}
}

func whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the current session",
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Session == nil {
				fmt.Println("Not logged in.")
				return nil
			}
			fmt.Println(cfg.Session.Username)
			fmt.Println(dimStyle.Render("since " + cfg.Session.LoginAt))
			return nil
		},
	}
}

// maskKey keeps the prefix and last four characters visible.
func maskKey(key string) string {
	if len(key) <= 7 {
		return "****"
	}
	return key[:3] + "****" + key[len(key)-4:]
}

func apiKeyCommand() *cli.Command {
	return &cli.Command{
		Name:  "api-key",
		Usage: "Manage the AI API key",
		Subcommands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "Store an API key",
				ArgsUsage: "[key]",
				Action: func(c *cli.Context) error {
					key := c.Args().First()
					if key == "" && isInteractive() {
						if err := survey.AskOne(&survey.Password{Message: "API key:"}, &key); err != nil {
							return err
						}
					}
					if err := config.SetAPIKey(key); err != nil {
						return err
					}
					printSuccess("API key stored")
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "Report whether an API key is configured",
				Action: func(c *cli.Context) error {
					key, err := config.GetAPIKey()
					if err != nil || key == "" {
						fmt.Println("No API key configured.")
						return nil
					}
					printSuccess("API key configured: %s", maskKey(key))
					return nil
				},
			},
			{
				Name:  "delete",
				Usage: "Remove the stored API key",
				Action: func(c *cli.Context) error {
					if err := config.DeleteAPIKey(); err != nil {
						return err
					}
					printSuccess("API key removed")
					return nil
				},
			},
		},
	}
}
