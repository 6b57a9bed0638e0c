// Package commands implements the memo CLI subcommands.
package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/silenthink/memo-cli/internal/config"
	"github.com/silenthink/memo-cli/internal/models"
	"github.com/silenthink/memo-cli/internal/store"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	urgentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	importStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
)

// openStore opens the database configured in ~/.memo/config.json.
func openStore(cfg *config.Config) (*store.Store, error) {
	dbPath, err := cfg.ResolveDatabasePath()
	if err != nil {
		return nil, err
	}
	return store.Open(store.Options{Driver: "sqlite", DSN: dbPath})
}

// withStore loads the config, opens the store, runs fn and closes the store.
func withStore(fn func(cfg *config.Config, s *store.Store) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(cfg, s)
}

// isInteractive reports whether stdin is a terminal. Prompts are skipped in
// pipes and scripts.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func printSuccess(format string, args ...interface{}) {
	fmt.Println(successStyle.Render(fmt.Sprintf(format, args...)))
}

func printError(format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf(format, args...)))
}

func priorityCell(priority int) string {
	text := models.PriorityText(priority)
	switch priority {
	case models.PriorityUrgent:
		return urgentStyle.Render(text)
	case models.PriorityImportant:
		return importStyle.Render(text)
	default:
		return dimStyle.Render(text)
	}
}

// renderMemoTable prints memos as an aligned table.
func renderMemoTable(memos []models.Memo) {
	if len(memos) == 0 {
		fmt.Println(dimStyle.Render("No memos found."))
		return
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("%-5s %-30s %-12s %-10s %-16s",
		"ID", "TITLE", "CATEGORY", "PRIORITY", "MODIFIED")))
	for _, m := range memos {
		fmt.Printf("%-5d %-30s %-12s %-10s %-16s\n",
			m.ID,
			truncate(m.Title, 30),
			truncate(m.Category, 12),
			priorityCell(m.Priority),
			m.ModifiedDate.Format("2006-01-02 15:04"))
	}
	fmt.Println(dimStyle.Render(fmt.Sprintf("%d memo(s)", len(memos))))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// sortFlagUsage describes the accepted sort names for flag help text.
func sortFlagUsage() string {
	return "sort order: " + strings.Join(models.SortOptionNames(), ", ")
}
