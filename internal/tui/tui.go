package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/timetrack/internal/models"
	"github.com/balkashynov/timetrack/internal/parser"
)

// RunEntryFormTUI starts the interactive entry logging TUI for a user
func RunEntryFormTUI(actor *models.User) error {
	model := NewEntryFormModel(actor)

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()

	// Handle exit messages after TUI closes
	if err != nil {
		return err
	}

	if m, ok := finalModel.(EntryFormModel); ok {
		if m.cancelled {
			fmt.Println("❌ Entry cancelled.")
		} else if m.completed && m.createdEntry != nil {
			entry := m.createdEntry
			fmt.Printf("✅ Logged %.2fh on %s for %s (rate %.2f/h, %s)\n",
				entry.Hours, entry.Project, parser.FormatEntryDate(entry.Date),
				entry.BillingRate, entry.RateSource)
		} else if m.err != nil {
			fmt.Printf("❌ Error: %v\n", m.err)
		}
	}

	return nil
}
