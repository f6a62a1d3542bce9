package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/timetrack/internal/db"
	"github.com/balkashynov/timetrack/internal/models"
	"github.com/balkashynov/timetrack/internal/parser"
)

// Step represents the current step in the entry wizard
type Step int

const (
	StepProject Step = iota
	StepHours
	StepDate
	StepNote
	StepSave
)

// EntryFormModel is the TUI model for logging a time entry interactively
type EntryFormModel struct {
	currentStep Step
	inputs      []textinput.Model
	width       int
	height      int

	actor *models.User

	// Entry data
	project string
	hours   string
	date    string
	note    string

	// State
	err           error
	completed     bool
	cancelled     bool
	validationErr string
	createdEntry  *models.TimeEntry
}

// NewEntryFormModel creates a new entry form TUI model
func NewEntryFormModel(actor *models.User) EntryFormModel {
	inputs := make([]textinput.Model, 4)

	// Apply color theme to all inputs
	for i := 0; i < 4; i++ {
		inputs[i] = textinput.New()
		inputs[i].Width = 60

		inputs[i].TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
		inputs[i].PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
		inputs[i].Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	}

	// Project input
	inputs[0].Placeholder = "Project name... (required)"
	inputs[0].Focus()
	inputs[0].CharLimit = 100

	// Hours input
	inputs[1].Placeholder = "Hours worked, e.g. 1.5 (required)"
	inputs[1].CharLimit = 6

	// Date input
	inputs[2].Placeholder = "today, yesterday, monday, -2d or 2006-01-02 (Enter for today)"
	inputs[2].CharLimit = 20

	// Note input
	inputs[3].Placeholder = "What did you work on? (Enter to skip)"
	inputs[3].CharLimit = 500

	return EntryFormModel{
		currentStep: StepProject,
		inputs:      inputs,
		actor:       actor,
	}
}

// Init initializes the model
func (m EntryFormModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m EntryFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Update input field widths based on available space
		maxInputWidth := (m.width * 2 / 3) - 10
		if maxInputWidth < 30 {
			maxInputWidth = 30
		}
		if maxInputWidth > 80 {
			maxInputWidth = 80
		}
		for i := range m.inputs {
			m.inputs[i].Width = maxInputWidth
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "tab", "down":
			// Required fields cannot be skipped
			if msg := m.requiredFieldError(); msg != "" {
				m.validationErr = msg
				return m, nil
			}
			return m.nextStep()

		case "shift+tab", "up":
			return m.prevStep()
		}
	}

	// Update the current input (only for input steps, not Save step)
	var cmd tea.Cmd
	if m.currentStep < StepSave {
		m.inputs[m.currentStep], cmd = m.inputs[m.currentStep].Update(msg)
		m.updateCurrentField()
	}

	return m, cmd
}

// View renders the TUI
func (m EntryFormModel) View() string {
	if m.cancelled || m.completed {
		return "" // Exit message is printed after the TUI closes
	}

	if m.width < 85 {
		return m.renderSmallLayout()
	}

	rightWidth := (m.width * 35) / 100
	if rightWidth < 40 {
		rightWidth = 40
	}
	leftWidth := m.width - rightWidth - 4
	if leftWidth < 30 {
		leftWidth = 30
		rightWidth = m.width - leftWidth - 4
	}

	leftStyle := lipgloss.NewStyle().
		Width(leftWidth).
		Height(m.height - 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1)

	rightStyle := lipgloss.NewStyle().
		Width(rightWidth).
		Height(m.height - 2).
		Padding(1)

	leftPanel := leftStyle.Render(m.renderWizard())
	rightPanel := rightStyle.Render(m.renderPreview(rightWidth))

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftPanel,
		" ",
		rightPanel,
	)
}

// renderWizard renders the step-by-step wizard
func (m EntryFormModel) renderWizard() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright)).
		MarginBottom(1)

	b.WriteString(titleStyle.Render(fmt.Sprintf("⏱️  Log Time as %s", m.actor.Email)))
	b.WriteString("\n\n")

	// Step indicator
	stepLabels := []string{"Project", "Hours", "Date", "Note", "Save"}

	currentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)
	doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess))
	futureStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	skippedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText))

	for i, label := range stepLabels {
		step := Step(i)
		if step == StepSave {
			b.WriteString("\n")
		}
		switch {
		case step == m.currentStep:
			b.WriteString(currentStyle.Render("▶ "+label) + "\n")
		case step < m.currentStep && m.stepHasValue(step):
			b.WriteString(doneStyle.Render("✓ "+label) + "\n")
		case step < m.currentStep:
			b.WriteString(skippedStyle.Render("  "+label) + "\n")
		default:
			b.WriteString(futureStyle.Render("  "+label) + "\n")
		}
	}
	b.WriteString("\n")

	// Current input field
	switch m.currentStep {
	case StepProject:
		b.WriteString("📁 Project\n")
		b.WriteString(m.inputs[0].View())
	case StepHours:
		b.WriteString("⏱️  Hours\n")
		b.WriteString(m.inputs[1].View())
	case StepDate:
		b.WriteString("📅 Date\n")
		b.WriteString(m.inputs[2].View())
	case StepNote:
		b.WriteString("💬 Note\n")
		b.WriteString(m.inputs[3].View())
	case StepSave:
		b.WriteString("💾 Save Entry\n")
		b.WriteString("Press Enter to log the entry")
	}

	if m.validationErr != "" {
		errorStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)).
			Bold(true).
			MarginTop(1)
		b.WriteString("\n" + errorStyle.Render("❌ "+m.validationErr))
	}
	if m.err != nil {
		errorStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)).
			Bold(true).
			MarginTop(1)
		b.WriteString("\n" + errorStyle.Render("❌ "+m.err.Error()))
	}

	b.WriteString("\n\n")

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true)
	b.WriteString(helpStyle.Render("Enter: Next | Tab/↓: Next | Shift+Tab/↑: Back | Esc: Cancel"))

	return b.String()
}

// renderPreview renders the live entry preview card
func (m EntryFormModel) renderPreview(panelWidth int) string {
	var card strings.Builder

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentMain)).
		Bold(true).
		Align(lipgloss.Center)
	card.WriteString(headerStyle.Render("── NEW ENTRY ──"))
	card.WriteString("\n\n")

	project := m.project
	if project == "" {
		project = "(no project yet)"
	}
	card.WriteString(fmt.Sprintf("📁 %s\n", project))

	if m.hours != "" {
		card.WriteString(fmt.Sprintf("⏱️  %sh\n", m.hours))
	}

	dateText := "today"
	if parsed, err := parser.ParseEntryDate(m.date, time.Now()); err == nil {
		dateText = parser.FormatEntryDate(parsed)
	} else if m.date != "" {
		dateText = m.date
	}
	card.WriteString(fmt.Sprintf("📅 %s\n", dateText))

	if m.note != "" {
		noteStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true)
		card.WriteString(fmt.Sprintf("💬 %s\n", noteStyle.Render(m.note)))
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Width(min(panelWidth-4, 44)).
		Padding(1)

	return cardStyle.Render(card.String())
}

// renderSmallLayout renders the TUI for small terminals
func (m EntryFormModel) renderSmallLayout() string {
	style := lipgloss.NewStyle().
		Width(m.width - 2).
		Height(m.height - 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1)

	return style.Render(m.renderWizard())
}

// requiredFieldError reports why the current step cannot be skipped
func (m EntryFormModel) requiredFieldError() string {
	switch m.currentStep {
	case StepProject:
		if strings.TrimSpace(m.project) == "" {
			return "Project is required"
		}
	case StepHours:
		if strings.TrimSpace(m.hours) == "" {
			return "Hours are required"
		}
	}
	return ""
}

// stepHasValue checks if a step has been filled with a value (not skipped)
func (m EntryFormModel) stepHasValue(step Step) bool {
	switch step {
	case StepProject:
		return strings.TrimSpace(m.project) != ""
	case StepHours:
		return strings.TrimSpace(m.hours) != ""
	case StepDate:
		return strings.TrimSpace(m.date) != ""
	case StepNote:
		return strings.TrimSpace(m.note) != ""
	default:
		return false
	}
}

// handleEnter processes the Enter key
func (m EntryFormModel) handleEnter() (EntryFormModel, tea.Cmd) {
	m.validationErr = ""

	switch m.currentStep {
	case StepProject:
		if strings.TrimSpace(m.project) == "" {
			m.validationErr = "Project is required"
			return m, nil
		}
		return m.nextStep()

	case StepHours:
		raw := strings.TrimSpace(m.inputs[1].Value())
		if raw == "" {
			m.validationErr = "Hours are required"
			return m, nil
		}
		hours, err := strconv.ParseFloat(raw, 64)
		if err != nil || hours <= 0 || hours > 24 {
			m.validationErr = "Hours must be a number between 0 and 24"
			return m, nil
		}
		m.hours = raw
		return m.nextStep()

	case StepDate:
		raw := strings.TrimSpace(m.inputs[2].Value())
		if raw != "" {
			if _, err := parser.ParseEntryDate(raw, time.Now()); err != nil {
				m.validationErr = err.Error()
				return m, nil
			}
		}
		m.date = raw
		return m.nextStep()

	case StepNote:
		return m.nextStep()

	case StepSave:
		return m.createEntry()
	}

	return m, nil
}

// nextStep moves to the next step
func (m EntryFormModel) nextStep() (EntryFormModel, tea.Cmd) {
	if m.currentStep < StepSave {
		m.inputs[m.currentStep].Blur()
		m.currentStep++
		if m.currentStep < StepSave {
			m.inputs[m.currentStep].Focus()
		}
	}
	return m, textinput.Blink
}

// prevStep moves to the previous step
func (m EntryFormModel) prevStep() (EntryFormModel, tea.Cmd) {
	if m.currentStep > StepProject {
		if m.currentStep < StepSave {
			m.inputs[m.currentStep].Blur()
		}
		m.currentStep--
		m.inputs[m.currentStep].Focus()
	}
	return m, textinput.Blink
}

// updateCurrentField updates the model field based on current input
func (m *EntryFormModel) updateCurrentField() {
	switch m.currentStep {
	case StepProject:
		m.project = m.inputs[0].Value()
	case StepHours:
		m.hours = m.inputs[1].Value()
	case StepDate:
		m.date = m.inputs[2].Value()
	case StepNote:
		m.note = m.inputs[3].Value()
	}
}

// createEntry logs the entry in the database
func (m EntryFormModel) createEntry() (EntryFormModel, tea.Cmd) {
	hours, err := strconv.ParseFloat(strings.TrimSpace(m.hours), 64)
	if err != nil {
		m.err = fmt.Errorf("invalid hours: %w", err)
		return m, nil
	}

	date, err := parser.ParseEntryDate(m.date, time.Now())
	if err != nil {
		m.err = err
		return m, nil
	}

	entry, err := db.CreateEntry(db.CreateEntryRequest{
		UserID:      m.actor.ID,
		Project:     strings.TrimSpace(m.project),
		Date:        date,
		Hours:       hours,
		Description: strings.TrimSpace(m.note),
	})
	if err != nil {
		// Keep the form open so the user can fix the input
		m.err = err
		return m, nil
	}

	m.completed = true
	m.createdEntry = entry
	return m, tea.Quit
}
