package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/timetrack/internal/db"
	"github.com/balkashynov/timetrack/internal/models"
)

// TimerModel represents the TUI model for a running timer entry
type TimerModel struct {
	width  int
	height int
	entry  *models.TimeEntry

	// Timer state
	elapsedTime time.Duration
	lastUpdate  time.Time

	// Animation state
	timerAnimation int // For animated timer display

	// UI state
	stopping bool // True when user pressed S and we're stopping
	exiting  bool // True when user pressed ESC/Q and we're exiting without stopping
}

// timerTickMsg is sent every second to update the timer
type timerTickMsg struct{}

// animationTickMsg is sent for faster animations
type animationTickMsg struct{}

// NewTimerModel creates a new timer TUI model
func NewTimerModel(entry *models.TimeEntry) TimerModel {
	return TimerModel{
		entry:          entry,
		elapsedTime:    time.Since(*entry.TimerStartedAt),
		lastUpdate:     time.Now(),
		timerAnimation: 0,
		stopping:       false,
		exiting:        false,
	}
}

// Init initializes the timer model
func (m TimerModel) Init() tea.Cmd {
	// Start both timer and animation tickers
	return tea.Batch(
		tea.Tick(time.Second, func(t time.Time) tea.Msg {
			return timerTickMsg{}
		}),
		tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
			return animationTickMsg{}
		}),
	)
}

// Update handles messages
func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		// Update elapsed time
		now := time.Now()
		m.elapsedTime = now.Sub(*m.entry.TimerStartedAt)
		m.lastUpdate = now

		// Continue ticking if not stopping or exiting
		if !m.stopping && !m.exiting {
			return m, tea.Tick(time.Second, func(t time.Time) tea.Msg {
				return timerTickMsg{}
			})
		}
		return m, nil

	case animationTickMsg:
		// Update animation states
		m.timerAnimation = (m.timerAnimation + 1) % 4

		// Continue animating if not stopping or exiting
		if !m.stopping && !m.exiting {
			return m, tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
				return animationTickMsg{}
			})
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "s", "S":
			// Stop the timer and save
			m.stopping = true
			return m, tea.Quit
		case "ctrl+c", "esc", "q":
			// Exit without stopping
			m.exiting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the timer TUI
func (m TimerModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Help bar at bottom
	helpBar := m.renderHelpBar()
	helpBarHeight := 1

	// Available height for content (total minus help bar and gap)
	contentHeight := m.height - helpBarHeight - 1

	// Check if screen is too narrow for split view
	if m.width < 90 {
		// Narrow view: just timer panel, full width
		timerPanel := m.renderTimerPanel(m.width, contentHeight)

		return lipgloss.JoinVertical(
			lipgloss.Left,
			timerPanel,
			helpBar,
		)
	}

	// Wide view: split screen
	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth - 2 // -2 for gap

	// Left side: timer (full height)
	leftPanel := m.renderTimerPanel(leftWidth, contentHeight)

	// Right side: entry details (full height)
	rightPanel := m.renderEntryDetailsPanel(rightWidth, contentHeight)

	// Main content
	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftPanel,
		"  ", // Gap
		rightPanel,
	)

	// Final layout
	return lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		helpBar,
	)
}

// renderTimerPanel renders the left timer panel
func (m TimerModel) renderTimerPanel(width, height int) string {
	// Build all content components first
	var components []string

	// Animated header
	animChars := []string{"⏱", "⏲", "⏱", "⏲"}
	animChar := animChars[m.timerAnimation]
	headerText := fmt.Sprintf("%s  TRACKING TIME  %s", animChar, animChar)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true).
		Align(lipgloss.Center).
		Width(width)

	components = append(components, headerStyle.Render(headerText))

	// Entry ID
	idStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentMain)).
		Bold(true).
		Align(lipgloss.Center).
		Width(width)

	entryIdText := fmt.Sprintf("#%d", m.entry.ID)
	components = append(components, idStyle.Render(entryIdText))

	// Project name
	projectStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Bold(true).
		Align(lipgloss.Center).
		Width(width)

	projectText := m.entry.Project
	if len(projectText) > width-4 {
		projectText = projectText[:width-7] + "..."
	}
	components = append(components, projectStyle.Render(projectText))

	// Big clock display
	clockDisplay := m.renderBigClock()
	clockLines := strings.Split(clockDisplay, "\n")
	clockContent := ""
	for _, line := range clockLines {
		centeredLine := lipgloss.NewStyle().
			Align(lipgloss.Center).
			Width(width).
			Render(line)
		clockContent += centeredLine + "\n"
	}
	components = append(components, strings.TrimRight(clockContent, "\n"))

	// Timer start time
	startedInfo := fmt.Sprintf("Started at %s", m.entry.TimerStartedAt.Format("15:04:05"))
	startedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(width)
	components = append(components, startedStyle.Render(startedInfo))

	// Join all components with spacing and center vertically
	content := strings.Join(components, "\n\n")

	// Use lipgloss to center content vertically and fill the full height
	panelStyle := lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center)

	return panelStyle.Render(content)
}

// renderBigClock renders ASCII art clock
func (m TimerModel) renderBigClock() string {
	duration := m.elapsedTime
	hours := int(duration.Hours())
	minutes := int(duration.Minutes()) % 60
	seconds := int(duration.Seconds()) % 60

	// ASCII art for digits (3x5 characters each)
	digits := map[rune][][]string{
		'0': {
			{" ███ "},
			{"█   █"},
			{"█   █"},
			{"█   █"},
			{" ███ "},
		},
		'1': {
			{"  █  "},
			{" ██  "},
			{"  █  "},
			{"  █  "},
			{"█████"},
		},
		'2': {
			{" ███ "},
			{"█   █"},
			{"   █ "},
			{"  █  "},
			{"█████"},
		},
		'3': {
			{" ███ "},
			{"█   █"},
			{"  ██ "},
			{"█   █"},
			{" ███ "},
		},
		'4': {
			{"█   █"},
			{"█   █"},
			{"█████"},
			{"    █"},
			{"    █"},
		},
		'5': {
			{"█████"},
			{"█    "},
			{"████ "},
			{"    █"},
			{"████ "},
		},
		'6': {
			{" ███ "},
			{"█    "},
			{"████ "},
			{"█   █"},
			{" ███ "},
		},
		'7': {
			{"█████"},
			{"    █"},
			{"   █ "},
			{"  █  "},
			{" █   "},
		},
		'8': {
			{" ███ "},
			{"█   █"},
			{" ███ "},
			{"█   █"},
			{" ███ "},
		},
		'9': {
			{" ███ "},
			{"█   █"},
			{" ████"},
			{"    █"},
			{" ███ "},
		},
		':': {
			{"     "},
			{"  █  "},
			{"     "},
			{"  █  "},
			{"     "},
		},
	}

	// Format time string
	timeStr := ""
	if hours > 0 {
		timeStr = fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	} else {
		timeStr = fmt.Sprintf("%02d:%02d", minutes, seconds)
	}

	// Build the big clock display
	var lines [5]strings.Builder

	for _, char := range timeStr {
		if digitArt, ok := digits[char]; ok {
			for i := 0; i < 5; i++ {
				lines[i].WriteString(digitArt[i][0])
				lines[i].WriteString(" ") // Space between digits
			}
		}
	}

	// Apply consistent color (no blinking)
	clockStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true)

	var result strings.Builder
	for i := 0; i < 5; i++ {
		result.WriteString(clockStyle.Render(lines[i].String()))
		if i < 4 {
			result.WriteString("\n")
		}
	}

	return result.String()
}

// renderEntryDetailsPanel renders the right panel with entry details
func (m TimerModel) renderEntryDetailsPanel(width, height int) string {
	entry := m.entry
	var b strings.Builder

	b.WriteString("\n")

	// ASCII logo at top
	logoLines := []string{
		"████████╗████████╗██████╗  █████╗  ██████╗██╗  ██╗",
		"╚══██╔══╝╚══██╔══╝██╔══██╗██╔══██╗██╔════╝██║ ██╔╝",
		"   ██║      ██║   ██████╔╝███████║██║     █████╔╝ ",
		"   ██║      ██║   ██╔══██╗██╔══██║██║     ██╔═██╗ ",
		"   ██║      ██║   ██║  ██║██║  ██║╚██████╗██║  ██╗",
		"   ╚═╝      ╚═╝   ╚═╝  ╚═╝╚═╝  ╚═╝ ╚═════╝╚═╝  ╚═╝",
	}

	logoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentMain)).
		Bold(true).
		Align(lipgloss.Center).
		Width(width - 8)

	b.WriteString(logoStyle.Render(strings.Join(logoLines, "\n")))
	b.WriteString("\n\n")

	// Separator line
	separatorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorBorder)).
		Align(lipgloss.Center).
		Width(width - 8)
	separatorLine := strings.Repeat("─", min(width-12, 40))
	b.WriteString(separatorStyle.Render(separatorLine))
	b.WriteString("\n\n")

	// Project in bordered box
	projectStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Width(width - 12).
		Padding(0, 1)
	b.WriteString(projectStyle.Render(entry.Project))
	b.WriteString("\n\n")

	rowStyle := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Width(width - 8)

	// Entry date
	dateLine := fmt.Sprintf("📅 Date: %s",
		lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Render(entry.Date.Format("Jan 02, 2006")))
	b.WriteString(rowStyle.Render(dateLine))
	b.WriteString("\n")

	// Billing rate with its resolution source
	rateValue := fmt.Sprintf("%.2f/h (%s)", entry.BillingRate, entry.RateSource)
	rateLine := fmt.Sprintf("💰 Rate: %s",
		lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Render(rateValue))
	b.WriteString(rowStyle.Render(rateLine))
	b.WriteString("\n")

	// Description
	descValue := "none"
	descColor := ColorDisabledText
	if entry.Description != "" {
		descValue = entry.Description
		descColor = ColorPrimaryText
		if len(descValue) > width-20 {
			descValue = descValue[:width-23] + "..."
		}
	}
	descLine := fmt.Sprintf("💬 Note: %s",
		lipgloss.NewStyle().Foreground(lipgloss.Color(descColor)).Render(descValue))
	b.WriteString(rowStyle.Render(descLine))
	b.WriteString("\n")

	// Week the entry rolls into
	weekLine := fmt.Sprintf("🗓️  Week of: %s",
		lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Render(models.WeekStart(entry.Date).Format("Jan 02, 2006")))
	b.WriteString(rowStyle.Render(weekLine))
	b.WriteString("\n")

	// Started timestamp
	startedLine := fmt.Sprintf("📝 Started: %s",
		lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText)).Render(entry.TimerStartedAt.Format("Jan 02, 2006 15:04")))
	b.WriteString(rowStyle.Render(startedLine))

	return b.String()
}

// renderHelpBar renders the help bar at the bottom
func (m TimerModel) renderHelpBar() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width)

	helpText := "s stop & save · esc/q exit (keep running) · ctrl+c force quit"

	return helpStyle.Render(helpText)
}

// RunTimerTUI runs the timer TUI over a running timer entry
func RunTimerTUI(entry *models.TimeEntry) error {
	model := NewTimerModel(entry)

	p := tea.NewProgram(model, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	// Check if we need to stop the timer
	timerModel := finalModel.(TimerModel)
	if timerModel.stopping {
		stopped, err := db.StopTimer(entry.UserID, "")
		if err != nil {
			return fmt.Errorf("failed to stop timer: %w", err)
		}

		// Show completion message
		fmt.Printf("⏹️  Stopped timer on %s: %.2fh logged for %s\n",
			stopped.Project, stopped.Hours, stopped.Date.Format("2006-01-02"))
	} else if timerModel.exiting {
		// Just exiting without stopping
		fmt.Printf("\n💡 Timer is still running in the background on %s\n", entry.Project)
		fmt.Printf("   Use 'timetrack timer status' to check it or 'timetrack timer stop' to stop it.\n")
	}

	return nil
}
