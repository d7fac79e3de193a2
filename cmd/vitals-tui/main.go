package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultAPIURL  = "http://localhost:8080"
	latestReadings = 5
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	highStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208"))

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

type step int

const (
	stepEnteringUserID step = iota
	stepLoading
	stepDashboard
)

type model struct {
	api          *apiClient
	step         step
	userID       string
	currentInput string
	summary      summary
	readings     []reading
	tips         *tipBundle
	message      string
	quitting     bool
}

type dashboardMsg struct {
	summary  summary
	readings []reading
}
type tipsMsg tipBundle
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

func initialModel(api *apiClient) model {
	return model{
		api:  api,
		step: stepEnteringUserID,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func loadDashboard(api *apiClient, userID string) tea.Cmd {
	return func() tea.Msg {
		s, err := api.summary(userID)
		if err != nil {
			return errMsg{err}
		}
		rs, err := api.readings(userID)
		if err != nil {
			return errMsg{err}
		}
		return dashboardMsg{summary: s, readings: rs}
	}
}

func loadTips(api *apiClient) tea.Cmd {
	return func() tea.Msg {
		b, err := api.tips()
		if err != nil {
			return errMsg{err}
		}
		return tipsMsg(b)
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}

		if m.step == stepEnteringUserID {
			switch msg.Type {
			case tea.KeyEnter:
				if m.currentInput != "" {
					m.userID = m.currentInput
					m.currentInput = ""
					m.step = stepLoading
					m.message = "Loading readings..."
					return m, loadDashboard(m.api, m.userID)
				}
			case tea.KeyBackspace:
				if len(m.currentInput) > 0 {
					m.currentInput = m.currentInput[:len(m.currentInput)-1]
				}
			case tea.KeyRunes:
				m.currentInput += string(msg.Runes)
			}
			return m, nil
		}

		switch msg.String() {
		case "q":
			m.quitting = true
			return m, tea.Quit
		case "r":
			m.step = stepLoading
			m.message = "Refreshing..."
			return m, loadDashboard(m.api, m.userID)
		case "t":
			m.message = "Asking for tips..."
			return m, loadTips(m.api)
		}

	case dashboardMsg:
		m.step = stepDashboard
		m.summary = msg.summary
		m.readings = msg.readings
		m.message = ""

	case tipsMsg:
		b := tipBundle(msg)
		m.tips = &b
		m.message = ""

	case errMsg:
		m.step = stepDashboard
		m.message = errorStyle.Render("✗ " + msg.err.Error())
	}

	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("❤ Vitals Dashboard"))
	s.WriteString("\n")

	switch m.step {
	case stepEnteringUserID:
		s.WriteString(promptStyle.Render("Enter your user id:\n"))
		s.WriteString(inputStyle.Render("> " + m.currentInput))
		s.WriteString("\n\nPress Enter\n")

	case stepLoading:
		s.WriteString(m.message + "\n")

	case stepDashboard:
		if m.message != "" {
			s.WriteString(m.message + "\n\n")
		}
		s.WriteString(renderSummary(m.summary))
		s.WriteString(renderReadings(m.readings))
		if m.tips != nil {
			s.WriteString(renderTips(*m.tips))
		}
		s.WriteString(helpStyle.Render("\nr refresh • t tips • q quit\n"))
	}

	return s.String()
}

func renderSummary(sum summary) string {
	var s strings.Builder
	s.WriteString(labelStyle.Render(fmt.Sprintf("Averages over %d readings", sum.Count)) + "\n")
	s.WriteString(normalStyle.Render(fmt.Sprintf("Heart rate  %d bpm", sum.HeartRate)) + "\n")
	s.WriteString(normalStyle.Render(fmt.Sprintf("Pressure    %d/%d", sum.Systolic, sum.Diastolic)) + "\n")
	s.WriteString(normalStyle.Render(fmt.Sprintf("Sleep       %d h", sum.Sleep)) + "\n")
	s.WriteString(normalStyle.Render(fmt.Sprintf("Exercise    %d min", sum.Exercise)) + "\n")
	s.WriteString(normalStyle.Render("Stress      "+sum.StressLevel) + "\n\n")

	s.WriteString(labelStyle.Render("Insights") + "\n")
	for _, insight := range sum.Insights {
		s.WriteString(normalStyle.Render("• "+insight) + "\n")
	}
	if sum.Note != "" {
		s.WriteString(helpStyle.Render(sum.Note) + "\n")
	}
	return s.String() + "\n"
}

func renderReadings(rs []reading) string {
	if len(rs) == 0 {
		return ""
	}
	if len(rs) > latestReadings {
		rs = rs[:latestReadings]
	}

	var s strings.Builder
	s.WriteString(labelStyle.Render("Latest readings") + "\n")
	for _, r := range rs {
		line := fmt.Sprintf("%-19s %3d bpm  %-7s  %-8s  %4.1f h  %3d min",
			r.Time, r.HeartRate, r.BloodPressure, r.StressLevel, r.SleepHours, r.ExerciseMinutes)
		style := normalStyle
		if r.StressLevel == "High" || r.HeartRate > 90 {
			style = normalStyle.Inherit(highStyle)
		}
		s.WriteString(style.Render(line) + "\n")
	}
	return s.String()
}

func renderTips(b tipBundle) string {
	var s strings.Builder
	s.WriteString("\n")
	if b.Quote != nil {
		s.WriteString(promptStyle.Render(fmt.Sprintf("“%s” - %s", b.Quote.Text, b.Quote.Author)) + "\n")
	}
	for _, tip := range b.Tips {
		s.WriteString(normalStyle.Render(fmt.Sprintf("%s %s: %s", tip.Emoji, tip.Title, tip.Description)) + "\n")
	}
	for _, fact := range b.Facts {
		s.WriteString(helpStyle.Render("  "+fact) + "\n")
	}
	return s.String()
}

func main() {
	base := os.Getenv("VITALS_API_URL")
	if base == "" {
		base = defaultAPIURL
	}

	p := tea.NewProgram(initialModel(newAPIClient(base)))
	if _, err := p.Run(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
