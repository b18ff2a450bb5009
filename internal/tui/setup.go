// ABOUTME: Interactive TUI wizard for configuring the content service endpoints.
// ABOUTME: 2-step bubbletea model collecting the items URL and the feeds URL.
package tui

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harper/newsense/internal/config"
)

// Step represents the current wizard step.
type Step int

const (
	StepItemsURL Step = iota
	StepFeedsURL
	StepDone
)

// SetupModel is the bubbletea model for the setup wizard.
type SetupModel struct {
	step     Step
	inputs   [2]textinput.Model
	invalid  string
	quitting bool
}

// NewSetupModel creates a new setup wizard model, pre-filling with existing config values.
func NewSetupModel(itemsURL, feedsURL string) SetupModel {
	itemsInput := textinput.New()
	itemsInput.Placeholder = config.DefaultItemsURL
	itemsInput.Focus()
	itemsInput.Width = 50
	if itemsURL != "" {
		itemsInput.SetValue(itemsURL)
	}

	feedsInput := textinput.New()
	feedsInput.Placeholder = config.DefaultFeedsURL
	feedsInput.Width = 50
	if feedsURL != "" {
		feedsInput.SetValue(feedsURL)
	}

	return SetupModel{
		step:   StepItemsURL,
		inputs: [2]textinput.Model{itemsInput, feedsInput},
	}
}

// Init implements tea.Model.
func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEscape:
			m.quitting = true
			return m, tea.Quit
		}

		if m.step == StepItemsURL || m.step == StepFeedsURL {
			return m.updateInput(msg)
		}
	default:
		// Forward other messages (e.g. cursor blink) to the active input
		if m.step == StepItemsURL || m.step == StepFeedsURL {
			idx := int(m.step)
			var cmd tea.Cmd
			m.inputs[idx], cmd = m.inputs[idx].Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m SetupModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		return m.handleEnter()
	}

	idx := int(m.step)
	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	return m, cmd
}

func (m SetupModel) handleEnter() (tea.Model, tea.Cmd) {
	idx := int(m.step)

	val := strings.TrimSpace(m.inputs[idx].Value())
	if val == "" {
		val = m.inputs[idx].Placeholder
	}
	if !validServiceURL(val) {
		m.invalid = val
		return m, nil
	}
	m.invalid = ""
	m.inputs[idx].SetValue(strings.TrimRight(val, "/"))
	m.inputs[idx].Blur()

	switch m.step {
	case StepItemsURL:
		m.step = StepFeedsURL
		m.inputs[1].Focus()
		return m, textinput.Blink
	case StepFeedsURL:
		m.step = StepDone
		return m, tea.Quit
	}

	return m, nil
}

func validServiceURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// View implements tea.Model.
func (m SetupModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   NEWSENSE"))
	b.WriteString(titleStyle.Render(" - Setup"))
	b.WriteString("\n\n")
	b.WriteString("Configure the content service endpoints.\n\n")

	switch m.step {
	case StepItemsURL:
		b.WriteString(stepStyle.Render("Step 1 of 2: Items Service"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render(fmt.Sprintf("(press Enter for default: %s)", config.DefaultItemsURL)))
		b.WriteString("\n")
		b.WriteString(m.inputs[0].View())
		b.WriteString("\n")

	case StepFeedsURL:
		b.WriteString(fmt.Sprintf("  Items: %s\n\n", m.inputs[0].Value()))
		b.WriteString(stepStyle.Render("Step 2 of 2: Feeds Service"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render(fmt.Sprintf("(press Enter for default: %s)", config.DefaultFeedsURL)))
		b.WriteString("\n")
		b.WriteString(m.inputs[1].View())
		b.WriteString("\n")

	case StepDone:
		b.WriteString(successStyle.Render("Setup complete!"))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("  Items service: %s\n", m.inputs[0].Value()))
		b.WriteString(fmt.Sprintf("  Feeds service: %s\n", m.inputs[1].Value()))
		b.WriteString("\n")
	}

	if m.invalid != "" {
		b.WriteString(promptStyle.Render(fmt.Sprintf("not an http(s) URL: %q", m.invalid)))
		b.WriteString("\n")
	}

	return b.String()
}

// Result returns the entered values.
func (m SetupModel) Result() (itemsURL, feedsURL string) {
	return m.inputs[0].Value(), m.inputs[1].Value()
}

// ShouldSave returns true if the wizard completed and the user did not cancel.
func (m SetupModel) ShouldSave() bool {
	return m.step == StepDone && !m.quitting
}
