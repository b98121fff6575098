package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/liquidity-rails/rails-deploy/internal/domain"
)

const basePlanLabel = "(base plan)"

// variantItem is one row of the variant picker; an empty name is the base plan
type variantItem struct {
	name        string
	description string
}

// variantSelectModel is the bubbletea model for picking a plan variant
type variantSelectModel struct {
	items     []variantItem
	cursor    int
	title     string
	done      bool
	cancelled bool
}

func newVariantSelectModel(plan *domain.DeploymentPlan) variantSelectModel {
	items := []variantItem{{description: "deploy the artifacts as declared"}}
	for _, name := range plan.VariantNames() {
		items = append(items, variantItem{name: name, description: plan.Variants[name].Description})
	}
	return variantSelectModel{
		items: items,
		title: fmt.Sprintf("Select a variant of %s", plan.Name),
	}
}

// Init is the initial command for bubbletea
func (m variantSelectModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m variantSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "q", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "enter":
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// View renders the UI
func (m variantSelectModel) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(color.New(color.FgCyan, color.Bold).Sprintf("%s\n\n", m.title))

	for i, item := range m.items {
		cursor := " "
		label := item.name
		if label == "" {
			label = basePlanLabel
		}
		if m.cursor == i {
			cursor = color.New(color.FgCyan).Sprint("▸")
			label = color.New(color.FgCyan, color.Bold).Sprint(label)
		}

		line := fmt.Sprintf("%s %s", cursor, label)
		if item.description != "" {
			line += color.New(color.Faint).Sprintf("  %s", item.description)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(color.New(color.FgYellow).Sprint("↑/↓: move  Enter: select  q: cancel\n"))

	return b.String()
}

// selected returns the chosen variant name, empty for the base plan
func (m variantSelectModel) selected() string {
	return m.items[m.cursor].name
}

// SelectVariant shows the variant picker and returns the chosen variant
func SelectVariant(plan *domain.DeploymentPlan) (string, error) {
	if len(plan.Variants) == 0 {
		return "", nil
	}

	p := tea.NewProgram(newVariantSelectModel(plan))
	finalModel, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("variant selection failed: %w", err)
	}

	m := finalModel.(variantSelectModel)
	if m.cancelled || !m.done {
		return "", domain.ErrAborted
	}
	return m.selected(), nil
}
