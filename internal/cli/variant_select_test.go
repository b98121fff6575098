package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/liquidity-rails/rails-deploy/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pickerPlan() *domain.DeploymentPlan {
	return &domain.DeploymentPlan{
		Name:      "liquidity-rails",
		Contracts: []domain.ContractSpec{{Name: "FRYToken"}, {Name: "ConfidentialPositionVerifier"}},
		Variants: map[string]domain.Variant{
			"fhenix":  {Description: "Fhenix coprocessor verifier"},
			"pool-v2": {},
		},
	}
}

func press(t *testing.T, m variantSelectModel, keys ...string) (variantSelectModel, tea.Cmd) {
	t.Helper()

	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, c := m.Update(msg)
		m, cmd = next.(variantSelectModel), c
	}
	return m, cmd
}

func TestVariantSelectModel(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	t.Run("base plan comes first", func(t *testing.T) {
		m := newVariantSelectModel(pickerPlan())

		require.Len(t, m.items, 3)
		assert.Equal(t, "", m.items[0].name)
		assert.Equal(t, "fhenix", m.items[1].name)
		assert.Equal(t, "pool-v2", m.items[2].name)

		view := m.View()
		assert.Contains(t, view, "Select a variant of liquidity-rails")
		assert.Contains(t, view, "▸ (base plan)")
		assert.Contains(t, view, "Fhenix coprocessor verifier")
	})

	t.Run("enter selects the highlighted variant", func(t *testing.T) {
		m, cmd := press(t, newVariantSelectModel(pickerPlan()), "down", "j", "enter")

		assert.True(t, m.done)
		assert.NotNil(t, cmd)
		assert.Equal(t, "pool-v2", m.selected())
		assert.Empty(t, m.View())
	})

	t.Run("cursor stays in bounds", func(t *testing.T) {
		m, _ := press(t, newVariantSelectModel(pickerPlan()), "up", "k", "down", "down", "down", "down")
		assert.Equal(t, 2, m.cursor)

		m, _ = press(t, m, "up")
		assert.Equal(t, "fhenix", m.selected())
	})

	t.Run("base plan selects no variant", func(t *testing.T) {
		m, _ := press(t, newVariantSelectModel(pickerPlan()), "enter")
		assert.Equal(t, "", m.selected())
	})

	for _, key := range []string{"q", "esc"} {
		t.Run("cancel with "+key, func(t *testing.T) {
			m, cmd := press(t, newVariantSelectModel(pickerPlan()), key)

			assert.True(t, m.cancelled)
			assert.False(t, m.done)
			assert.NotNil(t, cmd)
		})
	}
}

func TestSelectVariant_NoVariants(t *testing.T) {
	variant, err := SelectVariant(&domain.DeploymentPlan{Name: "plain"})

	require.NoError(t, err)
	assert.Empty(t, variant)
}
