package keymap_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandb/tschart/internal/keymap"
)

type counter struct{ n int }

func (c *counter) inc(tea.KeyMsg) tea.Cmd {
	c.n++
	return nil
}

func categories() []keymap.BindingCategory[counter] {
	return []keymap.BindingCategory[counter]{
		{
			Name: "Count",
			Bindings: []keymap.KeyBinding[counter]{
				{Keys: []string{"c", "space"}, Description: "Increment", Handler: (*counter).inc},
				{Keys: []string{"wheel"}, Description: "Documentation only"},
			},
		},
	}
}

func TestBuildSkipsDocumentationOnlyBindings(t *testing.T) {
	km := keymap.Build(categories())

	assert.Len(t, km, 2)
	_, ok := km["wheel"]
	assert.False(t, ok)
}

func TestLookupNormalizesSpace(t *testing.T) {
	km := keymap.Build(categories())
	c := &counter{}

	handler, ok := km.Lookup(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	require.True(t, ok)
	handler(c, tea.KeyMsg{})

	handler, ok = km.Lookup(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	require.True(t, ok)
	handler(c, tea.KeyMsg{})

	_, ok = km.Lookup(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'z'}})
	assert.False(t, ok)
	assert.Equal(t, 2, c.n)
}

func TestHelpKeepsAllBindings(t *testing.T) {
	help := keymap.Help(categories())

	require.Len(t, help, 1)
	assert.Equal(t, "Count", help[0].Name)
	assert.Len(t, help[0].Entries, 2)
	assert.Equal(t, []string{"wheel"}, help[0].Entries[1].Keys)
}
