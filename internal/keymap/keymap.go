// Package keymap holds the key binding tables shared by the interactive
// components and the help screen.
package keymap

import (
	tea "github.com/charmbracelet/bubbletea"
)

// KeyBinding defines a key binding for a particular target type.
//
// If Handler is nil, the binding is shown in the help screen but is not dispatched
// through the key map (useful for documentation-only bindings such as mouse
// gestures handled elsewhere).
type KeyBinding[T any] struct {
	Keys        []string
	Description string
	Handler     func(*T, tea.KeyMsg) tea.Cmd
}

// BindingCategory groups related key bindings (primarily for help display).
type BindingCategory[T any] struct {
	Name     string
	Bindings []KeyBinding[T]
}

// HelpEntry is a target-independent view of a binding, used by the help screen.
type HelpEntry struct {
	Keys        []string
	Description string
}

// HelpCategory is a target-independent view of a BindingCategory.
type HelpCategory struct {
	Name    string
	Entries []HelpEntry
}

// Map is a lookup table from normalized key string to handler.
type Map[T any] map[string]func(*T, tea.KeyMsg) tea.Cmd

// Build builds a fast lookup map from key string to handler.
func Build[T any](categories []BindingCategory[T]) Map[T] {
	keyMap := make(Map[T])
	for _, category := range categories {
		for _, binding := range category.Bindings {
			if binding.Handler == nil {
				continue
			}
			for _, key := range binding.Keys {
				keyMap[NormalizeKey(key)] = binding.Handler
			}
		}
	}
	return keyMap
}

// Lookup returns the handler for msg, if any.
func (m Map[T]) Lookup(msg tea.KeyMsg) (func(*T, tea.KeyMsg) tea.Cmd, bool) {
	handler, ok := m[NormalizeKey(msg.String())]
	return handler, ok && handler != nil
}

// Help strips handlers from categories.
func Help[T any](categories []BindingCategory[T]) []HelpCategory {
	out := make([]HelpCategory, 0, len(categories))
	for _, category := range categories {
		hc := HelpCategory{Name: category.Name}
		for _, binding := range category.Bindings {
			hc.Entries = append(hc.Entries, HelpEntry{
				Keys:        binding.Keys,
				Description: binding.Description,
			})
		}
		out = append(out, hc)
	}
	return out
}

// NormalizeKey normalizes Bubble Tea's KeyMsg.String() into a stable key used by our maps.
//
// Bubble Tea has historically reported space as " " in some situations; we want a
// help-friendly, explicit key name.
func NormalizeKey(key string) string {
	if key == " " {
		return "space"
	}
	return key
}
