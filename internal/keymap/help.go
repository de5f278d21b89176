package keymap

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// HelpGroups returns the bindings of each context as bubbles key bindings,
// one group per context, for rendering with the help component.
func HelpGroups(contexts ...string) [][]key.Binding {
	groups := make([][]key.Binding, 0, len(contexts))
	for _, ctx := range contexts {
		var group []key.Binding
		for _, b := range ByContext(ctx) {
			group = append(group, key.NewBinding(
				key.WithKeys(b.Keys...),
				key.WithHelp(helpKeys(b.Keys), b.Description),
			))
		}
		if len(group) > 0 {
			groups = append(groups, group)
		}
	}
	return groups
}

func helpKeys(keys []string) string {
	if len(keys) > 3 {
		return keys[0] + "-" + keys[len(keys)-1]
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		if k == " " {
			k = "space"
		}
		names[i] = k
	}
	return strings.Join(names, "/")
}
