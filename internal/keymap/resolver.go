package keymap

import "github.com/samber/lo"

// Resolver maps key strings to actions, per context.
type Resolver struct {
	bindings map[string]map[string]Action // context -> key -> action
	byAction map[Action][]string          // action -> keys (for help)
}

// NewResolver creates a resolver from bindings.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		bindings: make(map[string]map[string]Action),
		byAction: make(map[Action][]string),
	}
	for _, b := range bindings {
		keys, ok := r.bindings[b.Context]
		if !ok {
			keys = make(map[string]Action)
			r.bindings[b.Context] = keys
		}
		for _, key := range b.Keys {
			keys[key] = b.Action
		}
		r.byAction[b.Action] = lo.Uniq(append(r.byAction[b.Action], b.Keys...))
	}
	return r
}

// Resolve returns the action for key in the focused panel, or empty string
// if not bound. Panel contexts are tried in order, then playback, then
// global.
func (r *Resolver) Resolve(key string, contexts ...string) Action {
	for _, ctx := range contexts {
		if a, ok := r.bindings[ctx][key]; ok {
			return a
		}
	}
	for _, ctx := range []string{ContextPlayback, ContextGlobal} {
		if a, ok := r.bindings[ctx][key]; ok {
			return a
		}
	}
	return ""
}

// KeysFor returns the keys bound to an action.
func (r *Resolver) KeysFor(action Action) []string {
	return r.byAction[action]
}
