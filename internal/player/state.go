// internal/player/state.go
package player

// Status is the facade's binding state machine.
//
//	┌──────────┐  bind + load  ┌──────────┐  ready event  ┌──────────┐
//	│ Unbound  │ ─────────────▶│ Loading  │ ─────────────▶│  Ready   │
//	└──────────┘               └──────────┘               └──────────┘
//	                                ▲                          │
//	                                └──────── load ────────────┘
//
// Valid transitions:
//   - Unbound → Loading (Bind, then Load)
//   - Loading → Ready   (instance reports ready)
//   - Ready   → Loading (Load with a new source)
//   - Loading → Unbound (Unbind, or the instance closes)
//   - Ready   → Unbound (Unbind, or the instance closes)
//
// Control operations reach the instance only in Ready. In Unbound and
// Loading they are no-ops returning zero values.
type Status int

const (
	StatusUnbound Status = iota
	StatusLoading
	StatusReady
)

// String returns the status name for debugging.
func (s Status) String() string {
	switch s {
	case StatusUnbound:
		return "Unbound"
	case StatusLoading:
		return "Loading"
	case StatusReady:
		return "Ready"
	default:
		return "Unknown"
	}
}

// IsBound returns true if an instance is attached (Loading or Ready).
func (s Status) IsBound() bool {
	return s == StatusLoading || s == StatusReady
}
