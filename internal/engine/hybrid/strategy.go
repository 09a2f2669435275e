// internal/engine/hybrid/strategy.go
package hybrid

// Strategy represents how a page ends up being fetched
type Strategy int

const (
	// StrategyStatic uses the plain HTTP response
	StrategyStatic Strategy = iota

	// StrategyDynamic renders the page in a browser
	StrategyDynamic
)

// String returns the string representation of the strategy
func (s Strategy) String() string {
	switch s {
	case StrategyStatic:
		return "Static"
	case StrategyDynamic:
		return "Dynamic"
	default:
		return "Unknown"
	}
}

// DetermineStrategy decides whether the static response is usable
func DetermineStrategy(html string) Strategy {
	if NeedsRendering(html) {
		return StrategyDynamic
	}
	return StrategyStatic
}
