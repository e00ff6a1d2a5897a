package types

// IndicatorMode is the output behaviour derived from the left/right
// indicator switches.
type IndicatorMode string

const (
	IndicatorIdle     IndicatorMode = "idle"
	IndicatorFlashing IndicatorMode = "flashing"
	IndicatorHazard   IndicatorMode = "hazard"
)

// ModeFor maps the indicator booleans onto a mode.
func ModeFor(left, right bool) IndicatorMode {
	switch {
	case left && right:
		return IndicatorHazard
	case left || right:
		return IndicatorFlashing
	default:
		return IndicatorIdle
	}
}
