package fsm

import "github.com/librescoot/librefsm"

// Indicator states
const (
	StateIdle     librefsm.StateID = "idle"
	StateFlashing librefsm.StateID = "flashing"
	StateHazard   librefsm.StateID = "hazard"
)

// Indicator events, derived from the left/right switch pair
const (
	EvIndicatorsOff   librefsm.EventID = "indicators-off"
	EvSingleIndicator librefsm.EventID = "single-indicator"
	EvBothIndicators  librefsm.EventID = "both-indicators"
)
