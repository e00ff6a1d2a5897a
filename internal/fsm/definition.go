package fsm

import (
	"github.com/librescoot/librefsm"

	"car-controller/internal/types"
)

// NewDefinition creates the indicator FSM definition. Every state can reach
// every other state; self transitions are never requested.
func NewDefinition(actions Actions) *librefsm.Definition {
	return librefsm.NewDefinition().
		State(StateIdle,
			librefsm.WithOnEnter(actions.EnterIdle),
		).
		State(StateFlashing,
			librefsm.WithOnEnter(actions.EnterFlashing),
		).
		State(StateHazard,
			librefsm.WithOnEnter(actions.EnterHazard),
		).

		// From Idle
		Transition(StateIdle, EvSingleIndicator, StateFlashing).
		Transition(StateIdle, EvBothIndicators, StateHazard).

		// From Flashing
		Transition(StateFlashing, EvIndicatorsOff, StateIdle).
		Transition(StateFlashing, EvBothIndicators, StateHazard).

		// From Hazard
		Transition(StateHazard, EvIndicatorsOff, StateIdle).
		Transition(StateHazard, EvSingleIndicator, StateFlashing).

		Initial(StateIdle)
}

// EventFor returns the event that leads into the state of mode.
func EventFor(mode types.IndicatorMode) librefsm.EventID {
	switch mode {
	case types.IndicatorHazard:
		return EvBothIndicators
	case types.IndicatorFlashing:
		return EvSingleIndicator
	default:
		return EvIndicatorsOff
	}
}

func StateFor(mode types.IndicatorMode) librefsm.StateID {
	switch mode {
	case types.IndicatorHazard:
		return StateHazard
	case types.IndicatorFlashing:
		return StateFlashing
	default:
		return StateIdle
	}
}

func ModeFor(id librefsm.StateID) types.IndicatorMode {
	switch id {
	case StateHazard:
		return types.IndicatorHazard
	case StateFlashing:
		return types.IndicatorFlashing
	default:
		return types.IndicatorIdle
	}
}
