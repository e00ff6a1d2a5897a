package fsm

import "github.com/librescoot/librefsm"

// Actions defines the entry hooks of the indicator state machine.
// The indicator coordinator implements this interface.
type Actions interface {
	EnterIdle(c *librefsm.Context) error
	EnterFlashing(c *librefsm.Context) error
	EnterHazard(c *librefsm.Context) error
}
