package messaging

import (
	"car-controller/internal/hardware"
	"car-controller/internal/logger"
)

// LineDisplay is a display that can report its full content.
type LineDisplay interface {
	WriteField(row, col int, text string) error
	Lines() [hardware.LcdRows]string
}

type DashboardPublisher interface {
	SetDashboardLines(lines []string) error
}

// DashboardMirror forwards display writes and mirrors the resulting lines
// to Redis. Mirror failures are logged, not returned.
type DashboardMirror struct {
	display   LineDisplay
	publisher DashboardPublisher
	logger    *logger.Logger
}

func NewDashboardMirror(display LineDisplay, publisher DashboardPublisher, l *logger.Logger) *DashboardMirror {
	return &DashboardMirror{
		display:   display,
		publisher: publisher,
		logger:    l.WithTag("dashboard"),
	}
}

func (m *DashboardMirror) WriteField(row, col int, text string) error {
	if err := m.display.WriteField(row, col, text); err != nil {
		return err
	}
	lines := m.display.Lines()
	if err := m.publisher.SetDashboardLines(lines[:]); err != nil {
		m.logger.Warnf("Failed to mirror dashboard: %v", err)
	}
	return nil
}

// PanelCallbacks routes Redis commands to the simulated panel.
func PanelCallbacks(p *hardware.Panel) Callbacks {
	return Callbacks{
		EngineCallback: func(on bool) error {
			p.EngineSwitch.Set(on)
			return nil
		},
		SideLightCallback: func(on bool) error {
			p.SideLightSwitch.Set(on)
			return nil
		},
		IndicatorCallback: func(left, right bool) error {
			p.SetIndicator(left, right)
			return nil
		},
		AcceleratorCallback: func(v float64) error {
			p.Accelerator.Set(v)
			return nil
		},
		BrakeCallback: func(v float64) error {
			p.Brake.Set(v)
			return nil
		},
	}
}
