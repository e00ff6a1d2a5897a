package hardware

import (
	"math"
	"sync"
)

// SimAnalog is an analog input whose value is set from outside, e.g. by a
// Redis command.
type SimAnalog struct {
	mu    sync.RWMutex
	value float64
}

func (a *SimAnalog) Set(v float64) {
	if math.IsNaN(v) {
		v = 0
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.value = math.Max(0, math.Min(1, v))
}

func (a *SimAnalog) Read() (float64, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.value, nil
}

type SimSwitch struct {
	mu sync.RWMutex
	on bool
}

func (s *SimSwitch) Set(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.on = on
}

func (s *SimSwitch) Read() (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.on, nil
}

// SimLamp records the last written state and calls OnChange when it flips.
type SimLamp struct {
	mu       sync.RWMutex
	on       bool
	OnChange func(on bool)
}

func (l *SimLamp) Write(on bool) error {
	l.mu.Lock()
	changed := l.on != on
	l.on = on
	fn := l.OnChange
	l.mu.Unlock()

	if changed && fn != nil {
		fn(on)
	}
	return nil
}

func (l *SimLamp) On() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.on
}

type SimServo struct {
	mu       sync.RWMutex
	position float64
}

func (s *SimServo) SetPosition(pos float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.position = pos
	return nil
}

func (s *SimServo) Position() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.position
}

// Panel is the simulated driver's panel: pedals, switches, lamps, the
// speed gauge servo and the LCD.
type Panel struct {
	Accelerator SimAnalog
	Brake       SimAnalog

	EngineSwitch    SimSwitch
	SideLightSwitch SimSwitch
	LeftSwitch      SimSwitch
	RightSwitch     SimSwitch

	EngineLamp    SimLamp
	SideLightLamp SimLamp
	LeftLamp      SimLamp
	RightLamp     SimLamp
	WarningLamp   SimLamp

	Servo   SimServo
	Display *TextLCD
}

func NewPanel() *Panel {
	return &Panel{Display: NewTextLCD()}
}

// SetIndicator sets both indicator switches at once.
func (p *Panel) SetIndicator(left, right bool) {
	p.LeftSwitch.Set(left)
	p.RightSwitch.Set(right)
}
