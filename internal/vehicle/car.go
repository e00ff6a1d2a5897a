// Package vehicle holds the simulated physical model of the car.
package vehicle

import (
	"math"
	"sync"
)

const (
	// SpeedGain scales the accelerator/brake difference into a speed delta per tick.
	SpeedGain = 0.05
	// TickStep is the distance scale applied by the physics task on every tick.
	TickStep = 0.05

	// PedalScale maps a [0,1] analog reading onto the actuator range.
	PedalScale = 255

	MaxSpeed    = math.MaxUint8
	MaxDistance = math.MaxUint16
)

// Snapshot is a consistent copy of every Car field.
type Snapshot struct {
	Accelerator    uint8
	Brake          uint8
	Speed          uint8
	Distance       uint16
	Engine         bool
	SideLight      bool
	LeftIndicator  bool
	RightIndicator bool
}

// Car is the simulated vehicle. Its mutex is the actuator lock: every
// mutator and getter takes it, and nothing else is ever locked while it is
// held.
type Car struct {
	mu sync.Mutex

	accelerator    uint8
	brake          uint8
	speed          uint8
	distance       uint16
	travelled      float64 // fractional distance not yet carried into distance
	engine         bool
	sideLight      bool
	leftIndicator  bool
	rightIndicator bool
}

// NewCar returns a car with the engine off and every field zeroed.
func NewCar() *Car {
	return &Car{}
}

func (c *Car) SetAccelerator(v uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accelerator = c.gate(v)
}

func (c *Car) SetBrake(v uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.brake = c.gate(v)
}

// SetPedals writes accelerator and brake in one critical section.
func (c *Car) SetPedals(accelerator, brake uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accelerator = c.gate(accelerator)
	c.brake = c.gate(brake)
}

// SetEngine switches the engine. Turning it off clears actuators, lights and
// speed together; distance is kept.
func (c *Car) SetEngine(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engine = on
	if !on {
		c.accelerator = 0
		c.brake = 0
		c.speed = 0
		c.sideLight = false
		c.leftIndicator = false
		c.rightIndicator = false
	}
}

func (c *Car) SetSideLight(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sideLight = on && c.engine
}

func (c *Car) SetLeftIndicator(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leftIndicator = on && c.engine
}

func (c *Car) SetRightIndicator(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rightIndicator = on && c.engine
}

// SetIndicators writes both indicators in one critical section so readers
// never see half of an update.
func (c *Car) SetIndicators(left, right bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leftIndicator = left && c.engine
	c.rightIndicator = right && c.engine
}

// Tick advances the physical model by one step. Speed moves by
// (accelerator-brake)*SpeedGain, truncated and clamped to [0,255]; distance
// grows by speed*dt.
func (c *Car) Tick(dt float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.engine {
		next := math.Trunc(float64(c.speed) + (float64(c.accelerator)-float64(c.brake))*SpeedGain)
		c.speed = uint8(clamp(next, 0, MaxSpeed))
	} else {
		c.speed = 0
	}

	if dt <= 0 {
		return
	}
	c.travelled += float64(c.speed) * dt
	whole := math.Floor(c.travelled)
	c.travelled -= whole
	c.distance = uint16(clamp(float64(c.distance)+whole, 0, MaxDistance))
}

func (c *Car) Accelerator() uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accelerator
}

func (c *Car) Brake() uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.brake
}

// Pedals returns accelerator and brake from one critical section.
func (c *Car) Pedals() (accelerator, brake uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accelerator, c.brake
}

func (c *Car) Speed() uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speed
}

func (c *Car) Distance() uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.distance
}

func (c *Car) EngineOn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine
}

func (c *Car) SideLight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sideLight
}

func (c *Car) LeftIndicator() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.leftIndicator
}

func (c *Car) RightIndicator() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rightIndicator
}

// Indicators returns both indicator values from one critical section.
func (c *Car) Indicators() (left, right bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.leftIndicator, c.rightIndicator
}

func (c *Car) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Accelerator:    c.accelerator,
		Brake:          c.brake,
		Speed:          c.speed,
		Distance:       c.distance,
		Engine:         c.engine,
		SideLight:      c.sideLight,
		LeftIndicator:  c.leftIndicator,
		RightIndicator: c.rightIndicator,
	}
}

// gate forces actuator values to zero while the engine is off. Caller holds mu.
func (c *Car) gate(v uint8) uint8 {
	if !c.engine {
		return 0
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// PedalValue scales an analog reading in [0,1] to [0,255], truncating.
// Readings outside the range saturate.
func PedalValue(reading float64) uint8 {
	if math.IsNaN(reading) {
		return 0
	}
	return uint8(clamp(reading*PedalScale, 0, PedalScale))
}
