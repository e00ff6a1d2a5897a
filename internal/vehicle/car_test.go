package vehicle

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCarIsOff(t *testing.T) {
	c := NewCar()
	assert.Equal(t, Snapshot{}, c.Snapshot())
}

func TestAcceleratorIgnoredWithEngineOff(t *testing.T) {
	c := NewCar()
	c.SetAccelerator(200)
	assert.Equal(t, uint8(0), c.Accelerator())

	c.SetEngine(true)
	c.SetAccelerator(200)
	assert.Equal(t, uint8(200), c.Accelerator())
}

func TestEngineOffClearsEverythingButDistance(t *testing.T) {
	c := NewCar()
	c.SetEngine(true)
	c.SetPedals(150, 20)
	c.SetSideLight(true)
	c.SetIndicators(true, true)
	for i := 0; i < 5; i++ {
		c.Tick(TickStep)
	}
	before := c.Distance()
	require.NotZero(t, c.Speed())

	c.SetEngine(false)
	s := c.Snapshot()
	assert.False(t, s.Engine)
	assert.Zero(t, s.Accelerator)
	assert.Zero(t, s.Brake)
	assert.Zero(t, s.Speed)
	assert.False(t, s.SideLight)
	assert.False(t, s.LeftIndicator)
	assert.False(t, s.RightIndicator)
	assert.Equal(t, before, s.Distance)

	c.SetBrake(9)
	c.SetSideLight(true)
	c.SetLeftIndicator(true)
	c.SetRightIndicator(true)
	assert.Equal(t, Snapshot{Distance: before}, c.Snapshot())
}

func TestTickAcceleratesByGain(t *testing.T) {
	c := NewCar()
	c.SetEngine(true)
	c.SetAccelerator(100)

	c.Tick(TickStep)
	assert.Equal(t, uint8(5), c.Speed())
}

func TestTickNeverExceedsMaxSpeed(t *testing.T) {
	c := NewCar()
	c.SetEngine(true)
	c.SetAccelerator(255)

	prev := c.Speed()
	for i := 0; i < 40; i++ {
		c.Tick(TickStep)
		assert.GreaterOrEqual(t, c.Speed(), prev)
		prev = c.Speed()
	}
	assert.Equal(t, uint8(MaxSpeed), c.Speed())
}

func TestTickBrakeClampsAtZero(t *testing.T) {
	c := NewCar()
	c.SetEngine(true)
	c.SetAccelerator(100)
	c.Tick(TickStep)
	c.SetPedals(0, 255)
	c.Tick(TickStep)
	assert.Zero(t, c.Speed())
}

func TestTickWithEngineOffKeepsSpeedZero(t *testing.T) {
	c := NewCar()
	c.Tick(TickStep)
	assert.Zero(t, c.Speed())
	assert.Zero(t, c.Distance())
}

func TestDistanceAccumulatesFractions(t *testing.T) {
	c := NewCar()
	c.SetEngine(true)
	c.SetAccelerator(100)
	c.Tick(TickStep) // speed 5
	c.SetAccelerator(0)

	// 5 * 0.05 = 0.25 per tick, four ticks make one unit
	for i := 0; i < 3; i++ {
		c.Tick(TickStep)
	}
	assert.Equal(t, uint16(1), c.Distance())
}

func TestDistanceSaturates(t *testing.T) {
	c := NewCar()
	c.SetEngine(true)
	c.SetAccelerator(255)
	for i := 0; i < 30; i++ {
		c.Tick(TickStep)
	}
	c.Tick(1000)
	assert.Equal(t, uint16(MaxDistance), c.Distance())
	c.Tick(1000)
	assert.Equal(t, uint16(MaxDistance), c.Distance())
}

func TestRandomOperationsKeepInvariants(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	c := NewCar()
	var lastDistance uint16
	for i := 0; i < 5000; i++ {
		switch r.Intn(6) {
		case 0:
			c.SetEngine(r.Intn(4) != 0)
		case 1:
			c.SetAccelerator(uint8(r.Intn(256)))
		case 2:
			c.SetBrake(uint8(r.Intn(256)))
		case 3:
			c.SetIndicators(r.Intn(2) == 0, r.Intn(2) == 0)
		case 4:
			c.SetSideLight(r.Intn(2) == 0)
		default:
			c.Tick(TickStep)
		}
		s := c.Snapshot()
		if !s.Engine {
			require.Equal(t, Snapshot{Distance: s.Distance}, s)
		}
		require.GreaterOrEqual(t, s.Distance, lastDistance)
		lastDistance = s.Distance
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := NewCar()
	c.SetEngine(true)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				c.SetPedals(uint8(n*50), uint8(j%10))
				c.Tick(TickStep)
				_ = c.Snapshot()
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Speed(), uint8(MaxSpeed))
}

func TestPedalValue(t *testing.T) {
	assert.Equal(t, uint8(0), PedalValue(0))
	assert.Equal(t, uint8(255), PedalValue(1))
	assert.Equal(t, uint8(127), PedalValue(0.5))
	assert.Equal(t, uint8(255), PedalValue(1.7))
	assert.Equal(t, uint8(0), PedalValue(-0.2))
}
