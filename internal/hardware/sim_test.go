package hardware

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimAnalogClamps(t *testing.T) {
	var a SimAnalog
	a.Set(0.25)
	v, _ := a.Read()
	assert.Equal(t, 0.25, v)

	a.Set(4)
	v, _ = a.Read()
	assert.Equal(t, 1.0, v)

	a.Set(math.NaN())
	v, _ = a.Read()
	assert.Equal(t, 0.0, v)
}

func TestSimLampReportsChanges(t *testing.T) {
	var changes []bool
	l := SimLamp{OnChange: func(on bool) { changes = append(changes, on) }}

	l.Write(true)
	l.Write(true)
	l.Write(false)

	assert.False(t, l.On())
	assert.Equal(t, []bool{true, false}, changes)
}

func TestPanelIndicator(t *testing.T) {
	p := NewPanel()
	p.SetIndicator(true, false)

	left, _ := p.LeftSwitch.Read()
	right, _ := p.RightSwitch.Read()
	assert.True(t, left)
	assert.False(t, right)
}
