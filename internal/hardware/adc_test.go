package hardware

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAdc(t *testing.T, root string, channel int, value string) {
	t.Helper()
	dir := filepath.Join(root, AdcDevice)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, fmt.Sprintf("in_voltage%d_raw", channel))
	require.NoError(t, os.WriteFile(path, []byte(value), 0o644))
}

func TestReadAdcValue(t *testing.T) {
	root := t.TempDir()
	writeAdc(t, root, 1, "2048\n")

	v, err := ReadAdcValue(root, AdcDevice, 1)
	require.NoError(t, err)
	assert.Equal(t, 2048, v)

	_, err = ReadAdcValue(root, AdcDevice, 2)
	assert.ErrorContains(t, err, "not found")
}

func TestReadAdcValueGarbage(t *testing.T) {
	root := t.TempDir()
	writeAdc(t, root, 0, "abc")

	_, err := ReadAdcValue(root, AdcDevice, 0)
	assert.Error(t, err)
}

func TestAdcPedalScales(t *testing.T) {
	root := t.TempDir()
	p := NewAdcPedal("", AcceleratorAdc)
	p.Root = root

	cases := map[string]float64{
		"0":    0,
		"4095": 1,
		"9999": 1,
		"-3":   0,
	}
	for raw, want := range cases {
		writeAdc(t, root, AcceleratorAdc, raw)
		got, err := p.Read()
		require.NoError(t, err, raw)
		assert.InDelta(t, want, got, 1e-9, raw)
	}

	writeAdc(t, root, AcceleratorAdc, "1365")
	got, err := p.Read()
	require.NoError(t, err)
	assert.InDelta(t, 1365.0/4095.0, got, 1e-9)
}

func TestInRange(t *testing.T) {
	assert.True(t, InRange(0, 0, 10))
	assert.True(t, InRange(10, 0, 10))
	assert.False(t, InRange(11, 0, 10))
	assert.False(t, InRange(-1, 0, 10))
}
