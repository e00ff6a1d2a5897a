//go:build !linux

package hardware

import "fmt"

func OpenSerial(device string) (*SerialChannel, error) {
	return nil, fmt.Errorf("serial output is only supported on linux")
}
