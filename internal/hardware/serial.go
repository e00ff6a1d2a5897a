package hardware

import "os"

// SerialChannel is a WriterChannel on an open tty.
type SerialChannel struct {
	*WriterChannel
	file *os.File
}

func (s *SerialChannel) Close() error {
	return s.file.Close()
}
