package comm

import (
	"io"
	"strconv"
)

// Port is the byte transport to the device.
type Port interface {
	io.ReadWriteCloser
	// Flush pushes written bytes out to the device.
	Flush() error
	// ResetInput discards input received but not yet read.
	ResetInput() error
}

// Prediction is a class reported by the device.
type Prediction int

// NoResponse is the Prediction when no result arrived before the deadline.
const NoResponse Prediction = -1

// IsValid indicates a class was received.
func (p Prediction) IsValid() bool {
	return p >= 0
}

// String implements fmt.Stringer.
func (p Prediction) String() string {
	if !p.IsValid() {
		return "--"
	}
	return strconv.Itoa(int(p))
}
