package comm

import "errors"

var (
	// ErrConnectionUnavailable indicates the transport can't be opened,
	// e.g. the device is absent or the port is claimed by another process.
	ErrConnectionUnavailable = errors.New("connection unavailable")
	// ErrMalformedResponse indicates a result line whose value can't be
	// parsed as a class. The reader ignores such lines.
	ErrMalformedResponse = errors.New("malformed response")
)
