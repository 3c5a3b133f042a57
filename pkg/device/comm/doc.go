// Package comm provides the device side of the validation protocol.
package comm

// The protocol is a strict request/response exchange over a serial link.
//
// Request: the raw image, one byte per pixel (28x28 = 784 bytes),
// without any header or framing. The device reads a fixed-length buffer.
//
// Response: newline terminated text. The device prints diagnostics freely;
// the result is carried by the first line containing "Predição:" followed
// by the predicted class as a decimal integer, e.g. "Predição: 7".
//
// There is no sequence number and no acknowledgement. A missing reply is
// detected only by the read deadline.
