package comm

import (
	"fmt"
	"time"
)

// Client performs request/response exchanges with the device.
// At most one exchange is in flight, it's not safe for concurrent use.
type Client struct {
	port   Port
	reader *Reader
}

// NewClient wraps an opened port.
func NewClient(port Port) *Client {
	return &Client{port: port, reader: NewReader(port)}
}

// Reader gets the response reader to adjust its settings.
func (c *Client) Reader() *Reader {
	return c.reader
}

// WithDeadline sets the response deadline.
func (c *Client) WithDeadline(d time.Duration) *Client {
	c.reader.Deadline = d
	return c
}

// WithClasses sets the number of valid classes, used to flag out of range
// results.
func (c *Client) WithClasses(n int) *Client {
	c.reader.Classes = n
	return c
}

// Predict sends the image and waits for the predicted class.
// NoResponse with a nil error means the device stayed silent.
func (c *Client) Predict(image []byte) (Prediction, error) {
	if _, err := c.port.Write(image); err != nil {
		return NoResponse, fmt.Errorf("write image: %w", err)
	}
	if err := c.port.Flush(); err != nil {
		return NoResponse, fmt.Errorf("flush: %w", err)
	}
	pred, err := c.reader.ReadPrediction()
	if err != nil {
		return NoResponse, fmt.Errorf("read response: %w", err)
	}
	return pred, nil
}
