// Package dataset loads the labeled samples used for validation.
package dataset

import (
	"errors"
	"fmt"

	"github.com/sigurn/crc16"
)

// DefaultImageSize is the byte length of a 28x28 8-bit image.
const DefaultImageSize = 28 * 28

var (
	// ErrDatasetUnavailable indicates the dataset file can't be found or opened.
	ErrDatasetUnavailable = errors.New("dataset unavailable")

	crcTable = crc16.MakeTable(crc16.CRC16_MODBUS)
)

// SchemaError reports a dataset which doesn't have the expected structure.
type SchemaError struct {
	Key    string
	Reason string
}

// Error implements error.
func (e *SchemaError) Error() string {
	if e.Key == "" {
		return "dataset schema: " + e.Reason
	}
	return fmt.Sprintf("dataset schema: %s: %s", e.Key, e.Reason)
}

// Sample is one labeled image.
type Sample struct {
	Image []byte
	// Reference is the class predicted by the host model.
	Reference int
	// Truth is the ground-truth label.
	Truth int
}

// Checksum is the CRC16/MODBUS of the image.
func (s *Sample) Checksum() uint16 {
	return crc16.Checksum(s.Image, crcTable)
}

// Dataset is an ordered list of samples.
type Dataset struct {
	Name      string
	ImageSize int
	Samples   []Sample
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	return len(d.Samples)
}

// New assembles a Dataset from aligned sequences. images is the
// concatenation of all images, imageSize bytes each.
func New(name string, imageSize int, images []byte, refs, truths []int) (*Dataset, error) {
	if imageSize <= 0 {
		return nil, &SchemaError{Reason: fmt.Sprintf("invalid image size %d", imageSize)}
	}
	if len(refs) != len(truths) {
		return nil, &SchemaError{Reason: fmt.Sprintf("%d reference predictions for %d labels", len(refs), len(truths))}
	}
	if len(images) != len(truths)*imageSize {
		return nil, &SchemaError{Reason: fmt.Sprintf("%d image bytes for %d samples of %d bytes", len(images), len(truths), imageSize)}
	}
	d := &Dataset{Name: name, ImageSize: imageSize, Samples: make([]Sample, len(truths))}
	for n := range d.Samples {
		d.Samples[n] = Sample{
			Image:     images[n*imageSize : (n+1)*imageSize : (n+1)*imageSize],
			Reference: refs[n],
			Truth:     truths[n],
		}
	}
	return d, nil
}
