package comm

import (
	"bytes"
	"io"
	"os"
	"strings"
	"time"

	"github.com/golang/glog"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// Defaults of Reader.
const (
	DefaultDeadline = 5 * time.Second
	DefaultClasses  = 10
	DefaultIdle     = 5 * time.Millisecond

	// maxLineLen bounds an unterminated line before it is evaluated anyway.
	maxLineLen = 1024
)

// Reader extracts predictions from the device output stream.
//
// Stream.Read is expected to return within a poll interval. A zero-length
// read, io.EOF without data and timeout errors all mean nothing is available
// yet; any other error is returned to the caller.
type Reader struct {
	Stream io.Reader
	// Deadline bounds a single ReadPrediction.
	Deadline time.Duration
	// Classes is the number of valid classes. Results outside
	// [0, Classes) are still returned, with a warning. 0 disables the check.
	Classes int
	// Idle is the wait after an empty poll, for streams which
	// don't block on Read.
	Idle time.Duration

	pending []byte
	chunk   []byte
	decoder *encoding.Decoder
}

// NewReader creates a Reader with defaults.
func NewReader(s io.Reader) *Reader {
	return &Reader{
		Stream:   s,
		Deadline: DefaultDeadline,
		Classes:  DefaultClasses,
		Idle:     DefaultIdle,
	}
}

// ReadPrediction polls the stream until a result line is recognized or the
// deadline elapses, in which case NoResponse is returned. Output following
// the first result line stays buffered for the next call.
func (r *Reader) ReadPrediction() (Prediction, error) {
	if r.chunk == nil {
		r.chunk = make([]byte, 256)
	}
	deadline := time.Now().Add(r.Deadline)
	for {
		if pred, ok := r.scanLines(); ok {
			return pred, nil
		}
		remains := time.Until(deadline)
		if remains <= 0 {
			return NoResponse, nil
		}
		n, err := r.Stream.Read(r.chunk)
		if n > 0 {
			r.pending = append(r.pending, r.chunk[:n]...)
		}
		if err != nil && !isIdle(err) {
			return NoResponse, err
		}
		if n > 0 {
			continue
		}
		if len(r.pending) > 0 {
			// the poll interval elapsed in the middle of a line, take what we have.
			line := r.pending
			r.pending = nil
			if pred, ok := r.evaluate(line); ok {
				return pred, nil
			}
			continue
		}
		if r.Idle > 0 {
			if r.Idle < remains {
				remains = r.Idle
			}
			time.Sleep(remains)
		}
	}
}

// Buffered returns the number of bytes received but not yet evaluated.
func (r *Reader) Buffered() int {
	return len(r.pending)
}

func (r *Reader) scanLines() (Prediction, bool) {
	for {
		pos := bytes.IndexByte(r.pending, '\n')
		if pos < 0 {
			if len(r.pending) < maxLineLen {
				return NoResponse, false
			}
			pos = len(r.pending)
		}
		line := r.pending[:pos]
		if pos < len(r.pending) {
			r.pending = r.pending[pos+1:]
		} else {
			r.pending = nil
		}
		if pred, ok := r.evaluate(line); ok {
			return pred, true
		}
	}
}

func (r *Reader) evaluate(raw []byte) (Prediction, bool) {
	line := r.decode(raw)
	pr := ParseLine(line)
	switch pr.Kind {
	case LineResult:
		if r.Classes > 0 && int(pr.Prediction) >= r.Classes {
			glog.Warningf("class %d out of range [0, %d)", pr.Prediction, r.Classes)
		}
		glog.V(2).Infof("RCV result %d", pr.Prediction)
		return pr.Prediction, true
	case LineMalformed:
		glog.V(2).Infof("malformed result ignored: %q", line)
	case LineDiagnostic:
		glog.V(3).Infof("RCV %s", line)
	}
	return NoResponse, false
}

func (r *Reader) decode(raw []byte) string {
	if r.decoder == nil {
		r.decoder = unicode.UTF8.NewDecoder()
	}
	text, err := r.decoder.Bytes(raw)
	if err != nil {
		return strings.ToValidUTF8(string(raw), "")
	}
	return string(text)
}

func isIdle(err error) bool {
	return err == io.EOF || os.IsTimeout(err)
}
