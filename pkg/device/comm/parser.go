package comm

import (
	"strconv"
	"strings"
)

// ResultMarker prefixes the predicted class in a result line.
const ResultMarker = "Predição:"

// LineKind classifies a line of device output.
type LineKind int

const (
	// LineEmpty is a blank or whitespace-only line.
	LineEmpty LineKind = iota
	// LineDiagnostic is any line without ResultMarker.
	LineDiagnostic
	// LineMalformed carries ResultMarker but no parsable class.
	LineMalformed
	// LineResult carries a class.
	LineResult
)

var lineKindNames = [...]string{"empty", "diagnostic", "malformed", "result"}

// String implements fmt.Stringer.
func (k LineKind) String() string {
	if k >= 0 && int(k) < len(lineKindNames) {
		return lineKindNames[k]
	}
	return "LineKind(" + strconv.Itoa(int(k)) + ")"
}

// ParseResult is the outcome of parsing one line.
type ParseResult struct {
	Kind       LineKind
	Prediction Prediction
}

// ParseLine tokenizes a decoded line: marker match, split at the next
// colon, integer parse. Prediction is NoResponse unless Kind is LineResult.
func ParseLine(line string) (pr ParseResult) {
	pr.Prediction = NoResponse
	if line = strings.TrimSpace(line); line == "" {
		return
	}
	pos := strings.Index(line, ResultMarker)
	if pos < 0 {
		pr.Kind = LineDiagnostic
		return
	}
	value := line[pos+len(ResultMarker):]
	if end := strings.IndexByte(value, ':'); end >= 0 {
		value = value[:end]
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		pr.Kind = LineMalformed
		return
	}
	pr.Kind, pr.Prediction = LineResult, Prediction(n)
	return
}
