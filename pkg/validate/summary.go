package validate

import (
	"fmt"

	"github.com/robotalks/hilval/pkg/device/comm"
)

// Row is the record of one processed sample.
type Row struct {
	Index      int             `json:"idx"`
	Truth      int             `json:"truth"`
	Reference  int             `json:"reference"`
	Prediction comm.Prediction `json:"prediction"`
	Outcome    Outcome         `json:"status"`
	// Checksum is the CRC16 of the image in hex.
	Checksum string `json:"crc16"`
}

// Correct indicates the device prediction equals the ground truth.
func (r *Row) Correct() bool {
	return r.Prediction.IsValid() && int(r.Prediction) == r.Truth
}

// Summary accumulates the counters of a validation run.
type Summary struct {
	Total       int  `json:"total"`
	Processed   int  `json:"processed"`
	Correct     int  `json:"correct"`
	Agreement   int  `json:"agreement"`
	Timeouts    int  `json:"timeouts"`
	Divergent   int  `json:"divergent"`
	Interrupted bool `json:"interrupted"`
}

// Add accounts a processed row.
func (s *Summary) Add(row *Row) {
	s.Processed++
	switch row.Outcome {
	case Match:
		s.Agreement++
	case Divergent:
		s.Divergent++
	case Timeout:
		s.Timeouts++
	}
	if row.Correct() {
		s.Correct++
	}
}

// Accuracy is Correct/Processed, false if nothing was processed.
func (s *Summary) Accuracy() (float64, bool) {
	return ratio(s.Correct, s.Processed)
}

// Fidelity is Agreement/Processed, false if nothing was processed.
func (s *Summary) Fidelity() (float64, bool) {
	return ratio(s.Agreement, s.Processed)
}

// Partial indicates not all samples were processed.
func (s *Summary) Partial() bool {
	return s.Interrupted || s.Processed < s.Total
}

// FormatRatio renders a ratio as a percentage, or "no samples".
func FormatRatio(r float64, ok bool) string {
	if !ok {
		return "no samples"
	}
	return fmt.Sprintf("%.1f%%", r*100)
}

func ratio(n, d int) (float64, bool) {
	if d == 0 {
		return 0, false
	}
	return float64(n) / float64(d), true
}
