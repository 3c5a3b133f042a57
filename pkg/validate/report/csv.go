package report

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gocarina/gocsv"

	"github.com/robotalks/hilval/pkg/validate"
)

type csvRow struct {
	Index      int    `csv:"idx"`
	Truth      int    `csv:"truth"`
	Reference  int    `csv:"reference"`
	Prediction string `csv:"device"`
	Status     string `csv:"status"`
	Checksum   string `csv:"crc16"`
}

// CSV collects rows and writes them to a file when the run finishes.
// A timeout has an empty device column.
type CSV struct {
	Path string
	rows []*csvRow
}

// NewCSV creates a CSV reporter writing to path.
func NewCSV(path string) *CSV {
	return &CSV{Path: path}
}

// Start implements validate.Reporter.
func (c *CSV) Start(total int) error {
	c.rows = make([]*csvRow, 0, total)
	return nil
}

// Record implements validate.Reporter.
func (c *CSV) Record(row validate.Row) error {
	r := &csvRow{
		Index:     row.Index,
		Truth:     row.Truth,
		Reference: row.Reference,
		Status:    row.Outcome.String(),
		Checksum:  row.Checksum,
	}
	if row.Prediction.IsValid() {
		r.Prediction = strconv.Itoa(int(row.Prediction))
	}
	c.rows = append(c.rows, r)
	return nil
}

// Finish implements validate.Reporter.
func (c *CSV) Finish(validate.Summary) error {
	f, err := os.Create(c.Path)
	if err != nil {
		return err
	}
	if err = gocsv.Marshal(&c.rows, f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", c.Path, err)
	}
	return f.Close()
}
