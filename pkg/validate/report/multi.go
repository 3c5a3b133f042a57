package report

import (
	"github.com/robotalks/hilval/pkg/framework"
	"github.com/robotalks/hilval/pkg/validate"
)

// Multi fans out to all reporters, a failing one doesn't stop the others.
type Multi []validate.Reporter

// Start implements validate.Reporter.
func (m Multi) Start(total int) error {
	var errs framework.AggregatedError
	for _, r := range m {
		errs.Add(r.Start(total))
	}
	return errs.Aggregate()
}

// Record implements validate.Reporter.
func (m Multi) Record(row validate.Row) error {
	var errs framework.AggregatedError
	for _, r := range m {
		errs.Add(r.Record(row))
	}
	return errs.Aggregate()
}

// Finish implements validate.Reporter.
func (m Multi) Finish(s validate.Summary) error {
	var errs framework.AggregatedError
	for _, r := range m {
		errs.Add(r.Finish(s))
	}
	return errs.Aggregate()
}
