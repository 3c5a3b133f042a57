package validate

// Reporter receives the progress of a validation run.
// Errors from a Reporter are logged and never abort the run.
type Reporter interface {
	Start(total int) error
	Record(row Row) error
	Finish(summary Summary) error
}

// NopReporter discards everything.
type NopReporter struct{}

// Start implements Reporter.
func (NopReporter) Start(int) error { return nil }

// Record implements Reporter.
func (NopReporter) Record(Row) error { return nil }

// Finish implements Reporter.
func (NopReporter) Finish(Summary) error { return nil }
