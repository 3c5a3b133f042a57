package validate

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/hilval/pkg/dataset"
	"github.com/robotalks/hilval/pkg/device/comm"
)

// Defaults of Options.
const (
	DefaultSampleDelay = 200 * time.Millisecond
)

// Options configures the validation loop.
type Options struct {
	// Deadline bounds the wait for each response.
	Deadline time.Duration
	// Classes is the number of valid classes, larger results are
	// counted as divergent.
	Classes int
	// SampleDelay is the pause between samples.
	SampleDelay time.Duration
	// ImageSize is the expected image length, 0 accepts any.
	ImageSize int
}

// DefaultOptions returns Options with defaults.
func DefaultOptions() Options {
	return Options{
		Deadline:    comm.DefaultDeadline,
		Classes:     comm.DefaultClasses,
		SampleDelay: DefaultSampleDelay,
		ImageSize:   dataset.DefaultImageSize,
	}
}

// Loop runs one request/response cycle per sample.
type Loop struct {
	Options  Options
	Reporter Reporter
}

// NewLoop creates a Loop.
func NewLoop(opts Options, reporter Reporter) *Loop {
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Loop{Options: opts, Reporter: reporter}
}

// Run feeds samples through the port in order. The summary is always
// returned, and reported, even when the run is aborted. Cancellation is
// only observed between samples, in which case the summary is flagged
// Interrupted and ctx.Err() is returned.
func (l *Loop) Run(ctx context.Context, port comm.Port, samples []dataset.Sample) (*Summary, error) {
	client := comm.NewClient(port).
		WithDeadline(l.Options.Deadline).
		WithClasses(l.Options.Classes)
	summary := &Summary{Total: len(samples)}
	l.report("start", l.Reporter.Start(len(samples)))
	err := l.run(ctx, client, samples, summary)
	switch {
	case err == nil:
	case err == ctx.Err():
		summary.Interrupted = true
		glog.Warningf("validation interrupted after %d of %d samples", summary.Processed, summary.Total)
	default:
		glog.Errorf("validation aborted after %d of %d samples: %v", summary.Processed, summary.Total, err)
	}
	l.report("finish", l.Reporter.Finish(*summary))
	return summary, err
}

func (l *Loop) run(ctx context.Context, client *comm.Client, samples []dataset.Sample, summary *Summary) error {
	for n := range samples {
		if n > 0 && l.Options.SampleDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(l.Options.SampleDelay):
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		sample := &samples[n]
		if l.Options.ImageSize > 0 && len(sample.Image) != l.Options.ImageSize {
			return fmt.Errorf("sample %d: image has %d bytes, expect %d", n, len(sample.Image), l.Options.ImageSize)
		}
		pred, err := client.Predict(sample.Image)
		if err != nil {
			return fmt.Errorf("sample %d: %w", n, err)
		}
		row := Row{
			Index:      n,
			Truth:      sample.Truth,
			Reference:  sample.Reference,
			Prediction: pred,
			Outcome:    Classify(pred, sample.Reference),
			Checksum:   fmt.Sprintf("%04x", sample.Checksum()),
		}
		summary.Add(&row)
		if glog.V(1) {
			glog.Infof("sample %d: truth %d reference %d device %s: %s",
				n, row.Truth, row.Reference, row.Prediction, row.Outcome)
		}
		l.report("record", l.Reporter.Record(row))
	}
	return nil
}

func (l *Loop) report(what string, err error) {
	if err != nil {
		glog.Warningf("reporter %s: %v", what, err)
	}
}
