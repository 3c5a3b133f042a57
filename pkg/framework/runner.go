package framework

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"
)

// WithSignals derives a context canceled on CtrlC or SIGTERM. The returned
// stop func must be called to restore default signal handling.
func WithSignals(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	doneCh := make(chan struct{})
	go func() {
		select {
		case <-sigCh:
			glog.Info("stop requested")
			cancel()
		case <-doneCh:
		}
	}()
	return ctx, func() {
		signal.Stop(sigCh)
		close(doneCh)
		cancel()
	}
}

// CloseWith closes closer and aggregates its error with err.
// It's meant to be deferred on a named error result.
func CloseWith(err *error, closer io.Closer) {
	var errs AggregatedError
	errs.Add(*err, closer.Close())
	*err = errs.Aggregate()
}

// IsCanceled indicates err comes from context cancellation.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
