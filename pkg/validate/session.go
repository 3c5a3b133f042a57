package validate

import (
	"context"

	"github.com/golang/glog"

	"github.com/robotalks/hilval/pkg/dataset"
	"github.com/robotalks/hilval/pkg/device/comm"
	"github.com/robotalks/hilval/pkg/framework"
)

// Session sequences one automatic validation: load the dataset, connect,
// run the loop and release the port.
type Session struct {
	// Load loads the dataset, it's called before connecting.
	Load func() (*dataset.Dataset, error)
	// Open connects to the device.
	Open func() (comm.Port, error)
	Loop *Loop
}

// Run executes the session. A nil summary means the loop never started,
// either the dataset or the connection was unavailable.
func (s *Session) Run(ctx context.Context) (summary *Summary, err error) {
	ds, err := s.Load()
	if err != nil {
		return nil, err
	}
	glog.Infof("dataset %s: %d samples", ds.Name, ds.Len())
	port, err := s.Open()
	if err != nil {
		return nil, err
	}
	defer framework.CloseWith(&err, port)
	return s.Loop.Run(ctx, port, ds.Samples)
}
