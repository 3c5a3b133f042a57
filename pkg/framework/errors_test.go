package framework

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Add(nil, nil).Aggregate())

	first := errors.New("first")
	require.Equal(t, first, errs.Add(first).Aggregate())

	second := errors.New("second")
	err := errs.Add(nil, second).Aggregate()
	require.Equal(t, "multiple errors: first; second", err.Error())
	require.True(t, errors.Is(err, first))
	require.True(t, errors.Is(err, second))
	require.False(t, errors.Is(err, context.Canceled))
}

func TestCloseWith(t *testing.T) {
	closeErr := errors.New("close")
	testCases := []struct {
		name    string
		err     error
		closer  error
		expects []error
	}{
		{"no error", nil, nil, nil},
		{"run error", context.Canceled, nil, []error{context.Canceled}},
		{"close error", nil, closeErr, []error{closeErr}},
		{"both", context.Canceled, closeErr, []error{context.Canceled, closeErr}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			closed := false
			err := tc.err
			CloseWith(&err, closerFunc(func() error {
				closed = true
				return tc.closer
			}))
			require.True(t, closed)
			if len(tc.expects) == 0 {
				require.NoError(t, err)
			}
			for _, expect := range tc.expects {
				require.True(t, errors.Is(err, expect), "%v not in %v", expect, err)
			}
			require.Equal(t, tc.err != nil && IsCanceled(tc.err), IsCanceled(err))
		})
	}
}
