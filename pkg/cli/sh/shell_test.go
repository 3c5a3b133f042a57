package sh

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/hilval/pkg/dataset"
)

func TestDescribeDataset(t *testing.T) {
	images := make([]byte, 4*2)
	ds, err := dataset.New("test.npz", 2, images, []int{3, 1, 1, 0}, []int{3, 1, 2, 1})
	require.NoError(t, err)
	info := DescribeDataset(ds)
	require.Equal(t, "test.npz", info.Name)
	require.Equal(t, 4, info.Samples)
	require.Equal(t, 2, info.ImageSize)
	require.Equal(t, []ClassCount{{1, 2}, {2, 1}, {3, 1}}, info.Classes)
	require.InDelta(t, 0.5, info.ReferenceAccuracy, 1e-9)
}

func TestDescribeEmptyDataset(t *testing.T) {
	info := DescribeDataset(&dataset.Dataset{Name: "empty"})
	require.Equal(t, 0, info.Samples)
	require.Empty(t, info.Classes)
	require.Equal(t, 0.0, info.ReferenceAccuracy)
}
