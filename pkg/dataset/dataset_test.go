package dataset

import (
	"errors"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/sbinet/npyio/npz"
	"github.com/stretchr/testify/require"
)

func writeNPZ(t *testing.T, arrays map[string]interface{}) string {
	fn := filepath.Join(t.TempDir(), "dados_validacao.npz")
	w, err := npz.Create(fn)
	require.NoError(t, err)
	for name, v := range arrays {
		require.NoError(t, w.Write(name, v))
	}
	require.NoError(t, w.Close())
	return fn
}

func testImages(n, size int) []uint8 {
	images := make([]uint8, n*size)
	for i := range images {
		images[i] = uint8(i / size * 10)
	}
	return images
}

func TestLoadNPZ(t *testing.T) {
	fn := writeNPZ(t, map[string]interface{}{
		"imagens":      testImages(3, DefaultImageSize),
		"preds_colab":  []int64{7, 2, 1},
		"labels_reais": []int32{7, 2, 9},
	})
	d, err := LoadNPZ(fn, DefaultSchema)
	require.NoError(t, err)
	require.Equal(t, 3, d.Len())
	require.Equal(t, DefaultImageSize, d.ImageSize)
	for n, s := range d.Samples {
		require.Len(t, s.Image, DefaultImageSize)
		require.Equal(t, uint8(n*10), s.Image[0])
	}
	require.Equal(t, []int{7, 2, 1}, []int{d.Samples[0].Reference, d.Samples[1].Reference, d.Samples[2].Reference})
	require.Equal(t, []int{7, 2, 9}, []int{d.Samples[0].Truth, d.Samples[1].Truth, d.Samples[2].Truth})
}

func TestLoadNPZCustomSchema(t *testing.T) {
	fn := writeNPZ(t, map[string]interface{}{
		"x":      testImages(2, 4),
		"y_host": []uint8{1, 0},
		"y":      []int8{1, 1},
	})
	d, err := LoadNPZ(fn, Schema{Images: "x", References: "y_host", Truths: "y", ImageSize: 4})
	require.NoError(t, err)
	require.Equal(t, 2, d.Len())
	require.Equal(t, 0, d.Samples[1].Reference)
	require.Equal(t, 1, d.Samples[1].Truth)
}

func TestLoadNPZUnsignedLabels(t *testing.T) {
	testCases := []struct {
		name   string
		refs   interface{}
		truths interface{}
	}{
		{"uint16", []uint16{3, 1}, []uint16{3, 2}},
		{"uint32", []uint32{3, 1}, []uint32{3, 2}},
		{"uint64", []uint64{3, 1}, []uint64{3, 2}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fn := writeNPZ(t, map[string]interface{}{
				"imagens":      testImages(2, DefaultImageSize),
				"preds_colab":  tc.refs,
				"labels_reais": tc.truths,
			})
			d, err := LoadNPZ(fn, DefaultSchema)
			require.NoError(t, err)
			require.Equal(t, 3, d.Samples[0].Reference)
			require.Equal(t, 1, d.Samples[1].Reference)
			require.Equal(t, 2, d.Samples[1].Truth)
		})
	}
}

func TestLoadNPZLabelOverflow(t *testing.T) {
	fn := writeNPZ(t, map[string]interface{}{
		"imagens":      testImages(1, DefaultImageSize),
		"preds_colab":  []uint64{1 << 40},
		"labels_reais": []uint64{1},
	})
	_, err := LoadNPZ(fn, DefaultSchema)
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr), "unexpected error %v", err)
	require.Equal(t, "preds_colab", schemaErr.Key)
}

func TestLoadNPZUnavailable(t *testing.T) {
	_, err := LoadNPZ(filepath.Join(t.TempDir(), "missing.npz"), DefaultSchema)
	require.True(t, errors.Is(err, ErrDatasetUnavailable), "unexpected error %v", err)
}

func TestLoadNPZSchemaErrors(t *testing.T) {
	testCases := []struct {
		name   string
		arrays map[string]interface{}
		key    string
	}{
		{
			name: "missing key",
			arrays: map[string]interface{}{
				"imagens":     testImages(1, DefaultImageSize),
				"preds_colab": []int64{1},
			},
			key: "labels_reais",
		},
		{
			name: "float images",
			arrays: map[string]interface{}{
				"imagens":      make([]float32, DefaultImageSize),
				"preds_colab":  []int64{1},
				"labels_reais": []int64{1},
			},
			key: "imagens",
		},
		{
			name: "float labels",
			arrays: map[string]interface{}{
				"imagens":      testImages(1, DefaultImageSize),
				"preds_colab":  []int64{1},
				"labels_reais": []float64{1},
			},
			key: "labels_reais",
		},
		{
			name: "misaligned",
			arrays: map[string]interface{}{
				"imagens":      testImages(2, DefaultImageSize),
				"preds_colab":  []int64{1, 2},
				"labels_reais": []int64{1},
			},
		},
		{
			name: "image size",
			arrays: map[string]interface{}{
				"imagens":      testImages(2, 100),
				"preds_colab":  []int64{1, 2},
				"labels_reais": []int64{1, 2},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadNPZ(writeNPZ(t, tc.arrays), DefaultSchema)
			var schemaErr *SchemaError
			require.True(t, errors.As(err, &schemaErr), "unexpected error %v", err)
			require.Equal(t, tc.key, schemaErr.Key)
		})
	}
}

func TestLoadNPZNotArchive(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "bad.npz")
	require.NoError(t, ioutil.WriteFile(fn, []byte("not a zip"), 0644))
	_, err := LoadNPZ(fn, DefaultSchema)
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr), "unexpected error %v", err)
}

func TestNew(t *testing.T) {
	d, err := New("mem", 2, []byte{1, 2, 3, 4}, []int{0, 1}, []int{1, 1})
	require.NoError(t, err)
	require.Equal(t, []byte{3, 4}, d.Samples[1].Image)

	d, err = New("empty", DefaultImageSize, nil, nil, nil)
	require.NoError(t, err)
	require.Zero(t, d.Len())

	_, err = New("bad", 0, nil, nil, nil)
	require.Error(t, err)
}

func TestSampleChecksum(t *testing.T) {
	s := Sample{Image: []byte("123456789")}
	require.Equal(t, uint16(0x4b37), s.Checksum())
}

func TestSchemaError(t *testing.T) {
	require.Equal(t, "dataset schema: imagens: missing", (&SchemaError{Key: "imagens", Reason: "missing"}).Error())
	require.Equal(t, "dataset schema: bad", (&SchemaError{Reason: "bad"}).Error())
}
