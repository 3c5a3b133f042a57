package dataset

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/sbinet/npyio/npz"
)

// Schema names the arrays in an .npz file.
type Schema struct {
	Images     string
	References string
	Truths     string
	ImageSize  int
}

// DefaultSchema matches the files exported by the training notebook.
var DefaultSchema = Schema{
	Images:     "imagens",
	References: "preds_colab",
	Truths:     "labels_reais",
	ImageSize:  DefaultImageSize,
}

// LoadNPZ loads a Dataset from an .npz file.
func LoadNPZ(path string, schema Schema) (*Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatasetUnavailable, err)
	}
	r, err := npz.Open(path)
	if err != nil {
		return nil, &SchemaError{Reason: fmt.Sprintf("not an npz archive: %v", err)}
	}
	defer r.Close()

	// archive members may or may not carry the .npy suffix.
	members := make(map[string]string)
	for _, key := range r.Keys() {
		members[strings.TrimSuffix(key, ".npy")] = key
	}
	for _, key := range []string{schema.Images, schema.References, schema.Truths} {
		if _, ok := members[key]; !ok {
			return nil, &SchemaError{Key: key, Reason: "missing"}
		}
	}

	images, err := readImages(r, members[schema.Images])
	if err != nil {
		return nil, err
	}
	refs, err := readInts(r, members[schema.References])
	if err != nil {
		return nil, err
	}
	truths, err := readInts(r, members[schema.Truths])
	if err != nil {
		return nil, err
	}
	return New(path, schema.ImageSize, images, refs, truths)
}

func dtype(r *npz.Reader, key string) (string, error) {
	h := r.Header(key)
	if h == nil {
		return "", schemaErr(key, "missing header")
	}
	t := h.Descr.Type
	if len(t) > 2 && strings.ContainsAny(t[:1], "<>|=") {
		t = t[1:]
	}
	return t, nil
}

func readImages(r *npz.Reader, key string) ([]byte, error) {
	t, err := dtype(r, key)
	if err != nil {
		return nil, err
	}
	if t != "u1" {
		return nil, schemaErr(key, fmt.Sprintf("images must be uint8, got %q", t))
	}
	var data []uint8
	if err := r.Read(key, &data); err != nil {
		return nil, schemaErr(key, err.Error())
	}
	return data, nil
}

func readInts(r *npz.Reader, key string) ([]int, error) {
	t, err := dtype(r, key)
	if err != nil {
		return nil, err
	}
	var out []int
	read := func(ptr interface{}) error {
		if err := r.Read(key, ptr); err != nil {
			return schemaErr(key, err.Error())
		}
		return nil
	}
	switch t {
	case "u1":
		var v []uint8
		if err = read(&v); err == nil {
			out = make([]int, len(v))
			for i, x := range v {
				out[i] = int(x)
			}
		}
	case "u2":
		var v []uint16
		if err = read(&v); err == nil {
			out = make([]int, len(v))
			for i, x := range v {
				out[i] = int(x)
			}
		}
	case "u4":
		var v []uint32
		if err = read(&v); err == nil {
			out = make([]int, len(v))
			for i, x := range v {
				out[i] = int(x)
			}
		}
	case "u8":
		var v []uint64
		if err = read(&v); err == nil {
			out = make([]int, len(v))
			for i, x := range v {
				if x > math.MaxInt32 {
					return nil, schemaErr(key, fmt.Sprintf("value %d out of range", x))
				}
				out[i] = int(x)
			}
		}
	case "i1":
		var v []int8
		if err = read(&v); err == nil {
			out = make([]int, len(v))
			for i, x := range v {
				out[i] = int(x)
			}
		}
	case "i2":
		var v []int16
		if err = read(&v); err == nil {
			out = make([]int, len(v))
			for i, x := range v {
				out[i] = int(x)
			}
		}
	case "i4":
		var v []int32
		if err = read(&v); err == nil {
			out = make([]int, len(v))
			for i, x := range v {
				out[i] = int(x)
			}
		}
	case "i8":
		var v []int64
		if err = read(&v); err == nil {
			out = make([]int, len(v))
			for i, x := range v {
				out[i] = int(x)
			}
		}
	default:
		return nil, schemaErr(key, fmt.Sprintf("integer array expected, got %q", t))
	}
	return out, err
}

func schemaErr(member, reason string) *SchemaError {
	return &SchemaError{Key: strings.TrimSuffix(member, ".npy"), Reason: reason}
}
