package util

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"
)

// Extensions accepted for JSON input, plain or compressed.
var jsonExtensions = []string{".json", ".json.gz", ".json.zst", ".json.lz4"}

// jsonStem returns the file name without its JSON extension, or false if the
// name has none of jsonExtensions.
func jsonStem(name string) (string, bool) {
	for _, ext := range jsonExtensions {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext), true
		}
	}
	return "", false
}

// readJSONFile reads a file and decompresses it according to its extension.
func readJSONFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.HasSuffix(path, ".gz"):
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrapf(err, "gzip %s", path)
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		return out, errors.Wrapf(err, "gzip %s", path)
	case strings.HasSuffix(path, ".zst"):
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		out, err := dec.DecodeAll(data, nil)
		return out, errors.Wrapf(err, "zstd %s", path)
	case strings.HasSuffix(path, ".lz4"):
		out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
		return out, errors.Wrapf(err, "lz4 %s", path)
	default:
		return data, nil
	}
}
