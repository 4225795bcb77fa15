package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const batch = `{"images": [
  {"name": "a.jpg",
   "predictions": [{"box": [0, 0, 10, 10], "label": 1, "confidence": 0.9}],
   "ground_truths": [{"box": [0, 0, 10, 10], "label": 1}, {"box": [20, 20, 30, 30], "label": 2}]}
]}`

func TestRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.json")
	require.NoError(t, os.WriteFile(path, []byte(batch), 0o600))

	var stdout, stderr bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	err := run(context.Background(), options{
		input:        path,
		iouThreshold: 0.4,
		solver:       "jv",
		workers:      2,
		summary:      true,
	}, &stdout, &stderr, logger)
	require.NoError(t, err)

	assert.Equal(t, "id,img_name,confidence,label,iou,match,correct_match\n"+
		"0,a.jpg,0.9,1,1,1,1\n"+
		"1,a.jpg,0,2,0,0,0\n", stdout.String())
	assert.True(t, strings.HasPrefix(stderr.String(), "images=1 records=2 predictions=1 matches=1 correct=1 synthetic=1 skipped=0"))
}

func TestRun_Errors(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(t.TempDir(), "batch.json")
	require.NoError(t, os.WriteFile(path, []byte(batch), 0o600))

	tests := []struct {
		name string
		opts options
	}{
		{"no input", options{solver: "jv"}},
		{"both inputs", options{input: path, dir: ".", solver: "jv"}},
		{"unknown solver", options{input: path, solver: "simplex", iouThreshold: 0.4}},
		{"bad threshold", options{input: path, solver: "jv", iouThreshold: 2}},
		{"missing file", options{input: path + ".missing", solver: "jv"}},
		{"unknown class set", options{input: path, solver: "jv", iouThreshold: 0.4, classes: "voc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(context.Background(), tt.opts, io.Discard, io.Discard, logger)
			assert.Error(t, err)
		})
	}
}
