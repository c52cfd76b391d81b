package exporter

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"themestore/pkg/themefiles"
	"themestore/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hashA = types.Hash("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

func TestWriteFiles(t *testing.T) {
	out := filepath.Join(t.TempDir(), "restored")

	configs := []themefiles.FileConfig{
		{Hash: hashA, FilePath: "assets/site.css", FileData: []byte("body{}")},
		{Hash: hashA, FilePath: "empty.txt", FileData: []byte{}},
		{Hash: hashA, FilePath: "missing.png"},
	}

	res, err := WriteFiles(out, configs)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Written)
	assert.Equal(t, []string{"missing.png"}, res.Missing)

	data, err := os.ReadFile(filepath.Join(out, "assets", "site.css"))
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(data))

	info, err := os.Stat(filepath.Join(out, "empty.txt"))
	require.NoError(t, err)
	assert.Zero(t, info.Size())

	assert.NoFileExists(t, filepath.Join(out, "missing.png"))
}

func TestWriteFiles_RejectsEscape(t *testing.T) {
	out := t.TempDir()
	for _, p := range []string{"../evil.sh", "a/../../evil.sh", "/etc/passwd", ""} {
		_, err := WriteFiles(out, []themefiles.FileConfig{{Hash: hashA, FilePath: p, FileData: []byte("x")}})
		assert.Error(t, err, "path %q", p)
	}
}

func TestPrintPutResult(t *testing.T) {
	var buf bytes.Buffer
	err := PrintPutResult(&buf, &themefiles.PutFilesResult{
		Written: 1, Skipped: 1,
		Warnings: []themefiles.FileWarning{{
			Hash: hashA, FilePath: "hero.mp4", Size: 26 << 20,
			Reason: themefiles.ReasonExceeded25MB, Action: themefiles.ActionRejected,
		}},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "exceeded_25mb")
	assert.Contains(t, buf.String(), "26.00MB")
	assert.Contains(t, buf.String(), "aaaaaaaa")
}

func TestPrintPlan(t *testing.T) {
	batches := themefiles.PlanBatches([]themefiles.FileConfig{
		{Hash: hashA, FilePath: "big.js", File: themefiles.FileInfo{Length: 2048}},
	})
	var buf bytes.Buffer
	require.NoError(t, PrintPlan(&buf, batches))
	assert.Contains(t, buf.String(), "big.js")
	assert.Contains(t, buf.String(), "2.0KB")
}
