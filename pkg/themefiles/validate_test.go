package themefiles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFile_Thresholds(t *testing.T) {
	tests := []struct {
		name   string
		size   int64
		reason WarningReason // 空表示没有 warning
		store  bool
	}{
		{"zero", 0, "", true},
		{"just under 1MiB", WarnThreshold - 1, "", true},
		{"exactly 1MiB", WarnThreshold, ReasonWarning1MB, true},
		{"just under 5MiB", RejectThreshold - 1, ReasonWarning1MB, true},
		{"exactly 5MiB", RejectThreshold, ReasonRejected5MB, false},
		{"just under 25MiB", HardLimit - 1, ReasonRejected5MB, false},
		{"exactly 25MiB", HardLimit, ReasonExceeded25MB, false},
		{"26MiB", 26 * MiB, ReasonExceeded25MB, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := sized("theme/asset.bin", tt.size)
			warning, store := ValidateFile(c)
			assert.Equal(t, tt.store, store)

			if tt.reason == "" {
				assert.Nil(t, warning)
				return
			}
			require.NotNil(t, warning)
			assert.Equal(t, tt.reason, warning.Reason)
			assert.Equal(t, tt.size, warning.Size)
			assert.Equal(t, c.Hash, warning.Hash)
			assert.Equal(t, "theme/asset.bin", warning.FilePath)
			if tt.store {
				assert.Equal(t, ActionStored, warning.Action)
			} else {
				assert.Equal(t, ActionRejected, warning.Action)
			}
		})
	}
}

func TestValidateFile_UsesLargerOfLengthAndData(t *testing.T) {
	// 声明长度偏小，但实际数据已经超过 5MiB
	c := FileConfig{
		Hash:     hashOf("liar"),
		FilePath: "liar.png",
		File:     FileInfo{Length: 10},
		FileData: make([]byte, RejectThreshold),
	}
	warning, store := ValidateFile(c)
	assert.False(t, store)
	require.NotNil(t, warning)
	assert.Equal(t, ReasonRejected5MB, warning.Reason)
	assert.EqualValues(t, RejectThreshold, warning.Size)
}
