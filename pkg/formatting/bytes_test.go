package formatting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techforall-fr/202510-ClashReporter/pkg/formatting"
)

func TestParseBytes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"bare bytes", "4096", 4096, false},
		{"bytes unit", "512B", 512, false},
		{"kilobytes", "256KB", 256 * 1024, false},
		{"megabytes", "10MB", 10 * 1024 * 1024, false},
		{"short unit", "2g", 2 * 1024 * 1024 * 1024, false},
		{"fractional", "1.5MB", 1536 * 1024, false},
		{"with space", "100 mb", 100 * 1024 * 1024, false},
		{"whitespace", "  8MB ", 8 * 1024 * 1024, false},
		{"empty", "", 0, true},
		{"unknown unit", "50XX", 0, true},
		{"no number", "MB", 0, true},
		{"negative", "-5MB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatting.ParseBytes(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "0 B", formatting.FormatBytes(0, 2))
	assert.Equal(t, "900 B", formatting.FormatBytes(900, 1))
	assert.Equal(t, "10 MB", formatting.FormatBytes(10*1024*1024, 0))
	assert.Equal(t, "1.5 MB", formatting.FormatBytes(1536*1024, 1))
	assert.Equal(t, "256 MB", formatting.FormatBytes(256<<20, -1))
}

func TestRoundTrip(t *testing.T) {
	for _, n := range []int64{1, 1024, 10 << 20, 3 << 30} {
		parsed, err := formatting.ParseBytes(formatting.FormatBytes(n, 0))
		require.NoError(t, err)
		assert.Equal(t, n, parsed)
	}
}
