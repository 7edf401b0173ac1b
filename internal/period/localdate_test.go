package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocalDate(t *testing.T) {
	jakarta, err := LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   string
		loc     *time.Location
		want    string
		wantErr bool
	}{
		{
			name:  "date only in Jakarta",
			input: "2024-03-01",
			loc:   jakarta,
			want:  "2024-02-29T17:00:00Z",
		},
		{
			name:  "wall clock with minutes",
			input: "2024-03-01T00:30",
			loc:   jakarta,
			want:  "2024-02-29T17:30:00Z",
		},
		{
			name:  "explicit offset ignores timezone",
			input: "2024-03-01T10:00:00+02:00",
			loc:   jakarta,
			want:  "2024-03-01T08:00:00Z",
		},
		{
			name:  "explicit offset without timezone",
			input: "2024-03-01T10:00:00Z",
			loc:   nil,
			want:  "2024-03-01T10:00:00Z",
		},
		{
			name:    "wall clock without timezone",
			input:   "2024-03-01",
			loc:     nil,
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "  ",
			loc:     jakarta,
			wantErr: true,
		},
		{
			name:    "garbage",
			input:   "first of march",
			loc:     jakarta,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLocalDate(tt.input, tt.loc)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Format(time.RFC3339))
		})
	}
}

func TestLocalDate(t *testing.T) {
	jakarta, err := LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	instant := time.Date(2024, 2, 29, 17, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-01", LocalDate(instant, jakarta))
	assert.Equal(t, "2024-02-29", LocalDate(instant, time.UTC))
}
