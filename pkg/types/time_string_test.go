package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{"hours and minutes", "09:30", "09:30", false},
		{"seconds are dropped", "18:05:00", "18:05", false},
		{"single digit hour is normalized", "9:30", "09:30", false},
		{"out of range", "25:00", "", true},
		{"garbage", "noon", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeStringOn(t *testing.T) {
	day := time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)

	got, err := TimeString("08:45").On(day, time.Local)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.March, 14, 8, 45, 0, 0, time.Local), got)
}

func TestTimeStringScan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan([]byte("07:15:00")))
	assert.Equal(t, TimeString("07:15"), ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 10, 5, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("10:05"), ts)

	assert.Error(t, ts.Scan(42))
}
