package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "calendar date", input: `"2026-03-14"`, want: "2026-03-14"},
		{name: "rfc3339", input: `"2026-03-14T17:30:00Z"`, want: "2026-03-14"},
		{name: "null", input: `null`, want: ""},
		{name: "empty", input: `""`, want: ""},
		{name: "garbage", input: `"14/03/2026"`, wantErr: true},
		{name: "number", input: `20260314`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func TestDate_MarshalAndScan(t *testing.T) {
	d := NewDate(time.Date(2026, 1, 2, 23, 59, 0, 0, time.UTC))

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-01-02"`, string(out))

	var scanned Date
	require.NoError(t, scanned.Scan(d.Time))
	assert.True(t, scanned.Equal(d.Time))

	v, err := Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
