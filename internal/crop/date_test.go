package crop

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2024-01-01", want: NewDate(2024, time.January, 1)},
		{in: " 2024-04-01 ", want: NewDate(2024, time.April, 1)},
		{in: "2024-02-15T23:30:00-02:00", want: NewDate(2024, time.February, 16)},
		{in: "01/02/2024", wantErr: true},
		{in: "2024-13-01", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got.Time), "got %s", got)
		})
	}
}

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(NewDate(2024, time.March, 5))
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-05"`, string(b))

	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-03-05"`), &d))
	assert.Equal(t, "2024-03-05", d.String())

	require.NoError(t, json.Unmarshal([]byte(`""`), &d))
	assert.True(t, d.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`20240305`), &d))
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &d))
}

func TestDateOf(t *testing.T) {
	got := DateOf(time.Date(2024, 2, 15, 18, 45, 0, 0, time.UTC))
	assert.Equal(t, "2024-02-15", got.String())
	assert.Equal(t, "2024-02-16", got.AddDays(1).String())
}
