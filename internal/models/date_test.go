package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", d.String())

	for _, bad := range []string{"", "01/02/2024", "2024-13-01", "2024-01-01T00:00:00Z"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestDateJSON(t *testing.T) {
	d, err := ParseDate("2024-03-15")
	require.NoError(t, err)

	body, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-15"`, string(body))

	var back Date
	require.NoError(t, json.Unmarshal(body, &back))
	assert.Equal(t, "2024-03-15", back.String())

	assert.Error(t, json.Unmarshal([]byte(`"15/03/2024"`), &back))
}

// Drivers hand DATE columns back as time.Time; String must still render the
// plain day even when the scanned value carries a timestamp.
func TestDateNormalizesScannedTime(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-01-01", d.String())
}
