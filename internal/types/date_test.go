package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-10-18")
	require.NoError(t, err)
	assert.True(t, d.DateOnly)
	assert.Equal(t, "2026-10-18", d.Format(DateLayout))

	d, err = ParseDate("2026-10-18T09:30:00+02:00")
	require.NoError(t, err)
	assert.False(t, d.DateOnly)
	assert.Equal(t, time.Date(2026, 10, 18, 7, 30, 0, 0, time.UTC), d.UTC())

	for _, bad := range []string{"mañana", "18/10/2026", "2026-13-01", ""} {
		_, err := ParseDate(bad)
		var dateErr *InvalidDateError
		assert.ErrorAs(t, err, &dateErr, bad)
	}
}

func TestDateIn(t *testing.T) {
	madrid := time.FixedZone("CEST", 2*60*60)

	bare := On(2026, time.October, 18)
	assert.Equal(t, time.Date(2026, 10, 17, 22, 0, 0, 0, time.UTC), bare.In(madrid).UTC())

	stamp := At(time.Date(2026, 10, 18, 7, 30, 0, 0, time.UTC))
	assert.Equal(t, stamp.Time, stamp.In(madrid))
}

func TestDateJSON(t *testing.T) {
	var req struct {
		Expiry   *Date `json:"expiry_date"`
		Purchase *Date `json:"purchase_date"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"expiry_date":"2026-10-18","purchase_date":null}`), &req))
	require.NotNil(t, req.Expiry)
	assert.True(t, req.Expiry.DateOnly)
	assert.Nil(t, req.Purchase)

	out, err := json.Marshal(req.Expiry)
	require.NoError(t, err)
	assert.JSONEq(t, `"2026-10-18"`, string(out))

	err = json.Unmarshal([]byte(`{"expiry_date":"mañana"}`), &req)
	var dateErr *InvalidDateError
	assert.ErrorAs(t, err, &dateErr)

	err = json.Unmarshal([]byte(`{"expiry_date":20261018}`), &req)
	assert.ErrorAs(t, err, &dateErr)
}
