// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"rfc3339 millis", `"2025-03-01T10:00:00.000Z"`, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
		{"rfc3339 offset", `"2025-03-01T12:00:00+02:00"`, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
		{"no zone", `"2025-03-01T10:00:00"`, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
		{"date only", `"2025-03-01"`, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"unix millis", `1740823200000`, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
		{"empty string", `""`, time.Time{}},
		{"null", `null`, time.Time{}},
		{"garbage", `"yesterday"`, time.Time{}},
		{"object", `{"$date":"x"}`, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %v, want %v", ts.Time, tt.want)
		})
	}
}

func TestTimestamp_BadValueKeepsCollection(t *testing.T) {
	raw := `{"admins":[
		{"_id":"a1","name":"Ann","email":"a@x.com","createdAt":""},
		{"_id":"a2","name":"Bo","email":"b@x.com","createdAt":"not a date"},
		{"_id":"a3","name":"Cy","email":"c@x.com","createdAt":"2025-03-01T10:00:00Z"}
	]}`

	var body struct {
		Admins []Admin `json:"admins"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &body))
	require.Len(t, body.Admins, 3)
	assert.True(t, body.Admins[0].CreatedAt.IsZero())
	assert.True(t, body.Admins[1].CreatedAt.IsZero())
	assert.Equal(t, 2025, body.Admins[2].CreatedAt.Year())
}

func TestTimestamp_RoundTrip(t *testing.T) {
	in := Article{ID: "p1", CreatedAt: Timestamp{time.Date(2025, 3, 1, 10, 0, 0, 123, time.UTC)}}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"createdAt":"2025-03-01T10:00:00.000000123Z"`)

	var out Article
	require.NoError(t, json.Unmarshal(b, &out))
	assert.True(t, in.CreatedAt.Equal(out.CreatedAt.Time))

	b, err = json.Marshal(Article{ID: "p2"})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"createdAt":""`)
}
