package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/p24gate/internal/session"
)

func TestID(t *testing.T) {
	createdAt := time.Date(2016, 3, 2, 15, 43, 16, 0, time.UTC)

	assert.Equal(t, "12345-160302-154316", session.ID("12345", createdAt))
}

func TestTrackingID(t *testing.T) {
	tests := []struct {
		name      string
		sessionID string
		want      string
	}{
		{
			name:      "Generated",
			sessionID: "12345-160302-154316",
			want:      "12345",
		},
		{
			name:      "NoDash",
			sessionID: "12345",
			want:      "",
		},
		{
			name:      "Empty",
			sessionID: "",
			want:      "",
		},
		{
			// Tracking ids containing a dash are truncated at the
			// first one and do not round-trip.
			name:      "DashInTrackingID",
			sessionID: "123-45-160302-154316",
			want:      "123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, session.TrackingID(tt.sessionID))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	createdAt := time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)

	for _, trackingID := range []string{"1", "42", "999999", "7001"} {
		assert.Equal(t, trackingID, session.TrackingID(session.ID(trackingID, createdAt)))
	}
}
