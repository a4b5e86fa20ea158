// Package session builds and parses the composite identifiers Przelewy24
// requires to be unique per transaction attempt.
package session

import (
	"fmt"
	"strings"
	"time"
)

// ID derives the gateway session identifier from a tracking id and the
// creation time of the transaction it belongs to.
func ID(trackingID string, createdAt time.Time) string {
	return fmt.Sprintf("%s-%s", trackingID, createdAt.Format("060102-150405"))
}

// TrackingID recovers the tracking id from a session identifier. It takes
// everything before the first dash, so tracking ids containing a dash do not
// round-trip.
func TrackingID(sessionID string) string {
	id, _, found := strings.Cut(sessionID, "-")
	if !found {
		return ""
	}

	return id
}
