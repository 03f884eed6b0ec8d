package types

import (
	"time"

	"github.com/google/uuid"
)

// DoseID represents a UUIDv7 dose-evaluation identifier.
// String alias enables type safety while maintaining JSON string serialization.
type DoseID string

// NewDoseID generates a UUIDv7 dose identifier.
// Time-ordered IDs keep scan order recoverable without a separate counter.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewDoseID() DoseID {
	return DoseID(uuid.Must(uuid.NewV7()).String())
}

// ParseDoseID validates and converts a string to DoseID.
func ParseDoseID(s string) (DoseID, error) {
	_, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return DoseID(s), nil
}

// DoseIDTime extracts the timestamp embedded in a UUIDv7 ID.
// Returns zero time for invalid UUIDs; caller should check IsZero().
func DoseIDTime(id DoseID) time.Time {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return time.Time{}
	}
	sec, nsec := u.Time().UnixTime()
	return time.Unix(sec, nsec)
}
