package appstate

import (
	"time"

	"github.com/google/uuid"
)

// Clock supplies wall-clock time for record dates and analytics samples.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real time.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

// IDGenerator produces record ids such as "ord-<suffix>".
// Implemented by UUIDv7Generator (production) and testutil generators (tests).
type IDGenerator interface {
	NewID(prefix string) string
}

// UUIDv7Generator generates time-sortable ids from UUIDv7.
//
// UUIDv7 embeds a timestamp in the most significant bits, so ids sort by
// creation time, which keeps order listings stable.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// NewID returns prefix + "-" + a hyphenated UUIDv7.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) NewID(prefix string) string {
	return prefix + "-" + uuid.Must(uuid.NewV7()).String()
}
