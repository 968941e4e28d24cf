package refresh

import "time"

// DefaultTTL is how long a snapshot is served before a request triggers a refresh.
const DefaultTTL = 5 * time.Minute

// IsStale reports whether a refresh is due. A zero lastUpdated means no data
// has been loaded yet, which is always stale.
func IsStale(lastUpdated, now time.Time, ttl time.Duration) bool {
	if lastUpdated.IsZero() {
		return true
	}
	return now.Sub(lastUpdated) > ttl
}
