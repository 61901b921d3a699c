//go:build !linux

package power

import "fmt"

// NewAnnouncer reports that bench-UI signalling is unavailable on this
// platform, matching media.NewSession's fallback stub.
func NewAnnouncer() (Announcer, error) {
	return nil, fmt.Errorf("bench UI announcer not supported on this platform")
}
