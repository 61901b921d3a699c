package power

// Announcer optionally surfaces detector and battery state to an attached
// bench UI. It is a no-op collaborator on platforms or builds without a
// signal bus; see announcer_linux.go for the live implementation.
type Announcer interface {
	// AnnounceDetection reports whether a window was classified as a
	// gunshot and how many gunshot-state frames it contained.
	AnnounceDetection(detected bool, count int) error

	// AnnounceBattery reports the current battery band string.
	AnnounceBattery(band string) error

	// Close releases any held resources.
	Close() error
}
