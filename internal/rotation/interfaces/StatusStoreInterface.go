package interfaces

import "aprd/internal/models"

// StatusStoreInterface is write-only from the daemon's point of view; the
// display server and status indicator read the files directly.
type StatusStoreInterface interface {
	Publish(status models.PublishedStatus) error
	AppendHistory(entry models.RotationHistoryEntry) error
}
