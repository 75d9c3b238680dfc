package domain

import "context"

// NotificationService defines the interface for notification services
type NotificationService interface {
	// SendSuccess sends a success notification with statistics
	SendSuccess(ctx context.Context, stats Statistics) error

	// SendError sends an error notification with error details
	SendError(ctx context.Context, err error) error
}

// Statistics holds the outcome of a cache refresh run
type Statistics struct {
	TotalCached      int
	Refreshed        int
	CacheOnly        int
	Failed           int
	RefreshedPercent float64
}
