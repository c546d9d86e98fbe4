package storage

import (
	"context"
	"time"
)

// Config configures the sqlite store.
type Config struct {
	Path        string
	BusyTimeout time.Duration // 0 means default
}

// Store is the persistence API used by the router and the mailing pipeline.
type Store interface {
	// ListUsers returns every known user id.
	ListUsers(ctx context.Context) ([]int64, error)
	// ListSubscribed returns only users with the mailing flag set.
	ListSubscribed(ctx context.Context) ([]int64, error)

	IsKnown(ctx context.Context, userID int64) (bool, error)
	AddUser(ctx context.Context, userID int64) error
	MailingStatus(ctx context.Context, userID int64) (bool, error)
	// ToggleMailing flips the user's mailing flag and returns the new value.
	ToggleMailing(ctx context.Context, userID int64) (bool, error)

	// RecordPostedDua appends a dua link to the never-repeat log.
	RecordPostedDua(ctx context.Context, link string) error
	// PostedDuas returns the full never-repeat log as a set.
	PostedDuas(ctx context.Context) (map[string]struct{}, error)

	Close() error
}
