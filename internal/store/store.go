// Package store is the keyed collection store. A collection is one key
// holding a JSON array that is read and replaced wholesale; there is no
// partial write or merge, and concurrent writers to the same key are
// last-writer-wins. Every successful write raises a change event for the
// key.
package store

import "context"

// Store is raw keyed persistence. Read returns nil for an absent key and
// must not fail the caller over malformed content; Write and Delete publish
// the key on the change bus after applying.
type Store interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

const (
	KeyUsers         = "allUsers"
	KeyProperties    = "allProperties"
	KeyAppointments  = "allAppointments"
	KeyOfficeMeets   = "officeMeets"
	KeyTrips         = "allTrips"
	KeyReviews       = "allReviews"
	KeyNotifications = "allNotifications"
	KeyCurrentUser   = "currentUser"
	KeyImageMap      = "propertyAutoImageMapV2"
)

// CollectionKeys lists the domain collection keys, in seed order.
var CollectionKeys = []string{
	KeyUsers,
	KeyProperties,
	KeyAppointments,
	KeyOfficeMeets,
	KeyTrips,
	KeyReviews,
	KeyNotifications,
}
