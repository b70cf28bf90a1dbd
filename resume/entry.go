package resume

import (
	"fmt"
	"time"

	orderflow "github.com/wael7705/khawam-pro-sub000"
	"github.com/wael7705/khawam-pro-sub000/form"
	"github.com/wael7705/khawam-pro-sub000/id"
)

// Storage keys shared with every frontend of the same store.
const (
	EntryKeyPrefix     = "orderFormState_"
	DeliveryAddressKey = "deliveryAddress"
	ReopenFlagKey      = "shouldReopenOrderModal"
	ReopenServiceKey   = "reopenOrderServiceName"
)

// EntryKey returns the storage key of the entry for service.
func EntryKey(service string) string { return EntryKeyPrefix + service }

// Entry is one persisted wizard snapshot.
type Entry struct {
	ID          id.SnapshotID `json:"id" msgpack:"id"`
	ServiceName string        `json:"service_name" msgpack:"service_name"`
	Step        int           `json:"step" msgpack:"step"`
	Fields      form.Fields   `json:"fields" msgpack:"fields"`
	Timestamp   time.Time     `json:"timestamp" msgpack:"timestamp"`
}

// Check reports why e cannot be used for service at now. An entry is
// valid only when now-Timestamp is strictly less than ttl and it was
// written for service.
func (e *Entry) Check(service string, now time.Time, ttl time.Duration) error {
	if e.ServiceName != service {
		return fmt.Errorf("%w: entry for %q, opening %q", orderflow.ErrCacheMismatch, e.ServiceName, service)
	}
	if age := now.Sub(e.Timestamp); age >= ttl {
		return fmt.Errorf("%w: age %s", orderflow.ErrCacheExpired, age.Truncate(time.Millisecond))
	}
	return nil
}

// Expired reports whether e is at least ttl old at now.
func (e *Entry) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.Timestamp) >= ttl
}

// Signal is the two-part reopen signal left behind before a detour.
type Signal struct {
	Reopen  bool
	Service string
}

// Matches reports whether the signal asks to resume service.
func (s Signal) Matches(service string) bool {
	return s.Reopen && s.Service != "" && s.Service == service
}
