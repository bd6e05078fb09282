package state

import "github.com/gjdunga/ModernItemBlocker/internal/domain/policy"

// Record is the persisted policy state: the timed-block duration plus the
// six named block lists. Field names are the on-disk contract with the
// config-persistence collaborator; a null list in the file is legal and
// loads as empty.
type Record struct {
	// DurationHours is how long the timed window stays active after an
	// epoch event. Negative values are clamped to zero on load.
	DurationHours int `json:"duration_hours"`

	// LastEpoch is the Unix timestamp of the last observed epoch event,
	// used to re-derive the window end at process start. Zero means no
	// epoch has been observed yet.
	LastEpoch int64 `json:"last_epoch,omitempty"`

	PermanentItems    []string `json:"permanent_items"`
	TimedItems        []string `json:"timed_items"`
	PermanentClothing []string `json:"permanent_clothing"`
	TimedClothing     []string `json:"timed_clothing"`
	PermanentAmmo     []string `json:"permanent_ammo"`
	TimedAmmo         []string `json:"timed_ammo"`
}

// DefaultRecord returns the first-boot policy state: a 24 hour timed
// window and all six lists empty.
func DefaultRecord() *Record {
	return &Record{DurationHours: 24}
}

// Snapshot converts the record's lists into the store's exchange form.
func (r *Record) Snapshot() policy.Snapshot {
	return policy.Snapshot{
		PermanentItems:    r.PermanentItems,
		TimedItems:        r.TimedItems,
		PermanentClothing: r.PermanentClothing,
		TimedClothing:     r.TimedClothing,
		PermanentAmmo:     r.PermanentAmmo,
		TimedAmmo:         r.TimedAmmo,
	}
}

// SetSnapshot replaces the record's lists from the store's exchange form.
func (r *Record) SetSnapshot(snap policy.Snapshot) {
	r.PermanentItems = snap.PermanentItems
	r.TimedItems = snap.TimedItems
	r.PermanentClothing = snap.PermanentClothing
	r.TimedClothing = snap.TimedClothing
	r.PermanentAmmo = snap.PermanentAmmo
	r.TimedAmmo = snap.TimedAmmo
}
