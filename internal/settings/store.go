// Package settings holds the live engine settings. The engine reads them on
// every message, and the admin API may change them while the engine is running.
package settings

import "sync"

// Settings are the tunables that gate transition and reconciliation behavior.
type Settings struct {
	// AccuracyThreshold is the max accepted position accuracy in meters.
	AccuracyThreshold int `json:"accuracyThreshold"`
	// DoubleEnter suppresses repeated enter events for the fence the user is already in.
	DoubleEnter bool `json:"doubleEnter"`
	// DoubleLeave suppresses leave events when the user is not in any fence.
	DoubleLeave bool `json:"doubleLeave"`
	// UseInregions enables reconciliation from region-membership snapshots.
	UseInregions bool `json:"useInregions"`
}

// Store is a concurrency-safe holder for the current Settings.
type Store struct {
	mu sync.RWMutex
	s  Settings
}

// NewStore returns a Store seeded with the given settings.
func NewStore(s Settings) *Store {
	return &Store{s: s}
}

// Current returns a copy of the current settings.
func (st *Store) Current() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s
}

// Update replaces the current settings. Returns the previous value.
func (st *Store) Update(s Settings) Settings {
	st.mu.Lock()
	defer st.mu.Unlock()
	prev := st.s
	st.s = s
	return prev
}
