package model

import "time"

// OverrideEntry is a user-confirmed classification for an item code.
// Entries are created only on explicit consent, never as a side effect of
// an automatic run, and take precedence over rule scoring.
type OverrideEntry struct {
	LastUpdated time.Time
	Code        string // normalized item code
	Category    string
	UseCount    int
}
