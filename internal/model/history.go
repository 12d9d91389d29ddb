package model

import "time"

// HistoryEntry is one timestamped wear or cleaning of a shoe.
type HistoryEntry struct {
	ID        string    `json:"id"`
	ShoeID    string    `json:"shoe_id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	CreatedAt time.Time `json:"created_at"`
}

// History entry types.
const (
	HistoryWorn    = "worn"
	HistoryCleaned = "cleaned"
)

// ValidHistoryType reports whether t is a known history entry type.
func ValidHistoryType(t string) bool {
	return t == HistoryWorn || t == HistoryCleaned
}
