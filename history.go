package springforge

import (
	"time"

	"github.com/google/uuid"
)

// ActionType labels an entry in a request's history trail.
type ActionType string

const (
	ActionStarted    ActionType = "GENERATION_STARTED"
	ActionCompleted  ActionType = "GENERATION_COMPLETED"
	ActionFailed     ActionType = "GENERATION_FAILED"
	ActionCancelled  ActionType = "GENERATION_CANCELLED"
	ActionDownloaded ActionType = "PROJECT_DOWNLOADED"
)

// HistoryEntry is one recorded event in a generation request's lifetime.
type HistoryEntry struct {
	ID        uuid.UUID      `json:"id"`
	RequestID uuid.UUID      `json:"requestId"`
	Action    ActionType     `json:"action"`
	Detail    string         `json:"detail,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// NewHistoryEntry records an action against a request.
func NewHistoryEntry(requestID uuid.UUID, action ActionType, detail string) HistoryEntry {
	return HistoryEntry{
		ID:        uuid.New(),
		RequestID: requestID,
		Action:    action,
		Detail:    detail,
		CreatedAt: time.Now(),
	}
}

// WithMetadata attaches structured metadata to the entry and returns it.
func (e HistoryEntry) WithMetadata(meta map[string]any) HistoryEntry {
	e.Metadata = meta
	return e
}

// History is an append-only trail of entries for generation requests.
type History interface {
	// Append records an entry.
	Append(entry HistoryEntry)
	// ByRequest returns the entries for a request in insertion order.
	ByRequest(requestID uuid.UUID) []HistoryEntry
}
