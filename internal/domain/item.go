package domain

import (
	"strings"
	"time"
)

// MediaType is the kind of catalog entry.
type MediaType string

const (
	MediaTypeGame  MediaType = "game"
	MediaTypeMovie MediaType = "movie"
)

// Status is the lifecycle state of an item. Soft deletion is tracked
// separately so that a deleted item keeps its last status.
type Status string

const (
	StatusActive   Status = "active"
	StatusDone     Status = "done"
	StatusArchived Status = "archived"
)

// Item is a single game or movie in the catalog.
type Item struct {
	ID        string    `json:"id"`
	Type      MediaType `json:"type"`
	Title     string    `json:"title"`
	Platform  string    `json:"platform,omitempty"`
	CoverURL  string    `json:"coverUrl,omitempty"`
	Tags      []string  `json:"tags"`
	Status    Status    `json:"status"`
	AddedAt   int64     `json:"addedAt"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Deleted marks a soft-deleted item. Deleted items are invisible to
	// every read path; only the purge job and hard delete touch them.
	Deleted bool `json:"-"`

	// Seq is the insertion sequence number, used to keep newest-first
	// ordering stable when two items share the same AddedAt second.
	Seq uint64 `json:"-"`
}

// Clone returns a deep copy so readers never share tag slices with the index.
func (it *Item) Clone() *Item {
	cp := *it
	if it.Tags != nil {
		cp.Tags = make([]string, len(it.Tags))
		copy(cp.Tags, it.Tags)
	}
	return &cp
}

// HasAllTags reports whether the item carries every tag in want.
// Tags are stored lowercase, callers must lowercase their input.
func (it *Item) HasAllTags(want []string) bool {
	if len(want) == 0 {
		return true
	}
	have := make(map[string]struct{}, len(it.Tags))
	for _, t := range it.Tags {
		have[t] = struct{}{}
	}
	for _, t := range want {
		if _, ok := have[t]; !ok {
			return false
		}
	}
	return true
}

// ParseMediaType validates a raw media type string.
func ParseMediaType(raw string) (MediaType, error) {
	switch MediaType(strings.TrimSpace(raw)) {
	case MediaTypeGame:
		return MediaTypeGame, nil
	case MediaTypeMovie:
		return MediaTypeMovie, nil
	default:
		return "", &ValidationError{Field: "type", Reason: "must be one of: game, movie"}
	}
}

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, error) {
	switch Status(strings.TrimSpace(raw)) {
	case StatusActive:
		return StatusActive, nil
	case StatusDone:
		return StatusDone, nil
	case StatusArchived:
		return StatusArchived, nil
	default:
		return "", &ValidationError{Field: "status", Reason: "must be one of: active, done, archived"}
	}
}
