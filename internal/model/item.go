package model

import "time"

// Item is a lost or found report.
type Item struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Color       string    `json:"color,omitempty"`
	Location    string    `json:"location"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	Reporter    Reporter  `json:"reporter"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Reporter identifies who filed an item report.
type Reporter struct {
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
}

// Kind tells lost reports apart from found reports. It never changes after creation.
type Kind string

// Item kinds.
const (
	KindLost  Kind = "lost"
	KindFound Kind = "found"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindLost || k == KindFound
}

// Opposite returns the kind a report is matched against.
func (k Kind) Opposite() Kind {
	if k == KindLost {
		return KindFound
	}
	return KindLost
}

// Status is the lifecycle state of an item.
type Status string

// Item statuses.
const (
	ItemStatusActive   Status = "active"
	ItemStatusClaimed  Status = "claimed"
	ItemStatusResolved Status = "resolved"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case ItemStatusActive, ItemStatusClaimed, ItemStatusResolved:
		return true
	}
	return false
}

// itemTransitions lists the allowed status moves.
var itemTransitions = map[Status][]Status{
	ItemStatusActive:  {ItemStatusClaimed, ItemStatusResolved},
	ItemStatusClaimed: {ItemStatusResolved},
}

// CanTransition reports whether an item may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, s := range itemTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
