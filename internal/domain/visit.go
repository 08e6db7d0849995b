package domain

import (
	"context"
	"time"
)

// ProfileVisit is an append-only analytics row. Anonymous visitors have a
// nil VisitorID; owner self-visits are never recorded.
type ProfileVisit struct {
	ID        int64     `json:"id"`
	ProfileID int64     `json:"profile_id"`
	VisitorID *string   `json:"visitor_id,omitempty"`
	VisitorIP string    `json:"-"`
	VisitedAt time.Time `json:"visited_at"`
	// Joined display info, present when the visitor still exists
	VisitorFirstName string `json:"visitor_first_name,omitempty"`
	VisitorLastName  string `json:"visitor_last_name,omitempty"`
}

type VisitRepository interface {
	Create(ctx context.Context, visit *ProfileVisit) error
	ListByProfile(ctx context.Context, profileID int64, limit int) ([]ProfileVisit, error)
}
