// Package problems implements the coordination problem domain: issues raised
// against one or more clashes, with their workflow status, priority and
// clash references.
package problems

import (
	"slices"
	"strings"
	"time"
)

// Status is the workflow state of a problem.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

// Statuses lists every problem status.
var Statuses = []Status{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}

// ParseStatus normalizes s. Unknown values coerce to open.
func ParseStatus(s string) Status {
	switch v := Status(strings.ToLower(strings.TrimSpace(s))); v {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return v
	default:
		return StatusOpen
	}
}

func (s *Status) UnmarshalText(b []byte) error {
	*s = ParseStatus(string(b))
	return nil
}

// Priority is the urgency of a problem.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists every priority, most urgent first.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// ParsePriority normalizes s. Unknown values coerce to medium.
func ParsePriority(s string) Priority {
	switch v := Priority(strings.ToLower(strings.TrimSpace(s))); v {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return v
	default:
		return PriorityMedium
	}
}

func (p *Priority) UnmarshalText(b []byte) error {
	*p = ParsePriority(string(b))
	return nil
}

// Rank orders priorities with high first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

// ReferenceClash is the reference type linking a problem to a clash.
const ReferenceClash = "clash"

// Reference is an item a problem points at.
type Reference struct {
	Type  string  `json:"type"`
	ID    string  `json:"id"`
	Title *string `json:"title,omitempty"`
	URN   *string `json:"urn,omitempty"`
}

// Problem is a coordination issue raised against clashes.
type Problem struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description *string     `json:"description"`
	Status      Status      `json:"status"`
	Priority    Priority    `json:"priority"`
	AssignedTo  *string     `json:"assigned_to"`
	DueDate     *time.Time  `json:"due_date"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	References  []Reference `json:"references"`
	ClashIDs    []string    `json:"clash_ids"`
}

// LinkedTo reports whether the problem references clashID.
func (p Problem) LinkedTo(clashID string) bool {
	return slices.Contains(p.ClashIDs, clashID)
}

func (p Problem) clone() Problem {
	p.References = append([]Reference{}, p.References...)
	p.ClashIDs = append([]string{}, p.ClashIDs...)
	return p
}

// CreateCommand carries the data needed to raise a new problem against a clash.
type CreateCommand struct {
	Title       string     `json:"title" validate:"required,max=256"`
	Description *string    `json:"description,omitempty"`
	Status      Status     `json:"status,omitempty"`
	Priority    Priority   `json:"priority,omitempty"`
	AssignedTo  *string    `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ClashID     string     `json:"clash_id" validate:"required"`
}

// LinkCommand names the clash to attach to a problem.
type LinkCommand struct {
	ClashID string `json:"clash_id" validate:"required"`
}
