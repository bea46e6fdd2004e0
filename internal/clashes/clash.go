// Package clashes implements the clash domain: the normalized Clash model,
// the three-feed joiner that reconstructs clashes from upstream resources,
// the synthetic generator used when the live source is unavailable, the
// cached repository, and the filter/sort/paginate query engine.
package clashes

import (
	"strings"
	"time"
)

// Severity is the criticality of a clash, derived from penetration distance.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Severities lists every severity in rank order.
var Severities = []Severity{SeverityHigh, SeverityMedium, SeverityLow}

// ParseSeverity maps a source value onto a Severity.
// Unrecognized values coerce to SeverityMedium.
func ParseSeverity(s string) Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeverityHigh:
		return SeverityHigh
	case SeverityLow:
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// Rank orders severities high (0) < medium (1) < low (2).
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	default:
		return 2
	}
}

// UnmarshalText applies ParseSeverity so decoded clashes always carry a valid value.
func (s *Severity) UnmarshalText(b []byte) error {
	*s = ParseSeverity(string(b))
	return nil
}

// Status is the coordination state of a clash.
type Status string

const (
	StatusOpen       Status = "open"
	StatusResolved   Status = "resolved"
	StatusSuppressed Status = "suppressed"
)

// Statuses lists every status in rank order.
var Statuses = []Status{StatusOpen, StatusResolved, StatusSuppressed}

// ParseStatus maps a source value onto a Status.
// Unrecognized values coerce to StatusOpen.
func ParseStatus(s string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusResolved:
		return StatusResolved
	case StatusSuppressed:
		return StatusSuppressed
	default:
		return StatusOpen
	}
}

// Rank orders statuses open (0) < resolved (1) < suppressed (2).
func (s Status) Rank() int {
	switch s {
	case StatusOpen:
		return 0
	case StatusResolved:
		return 1
	default:
		return 2
	}
}

// UnmarshalText applies ParseStatus so decoded clashes always carry a valid value.
func (s *Status) UnmarshalText(b []byte) error {
	*s = ParseStatus(string(b))
	return nil
}

// Element identifies one side of a collision.
type Element struct {
	URN      string `json:"urn"`
	GUID     string `json:"guid"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Location is the clash point in project units with an optional level label.
type Location struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Level string  `json:"level,omitempty"`
}

// Clash is a normalized geometric collision between two model elements.
// Clashes are built once during ingestion and never mutated afterwards.
type Clash struct {
	ID            string    `json:"id"`
	GroupID       string    `json:"group_id"`
	Title         string    `json:"title"`
	Status        Status    `json:"status"`
	Severity      Severity  `json:"severity"`
	DisciplineA   string    `json:"discipline_a"`
	DisciplineB   string    `json:"discipline_b"`
	ElementA      Element   `json:"element_a"`
	ElementB      Element   `json:"element_b"`
	Location      Location  `json:"location"`
	ScreenshotURL *string   `json:"screenshot_url"`
	ACCLink       *string   `json:"acc_link"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Page is a paginated slice of a filtered, sorted clash collection.
type Page struct {
	Clashes    []Clash `json:"clashes"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	TotalPages int     `json:"total_pages"`
}

// Origin records where the cached collection came from.
type Origin string

const (
	OriginLive     Origin = "live"
	OriginFallback Origin = "fallback"
	OriginMock     Origin = "mock"
)

// Info describes the cached collection.
type Info struct {
	Origin      Origin    `json:"origin"`
	Count       int       `json:"count"`
	RefreshedAt time.Time `json:"refreshed_at"`
}
