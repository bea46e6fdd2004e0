package clashes

import (
	"fmt"
	"time"
)

// SeverityThresholds are the distance cut-offs, in model units, used to
// classify penetration depth. Distances below High are high severity,
// below Medium are medium, everything else is low.
type SeverityThresholds struct {
	High   float64 `toml:"high"`
	Medium float64 `toml:"medium"`
}

// DefaultThresholds returns the 1 cm / 5 cm classification.
func DefaultThresholds() SeverityThresholds {
	return SeverityThresholds{High: 0.01, Medium: 0.05}
}

// Classify maps a distance onto a Severity.
func (t SeverityThresholds) Classify(distance float64) Severity {
	switch {
	case distance < t.High:
		return SeverityHigh
	case distance < t.Medium:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// SkipReason explains why a clash record did not produce a Clash.
type SkipReason string

const (
	SkipMissingID             SkipReason = "missing_id"
	SkipInsufficientInstances SkipReason = "insufficient_instances"
	SkipDuplicateID           SkipReason = "duplicate_id"
	SkipMalformedRecord       SkipReason = "malformed_record"
)

// Skip records one clash record dropped during a join.
type Skip struct {
	ClashID string     `json:"clash_id,omitempty"`
	Reason  SkipReason `json:"reason"`
}

// JoinResult holds the clashes reconstructed from one batch and the
// records that were skipped along the way.
type JoinResult struct {
	Clashes []Clash `json:"clashes"`
	Skipped []Skip  `json:"skipped,omitempty"`
}

// SkipCounts tallies skipped records by reason.
func (r JoinResult) SkipCounts() map[SkipReason]int {
	counts := make(map[SkipReason]int)
	for _, s := range r.Skipped {
		counts[s.Reason]++
	}
	return counts
}

// DefaultGroupID is assigned when a clash record carries no group.
const DefaultGroupID = "default"

// Joiner reconstructs clashes from the clash, instance and document feeds
// of one clash test. A clash record without a usable distance is treated as
// distance 0 and therefore classified as high severity.
type Joiner struct {
	Thresholds SeverityThresholds
	// ProjectID, when set, is used to build the coordination deep link.
	ProjectID string
	// Now supplies the ingestion time used for missing timestamps.
	Now func() time.Time
}

// NewJoiner creates a Joiner with the default thresholds.
func NewJoiner(projectID string) *Joiner {
	return &Joiner{
		Thresholds: DefaultThresholds(),
		ProjectID:  projectID,
		Now:        time.Now,
	}
}

// Join builds one Clash per clash record that has an id and at least two
// instances. Output preserves clash-feed order. Record-shape problems never
// fail the join; they are reported in JoinResult.Skipped.
func (j *Joiner) Join(clashFeed ClashFeed, instanceFeed InstanceFeed, documentFeed DocumentFeed) JoinResult {
	documents := make(map[string]DocumentRecord, len(documentFeed.Documents))
	for _, doc := range documentFeed.Documents {
		if doc.ID == "" {
			continue
		}
		documents[doc.ID.String()] = doc
	}

	instances := make(map[string][]InstanceRecord)
	for _, inst := range instanceFeed.Instances {
		if inst.ClashID == "" {
			continue
		}
		cid := inst.ClashID.String()
		instances[cid] = append(instances[cid], inst)
	}

	now := time.Now
	if j.Now != nil {
		now = j.Now
	}
	ingested := now().UTC()

	result := JoinResult{
		Clashes: make([]Clash, 0, len(clashFeed.Clashes)),
	}
	for range clashFeed.Malformed {
		result.Skipped = append(result.Skipped, Skip{Reason: SkipMalformedRecord})
	}

	seen := make(map[string]struct{}, len(clashFeed.Clashes))
	for _, rec := range clashFeed.Clashes {
		if _, dup := seen[rec.ID.String()]; dup && rec.ID != "" {
			result.Skipped = append(result.Skipped, Skip{ClashID: rec.ID.String(), Reason: SkipDuplicateID})
			continue
		}

		clash, reason, ok := j.joinOne(rec, instances, documents, ingested)
		if !ok {
			result.Skipped = append(result.Skipped, Skip{ClashID: rec.ID.String(), Reason: reason})
			continue
		}

		seen[clash.ID] = struct{}{}
		result.Clashes = append(result.Clashes, clash)
	}

	return result
}

func (j *Joiner) joinOne(
	rec ClashRecord,
	instances map[string][]InstanceRecord,
	documents map[string]DocumentRecord,
	ingested time.Time,
) (Clash, SkipReason, bool) {
	id := rec.ID.String()
	if id == "" {
		return Clash{}, SkipMissingID, false
	}

	related := instances[id]
	if len(related) < 2 {
		return Clash{}, SkipInsufficientInstances, false
	}
	left, right := related[0], related[1]

	leftDoc := documents[left.LeftDocumentID.String()]
	rightDoc := documents[right.RightDocumentID.String()]

	groupID := rec.GroupID.String()
	if groupID == "" {
		groupID = DefaultGroupID
	}

	clash := Clash{
		ID:          id,
		GroupID:     groupID,
		Title:       fmt.Sprintf("Clash %s", id),
		Status:      StatusOpen,
		Severity:    j.thresholds().Classify(rec.Distance.Value),
		DisciplineA: leftDoc.Discipline.String(),
		DisciplineB: rightDoc.Discipline.String(),
		ElementA: Element{
			URN:      leftDoc.URN.String(),
			GUID:     left.LeftObjectID.String(),
			Name:     elementName(left.Name, left.LeftViewableID),
			Category: left.Category.String(),
		},
		ElementB: Element{
			URN:      rightDoc.URN.String(),
			GUID:     right.RightObjectID.String(),
			Name:     elementName(right.Name, right.RightViewableID),
			Category: right.Category.String(),
		},
		Location:  location(rec.Location),
		CreatedAt: timestampOr(rec.CreatedAt, ingested),
		UpdatedAt: timestampOr(rec.UpdatedAt, ingested),
	}

	if j.ProjectID != "" {
		link := ACCLink(j.ProjectID, id)
		clash.ACCLink = &link
	}

	return clash, "", true
}

func (j *Joiner) thresholds() SeverityThresholds {
	if j.Thresholds == (SeverityThresholds{}) {
		return DefaultThresholds()
	}
	return j.Thresholds
}

// ACCLink builds the coordination deep link for a clash.
func ACCLink(projectID, clashID string) string {
	return fmt.Sprintf("https://acc.autodesk.com/projects/%s/clashes/%s", projectID, clashID)
}

func elementName(name, viewableID Text) string {
	if name != "" {
		return name.String()
	}
	return fmt.Sprintf("Object %s", viewableID)
}

func location(rec *LocationRecord) Location {
	if rec == nil {
		return Location{}
	}
	return Location{
		X:     rec.X.Value,
		Y:     rec.Y.Value,
		Z:     rec.Z.Value,
		Level: rec.Level.String(),
	}
}

func timestampOr(raw Text, fallback time.Time) time.Time {
	if t, ok := parseTimestamp(raw.String()); ok {
		return t
	}
	return fallback
}
