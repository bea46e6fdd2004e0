package clashes

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Text is a tolerant scalar that decodes JSON strings, numbers and booleans
// into their textual form. Null, objects and arrays decode to the empty string.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		*t = ""
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			*t = ""
			return nil
		}
		*t = Text(s)
	case 't', 'f':
		*t = Text(b)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		*t = Text(b)
	default:
		*t = ""
	}
	return nil
}

func (t Text) String() string {
	return string(t)
}

// Number is a tolerant numeric scalar that accepts JSON numbers and numeric
// strings. Anything else, including NaN and infinities, decodes to zero with
// Valid unset.
type Number struct {
	Value float64
	Valid bool
}

func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] == 'n' {
		return nil
	}

	var s string
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
	} else {
		s = string(b)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	*n = Number{Value: v, Valid: true}
	return nil
}

// ClashRecord is one entry of the clash feed.
type ClashRecord struct {
	ID        Text            `json:"id"`
	GroupID   Text            `json:"groupId"`
	Distance  Number          `json:"distance"`
	Location  *LocationRecord `json:"location"`
	CreatedAt Text            `json:"createdAt"`
	UpdatedAt Text            `json:"updatedAt"`
}

// LocationRecord is the clash point as reported upstream.
type LocationRecord struct {
	X     Number `json:"x"`
	Y     Number `json:"y"`
	Z     Number `json:"z"`
	Level Text   `json:"level"`
}

// InstanceRecord is one entry of the clash-instance feed. The left side
// (ldid, loid, lvid) becomes element A and the right side element B.
type InstanceRecord struct {
	ClashID         Text `json:"cid"`
	LeftDocumentID  Text `json:"ldid"`
	LeftObjectID    Text `json:"loid"`
	LeftViewableID  Text `json:"lvid"`
	RightDocumentID Text `json:"rdid"`
	RightObjectID   Text `json:"roid"`
	RightViewableID Text `json:"rvid"`
	Name            Text `json:"name"`
	Category        Text `json:"category"`
}

// DocumentRecord is one entry of the document feed.
type DocumentRecord struct {
	ID         Text `json:"id"`
	URN        Text `json:"urn"`
	Discipline Text `json:"discipline"`
}

// ClashFeed is the decoded clash resource. Entries that are not JSON
// objects are dropped and counted in Malformed.
type ClashFeed struct {
	Clashes   []ClashRecord `json:"clashes"`
	Malformed int           `json:"-"`
}

func (f *ClashFeed) UnmarshalJSON(b []byte) error {
	var raw struct {
		Clashes []json.RawMessage `json:"clashes"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	f.Clashes, f.Malformed = decodeRecords[ClashRecord](raw.Clashes)
	return nil
}

// InstanceFeed is the decoded clash-instance resource.
type InstanceFeed struct {
	Instances []InstanceRecord `json:"instances"`
	Malformed int              `json:"-"`
}

func (f *InstanceFeed) UnmarshalJSON(b []byte) error {
	var raw struct {
		Instances []json.RawMessage `json:"instances"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	f.Instances, f.Malformed = decodeRecords[InstanceRecord](raw.Instances)
	return nil
}

// DocumentFeed is the decoded document resource.
type DocumentFeed struct {
	Documents []DocumentRecord `json:"documents"`
	Malformed int              `json:"-"`
}

func (f *DocumentFeed) UnmarshalJSON(b []byte) error {
	var raw struct {
		Documents []json.RawMessage `json:"documents"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	f.Documents, f.Malformed = decodeRecords[DocumentRecord](raw.Documents)
	return nil
}

func decodeRecords[T any](raw []json.RawMessage) ([]T, int) {
	records := make([]T, 0, len(raw))
	malformed := 0
	for _, msg := range raw {
		trimmed := bytes.TrimSpace(msg)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			malformed++
			continue
		}
		var rec T
		if err := json.Unmarshal(trimmed, &rec); err != nil {
			malformed++
			continue
		}
		records = append(records, rec)
	}
	return records, malformed
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimestamp reads an upstream timestamp. Values without a zone are UTC.
func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
