package clashes

// ModelURNs lists the distinct non-empty element URNs across clashes in
// first-seen order.
type ModelURNs struct {
	URNs  []string `json:"urns"`
	Count int      `json:"count"`
}

// ViewerElement is the subset of an Element the viewer needs to isolate it.
type ViewerElement struct {
	URN  string `json:"urn"`
	GUID string `json:"guid"`
	Name string `json:"name"`
}

// ViewerPoint is a clash location without its level label.
type ViewerPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ViewerClash is the payload used to focus a clash in the model viewer.
type ViewerClash struct {
	ClashID  string        `json:"clash_id"`
	ElementA ViewerElement `json:"element_a"`
	ElementB ViewerElement `json:"element_b"`
	Location ViewerPoint   `json:"location"`
}

// CollectModelURNs gathers the models referenced by clashes.
func CollectModelURNs(clashes []Clash) ModelURNs {
	seen := make(map[string]struct{})
	urns := make([]string, 0)
	for _, c := range clashes {
		for _, urn := range []string{c.ElementA.URN, c.ElementB.URN} {
			if urn == "" {
				continue
			}
			if _, ok := seen[urn]; ok {
				continue
			}
			seen[urn] = struct{}{}
			urns = append(urns, urn)
		}
	}
	return ModelURNs{URNs: urns, Count: len(urns)}
}

// NewViewerClash projects a clash onto its viewer payload.
func NewViewerClash(c Clash) ViewerClash {
	return ViewerClash{
		ClashID:  c.ID,
		ElementA: ViewerElement{URN: c.ElementA.URN, GUID: c.ElementA.GUID, Name: c.ElementA.Name},
		ElementB: ViewerElement{URN: c.ElementB.URN, GUID: c.ElementB.GUID, Name: c.ElementB.Name},
		Location: ViewerPoint{X: c.Location.X, Y: c.Location.Y, Z: c.Location.Z},
	}
}
