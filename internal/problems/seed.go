package problems

import (
	"fmt"
	"time"
)

// Seed returns the demonstration problems the store starts with.
func Seed(now time.Time) []Problem {
	desc1 := "Check the HVAC duct route and adjust the beam opening."
	desc2 := "Coordination needed before the level 3 slab pour."

	return []Problem{
		{
			ID:          "problem-0001",
			Title:       "HVAC duct / beam collision",
			Description: &desc1,
			Status:      StatusOpen,
			Priority:    PriorityHigh,
			CreatedAt:   now.Add(-5 * 24 * time.Hour),
			UpdatedAt:   now.Add(-1 * 24 * time.Hour),
			References:  []Reference{clashReference("clash_00001", 1)},
			ClashIDs:    []string{"clash_00001"},
		},
		{
			ID:          "problem-0002",
			Title:       "MEP / Structure clash on level 3",
			Description: &desc2,
			Status:      StatusInProgress,
			Priority:    PriorityMedium,
			CreatedAt:   now.Add(-10 * 24 * time.Hour),
			UpdatedAt:   now.Add(-2 * 24 * time.Hour),
			References:  []Reference{clashReference("clash_00015", 15)},
			ClashIDs:    []string{"clash_00015"},
		},
	}
}

func clashReference(clashID string, n int) Reference {
	title := fmt.Sprintf("Clash #%d", n)
	return Reference{Type: ReferenceClash, ID: clashID, Title: &title}
}
