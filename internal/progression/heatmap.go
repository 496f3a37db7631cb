package progression

import (
	"context"
	"fmt"

	"github.com/eduquest/eduquest/internal/quests"
)

// HeatmapDay is one cell of the activity heatmap.
type HeatmapDay struct {
	Day       string `json:"day"`
	Count     int    `json:"count"`
	XP        int    `json:"xp"`
	Intensity int    `json:"intensity"` // 0-4
}

// Intensity buckets an activity count into five shades.
func Intensity(count int) int {
	switch {
	case count <= 0:
		return 0
	case count <= 1:
		return 1
	case count <= 3:
		return 2
	case count <= 5:
		return 3
	default:
		return 4
	}
}

// Heatmap returns one cell per calendar day for the last days days,
// oldest first and ending today.
func (s *Service) Heatmap(ctx context.Context, userID string, days int) ([]HeatmapDay, error) {
	if days <= 0 {
		return nil, fmt.Errorf("heatmap: days must be positive, got %d", days)
	}
	today := s.now()
	from := today.AddDate(0, 0, -(days - 1))

	counts, err := s.store.ActivityCounts(ctx, userID, quests.Day(from))
	if err != nil {
		return nil, err
	}
	byDay := make(map[string]int, len(counts))
	xpByDay := make(map[string]int, len(counts))
	for _, c := range counts {
		byDay[c.Day] = c.Count
		xpByDay[c.Day] = c.XP
	}

	out := make([]HeatmapDay, days)
	for i := range out {
		day := quests.Day(from.AddDate(0, 0, i))
		out[i] = HeatmapDay{Day: day, Count: byDay[day], XP: xpByDay[day], Intensity: Intensity(byDay[day])}
	}
	return out, nil
}
