package scoring

// Milestone is a streak length that raises the XP multiplier.
type Milestone struct {
	Days  int
	Title string
	Badge string

	// tenths is the multiplier in tenths so that awards stay in integer
	// arithmetic.
	tenths int
}

// Multiplier returns the XP multiplier the milestone grants.
func (m Milestone) Multiplier() float64 {
	return float64(m.tenths) / 10
}

// milestones is sorted by ascending Days.
var milestones = []Milestone{
	{Days: 7, Title: "Week Warrior", Badge: "🔥", tenths: 12},
	{Days: 14, Title: "2-Week Champion", Badge: "🔥🔥", tenths: 13},
	{Days: 30, Title: "Monthly Master", Badge: "⚡", tenths: 15},
	{Days: 60, Title: "2-Month Legend", Badge: "⚡⚡", tenths: 17},
	{Days: 100, Title: "Century Scholar", Badge: "👑", tenths: 20},
}

// Milestones returns the milestone table in ascending order.
func Milestones() []Milestone {
	return append([]Milestone(nil), milestones...)
}

// multiplierTenths walks the table and stops at the first threshold above
// streak.
func multiplierTenths(streak int) int {
	tenths := 10
	for _, m := range milestones {
		if m.Days > streak {
			break
		}
		tenths = m.tenths
	}
	return tenths
}

// Multiplier returns the XP multiplier for a streak length: that of the
// highest milestone reached, or 1.0 below the first.
func Multiplier(streak int) float64 {
	return float64(multiplierTenths(streak)) / 10
}

// CurrentMilestone returns the highest milestone reached by streak.
func CurrentMilestone(streak int) (Milestone, bool) {
	var (
		cur   Milestone
		found bool
	)
	for _, m := range milestones {
		if m.Days > streak {
			break
		}
		cur, found = m, true
	}
	return cur, found
}

// NextMilestone returns the first milestone above streak.
func NextMilestone(streak int) (Milestone, bool) {
	for _, m := range milestones {
		if m.Days > streak {
			return m, true
		}
	}
	return Milestone{}, false
}
