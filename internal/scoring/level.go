package scoring

// XPPerLevel is the constant width of every level.
const XPPerLevel = 100

// LevelInfo is derived from total XP and never stored.
type LevelInfo struct {
	Level               int
	XPInLevel           int
	Progress            int // percent of the current level, 0-99
	XPForNextLevel      int
	TotalXPForNextLevel int
}

// Level computes the level info for xp. Negative xp counts as zero.
func Level(xp int) LevelInfo {
	if xp < 0 {
		xp = 0
	}
	level := xp/XPPerLevel + 1
	inLevel := xp - (level-1)*XPPerLevel
	return LevelInfo{
		Level:               level,
		XPInLevel:           inLevel,
		Progress:            inLevel * 100 / XPPerLevel,
		XPForNextLevel:      XPPerLevel,
		TotalXPForNextLevel: level * XPPerLevel,
	}
}
