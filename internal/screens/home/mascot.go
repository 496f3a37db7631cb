package home

import (
	"charm.land/lipgloss/v2"

	"github.com/eduquest/eduquest/internal/progression"
	"github.com/eduquest/eduquest/internal/quests"
	"github.com/eduquest/eduquest/internal/ui/theme"
)

// MascotVariant selects which QuestBot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota
	MascotCelebrating               // every daily quest done
	MascotAlert                     // out of hearts
)

const mascotIdle = `╭─────╮
│ ◕ ◕ │
│  ◡  │
╰─┬─┬─╯
  ╰─╯`

const mascotCelebrating = `╭─────╮ ✦
│ ★ ★ │
│  ▽  │
╰─┬─┬─╯
 \╰─╯/`

const mascotAlert = `╭─────╮
│ ◔ ◔ │ !
│  ︵  │
╰─┬─┬─╯
  ╰─╯`

// mascotFor picks the variant that matches the learner's day.
func mascotFor(p *progression.Progression) MascotVariant {
	if p == nil {
		return MascotIdle
	}
	if p.Stats.Hearts <= 0 {
		return MascotAlert
	}
	if len(p.Quests) > 0 && quests.CompletionPercentage(p.Quests) == 100 {
		return MascotCelebrating
	}
	return MascotIdle
}

// RenderMascot returns the mascot art for the given variant.
func RenderMascot(v MascotVariant) string {
	art, fg := mascotIdle, theme.Primary
	switch v {
	case MascotCelebrating:
		art, fg = mascotCelebrating, theme.XP
	case MascotAlert:
		art, fg = mascotAlert, theme.Heart
	}
	return lipgloss.NewStyle().Foreground(fg).Render(art)
}
