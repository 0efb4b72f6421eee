package engine

import "gamebank/internal/model"

const (
	XPTransfer         = 10
	XPTerminal         = 30
	XPTopUp            = 15
	XPTerminalSale     = 20
	XPAchievementBonus = 50
)

// ProgressEvent describes one visible change produced by the progression
// reducer: either a level reached or an achievement unlocked.
type ProgressEvent struct {
	LevelUp  int
	Unlocked *model.Achievement
}

// Progress is the level/XP/achievement reducer. It is not safe for
// concurrent use; the engine serialises access to it.
type Progress struct {
	state        model.Progression
	achievements []model.Achievement
}

func NewProgress() *Progress {
	return &Progress{
		state:        model.Progression{Level: 1},
		achievements: model.DefaultAchievements(),
	}
}

func (p *Progress) Level() int { return p.state.Level }
func (p *Progress) XP() int    { return p.state.XP }

// AwardXP adds n XP. Every threshold crossed raises the level by one and
// yields its own event, so one large award may produce several level-ups.
func (p *Progress) AwardXP(n int) []ProgressEvent {
	if n <= 0 {
		return nil
	}
	var events []ProgressEvent
	p.state.XP += n
	for p.state.XP >= model.XPRequiredFor(p.state.Level) {
		p.state.XP -= model.XPRequiredFor(p.state.Level)
		p.state.Level++
		events = append(events, ProgressEvent{LevelUp: p.state.Level})
	}
	return events
}

// Unlock flips an achievement to unlocked and grants the bonus XP. Unlocking
// an achievement that is already unlocked, or unknown, returns nil.
func (p *Progress) Unlock(id model.AchievementID) []ProgressEvent {
	for i := range p.achievements {
		a := &p.achievements[i]
		if a.ID != id {
			continue
		}
		if a.Unlocked {
			return nil
		}
		a.Unlocked = true
		unlocked := *a
		events := []ProgressEvent{{Unlocked: &unlocked}}
		return append(events, p.AwardXP(XPAchievementBonus)...)
	}
	return nil
}

func (p *Progress) Unlocked(id model.AchievementID) bool {
	for _, a := range p.achievements {
		if a.ID == id {
			return a.Unlocked
		}
	}
	return false
}

func (p *Progress) Achievements() []model.Achievement {
	out := make([]model.Achievement, len(p.achievements))
	copy(out, p.achievements)
	return out
}
