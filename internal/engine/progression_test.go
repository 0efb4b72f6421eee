package engine

import (
	"testing"

	"gamebank/internal/model"
)

func TestAwardXP_CarriesRemainder(t *testing.T) {
	p := NewProgress()

	if events := p.AwardXP(60); len(events) != 0 {
		t.Fatalf("expected no level-up, got %v", events)
	}
	events := p.AwardXP(70)
	if len(events) != 1 || events[0].LevelUp != 2 {
		t.Fatalf("expected one level-up to 2, got %+v", events)
	}
	if p.Level() != 2 || p.XP() != 30 {
		t.Errorf("got level %d xp %d, want level 2 xp 30", p.Level(), p.XP())
	}
}

func TestAwardXP_CrossesSeveralThresholds(t *testing.T) {
	p := NewProgress()

	events := p.AwardXP(350)
	if len(events) != 2 {
		t.Fatalf("expected 2 level-ups, got %+v", events)
	}
	if events[0].LevelUp != 2 || events[1].LevelUp != 3 {
		t.Errorf("unexpected level sequence %+v", events)
	}
	if p.Level() != 3 || p.XP() != 50 {
		t.Errorf("got level %d xp %d, want level 3 xp 50", p.Level(), p.XP())
	}
}

func TestAwardXP_SplitEqualsSum(t *testing.T) {
	pairs := [][2]int{{10, 50}, {60, 65}, {99, 1}, {100, 100}, {250, 175}, {0, 40}}
	for _, pair := range pairs {
		split := NewProgress()
		split.AwardXP(pair[0])
		split.AwardXP(pair[1])

		whole := NewProgress()
		whole.AwardXP(pair[0] + pair[1])

		if split.Level() != whole.Level() || split.XP() != whole.XP() {
			t.Errorf("%v: split gives L%d/%d, whole gives L%d/%d",
				pair, split.Level(), split.XP(), whole.Level(), whole.XP())
		}
	}
}

func TestAwardXP_IgnoresNonPositive(t *testing.T) {
	p := NewProgress()
	p.AwardXP(0)
	p.AwardXP(-20)
	if p.Level() != 1 || p.XP() != 0 {
		t.Errorf("got level %d xp %d", p.Level(), p.XP())
	}
}

func TestUnlock_OnlyOnce(t *testing.T) {
	p := NewProgress()

	events := p.Unlock(model.AchFirstTransfer)
	if len(events) != 1 || events[0].Unlocked == nil || events[0].Unlocked.ID != model.AchFirstTransfer {
		t.Fatalf("unexpected events %+v", events)
	}
	if !p.Unlocked(model.AchFirstTransfer) {
		t.Fatal("expected achievement to be unlocked")
	}
	if p.XP() != XPAchievementBonus {
		t.Errorf("xp = %d, want %d", p.XP(), XPAchievementBonus)
	}

	if events := p.Unlock(model.AchFirstTransfer); events != nil {
		t.Errorf("second unlock should be a no-op, got %+v", events)
	}
	if p.XP() != XPAchievementBonus {
		t.Errorf("second unlock granted xp: %d", p.XP())
	}
}

func TestUnlock_BonusCanLevelUp(t *testing.T) {
	p := NewProgress()
	p.AwardXP(80)

	events := p.Unlock(model.AchFirstTerminal)
	if len(events) != 2 || events[1].LevelUp != 2 {
		t.Fatalf("expected unlock followed by level-up, got %+v", events)
	}
	if p.Level() != 2 || p.XP() != 30 {
		t.Errorf("got level %d xp %d", p.Level(), p.XP())
	}
}

func TestUnlock_FirstLoginPreUnlocked(t *testing.T) {
	p := NewProgress()
	if !p.Unlocked(model.AchFirstLogin) {
		t.Fatal("first-login should be unlocked at session start")
	}
	if events := p.Unlock(model.AchFirstLogin); events != nil {
		t.Errorf("unexpected events %+v", events)
	}
	if events := p.Unlock("no-such-achievement"); events != nil {
		t.Errorf("unexpected events %+v", events)
	}
	for _, a := range p.Achievements() {
		if a.ID != model.AchFirstLogin && a.Unlocked {
			t.Errorf("%s unlocked at session start", a.ID)
		}
	}
	if n := len(p.Achievements()); n != 6 {
		t.Errorf("expected 6 achievements, got %d", n)
	}
}
