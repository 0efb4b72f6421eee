package model

type AchievementID string

const (
	AchFirstLogin        AchievementID = "first-login"
	AchFirstTransfer     AchievementID = "first-transfer"
	AchFirstTerminal     AchievementID = "first-terminal"
	AchBalance1000       AchievementID = "balance-1000"
	AchFirstTopUp        AchievementID = "first-topup"
	AchFirstTerminalSale AchievementID = "first-terminal-sale"
)

type Achievement struct {
	ID          AchievementID `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Unlocked    bool          `json:"unlocked"`
}

// DefaultAchievements returns the session-start set; only first-login is unlocked.
func DefaultAchievements() []Achievement {
	return []Achievement{
		{ID: AchFirstLogin, Title: "First steps", Description: "Sign up for the service", Unlocked: true},
		{ID: AchFirstTransfer, Title: "First transfer", Description: "Send your first transfer"},
		{ID: AchFirstTerminal, Title: "Entrepreneur", Description: "Create your own terminal"},
		{ID: AchBalance1000, Title: "Moneybags", Description: "Save up 1000"},
		{ID: AchFirstTopUp, Title: "Investor", Description: "Top up from a bank card"},
		{ID: AchFirstTerminalSale, Title: "First customer", Description: "Sell something through a terminal"},
	}
}

// XPRequiredFor is the XP needed to leave the given level.
func XPRequiredFor(level int) int {
	return level * 100
}

type Progression struct {
	Level int `json:"level"`
	XP    int `json:"xp"`
}
