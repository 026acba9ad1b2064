package tracker

import "strings"

// Goals holds the two independently lockable yearly goals. Once locked, a
// goal value is immutable until a full data reset.
type Goals struct {
	Year   YearGoal
	Weight WeightGoal
}

// YearGoal is the free-text main goal for the year.
type YearGoal struct {
	Value  string `json:"value"`
	Locked bool   `json:"locked"`
}

// WeightGoal is the target body weight in kilos.
type WeightGoal struct {
	Value  float64 `json:"value"`
	Locked bool    `json:"locked"`
}

func (g *Goals) SetYearDraft(text string) error {
	if g.Year.Locked {
		return ErrGoalLocked
	}
	g.Year.Value = text
	return nil
}

// LockYear locks the year goal in. A blank draft is a silent no-op;
// returns whether the goal is now locked.
func (g *Goals) LockYear() bool {
	if g.Year.Locked {
		return true
	}
	trimmed := strings.TrimSpace(g.Year.Value)
	if trimmed == "" {
		return false
	}
	g.Year.Value = trimmed
	g.Year.Locked = true
	return true
}

func (g *Goals) SetWeightDraft(kilos float64) error {
	if g.Weight.Locked {
		return ErrGoalLocked
	}
	g.Weight.Value = kilos
	return nil
}

// LockWeight locks the weight goal in. A non-positive draft is a silent
// no-op; returns whether the goal is now locked.
func (g *Goals) LockWeight() bool {
	if g.Weight.Locked {
		return true
	}
	if g.Weight.Value <= 0 {
		return false
	}
	g.Weight.Locked = true
	return true
}

// Reset clears both goals and their locks. The full session reset is the
// only caller, nothing else may unlock a locked goal.
func (g *Goals) Reset() {
	g.Year = YearGoal{}
	g.Weight = WeightGoal{}
}
