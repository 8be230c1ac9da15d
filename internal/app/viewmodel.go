package app

import "caltrack/internal/domain"

// ViewModel is the read-only projection the presentation layer renders from
// after every mutation.
type ViewModel struct {
	Session  *domain.Session `json:"session"`
	Profile  domain.Profile  `json:"profile"`
	Today    domain.DayLog   `json:"today"`
	DayState DayLogState     `json:"dayState"`
	Synced   bool            `json:"synced"`
	Progress float64         `json:"progress"`
}

// View assembles the current view-model. Progress is the consumed share of
// the target, clamped to [0, 1]; zero while no target is set.
func (c *SessionController) View() ViewModel {
	today, state, synced := c.daylog.Today()
	profile := c.profile.Profile()

	var progress float64
	if t := profile.Goal.TargetKcal; t != nil && *t > 0 {
		progress = today.Totals.Kcal / *t
		if progress < 0 {
			progress = 0
		}
		if progress > 1 {
			progress = 1
		}
	}

	return ViewModel{
		Session:  c.Session(),
		Profile:  profile,
		Today:    today,
		DayState: state,
		Synced:   synced,
		Progress: progress,
	}
}
