package domain

// Schedule is a user's daily work window in minutes after local midnight.
// No schedule means the whole day is billable.
type Schedule struct {
	GroupID      string
	UserID       string
	WorkStartMin int
	WorkEndMin   int
}

// Break is a user's daily non-billable window in minutes after local midnight.
type Break struct {
	GroupID       string
	UserID        string
	BreakStartMin int
	BreakEndMin   int
}

// DurationMin returns the break length in minutes.
func (b *Break) DurationMin() int {
	return b.BreakEndMin - b.BreakStartMin
}

// Viewer grants a user access to other users' and aggregate reports.
type Viewer struct {
	GroupID string
	UserID  string
}
