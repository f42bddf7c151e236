package types

import "time"

// Event is a volunteer opportunity posted by one organization.
// JoinedVolunteers never exceeds VolunteerCap under correct operation; the
// join path enforces it with a conditional update, not a table constraint.
type Event struct {
	ID               string    `db:"id"`
	Name             string    `db:"name"`
	Description      string    `db:"description"`
	VolunteerCap     int       `db:"volunteer_cap"`
	Location         string    `db:"location"`
	RequiredSkills   string    `db:"required_skills"`
	StartTime        time.Time `db:"start_time"`
	EndTime          time.Time `db:"end_time"`
	JoinedVolunteers []string  `db:"joined_volunteers"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func (e *Event) HasVolunteer(volunteerID string) bool {
	for _, id := range e.JoinedVolunteers {
		if id == volunteerID {
			return true
		}
	}
	return false
}
