package types

import "time"

// Volunteer holds role data for a volunteering user. Experience mirrors
// Event.JoinedVolunteers from the other side of the edge; the event side is
// authoritative and this list is maintained as a cache on join and leave.
type Volunteer struct {
	ID         string    `db:"id"`
	Skills     *string   `db:"skills"`
	Experience []string  `db:"experience"`
	Badges     []string  `db:"badges"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}
