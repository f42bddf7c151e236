package types

import "time"

// Badge is an award a volunteer can earn. URL points at the artwork object
// in badge storage.
type Badge struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	URL         string    `db:"url"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
