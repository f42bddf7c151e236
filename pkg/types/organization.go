package types

import "time"

// Organization holds role data for an organizing user. Events lists the ids
// of the opportunities this organization owns.
type Organization struct {
	ID        string    `db:"id"`
	Category  *string   `db:"category"`
	Locality  *string   `db:"locality"`
	Events    []string  `db:"events"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
