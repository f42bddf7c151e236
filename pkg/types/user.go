package types

import "time"

type UserType string

const (
	UserTypeVolunteer    UserType = "volunteer"
	UserTypeOrganization UserType = "organization"
)

// User is the local identity record. (CivicID, Email) is the join key
// supplied by the identity provider; DataID references the role-specific
// record (Volunteer or Organization) once the user has onboarded.
type User struct {
	ID        string    `db:"id"`
	CivicID   string    `db:"civic_id"`
	Email     string    `db:"email"`
	Name      *string   `db:"name"`
	Username  *string   `db:"username"`
	Bio       *string   `db:"bio"`
	UserType  *string   `db:"user_type"`
	Onboarded bool      `db:"onboarded"`
	DataID    *string   `db:"data_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
