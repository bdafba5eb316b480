package model

import "time"

// User is a registered account.
//
// Password holds the bcrypt hash. It is tagged json:"-" so no response can
// carry it, even when the full record is passed around internally.
type User struct {
	Username  string  `json:"username"`
	Password  string  `json:"-"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	PhotoURL  *string `json:"photo_url"`
	IsAdmin   bool    `json:"is_admin"`
}

// UserDetail is a user with the jobs they have applied to.
type UserDetail struct {
	User
	Jobs []Application `json:"jobs"`
}

// UserSummary is the list projection.
type UserSummary struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// NewUser is the registration input. Password is plaintext here; the
// service hashes it before storage.
type NewUser struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
	PhotoURL  *string
}

// UserPatch holds the fields a user may change on their own account.
// Password and admin flag are not editable through it.
type UserPatch struct {
	FirstName *string
	LastName  *string
	Email     *string
	PhotoURL  *string
}

// Application states.
const (
	StateApplied    = "applied"
	StateInterested = "interested"
	StateAccepted   = "accepted"
	StateRejected   = "rejected"
)

// Application links a user to a job. ID is the job id.
type Application struct {
	ID        int       `json:"id"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
}
