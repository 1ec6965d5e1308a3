package user

import "time"

// User represents a user record in the system.
type User struct {
	ID        string    // ID is the short hex identifier, unique across all users
	UserIndex int64     // UserIndex is the monotonically increasing registration number
	Name      string    // Name is the full name of the user
	Email     string    // Email is the optional email address of the user
	CreatedAt time.Time // CreatedAt is the creation timestamp in UTC
}
