package models

// Roles a user profile can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the profile document stored for every authenticated identity.
// The document ID is the Firebase Auth UID.
type User struct {
	ID       string `json:"id" firestore:"-"`
	Email    string `json:"email" firestore:"email"`
	Role     string `json:"role" firestore:"role"`
	HasVoted bool   `json:"hasVoted" firestore:"hasVoted"`
}

// IsAdmin reports whether the profile carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// Session is what the auth/profile resolver hands to callers: the identity
// taken from the verified token plus the stored profile, which may be missing.
type Session struct {
	UID     string `json:"uid"`
	Email   string `json:"email"`
	Profile *User  `json:"profile"`
}
