package models

type Role string

const (
	RoleComplainant Role = "complainant"
	RoleAdmin       Role = "admin"
	RoleSupervisor  Role = "supervisor"
	RoleExecutor    Role = "executor"
)

// PersianLabel returns the display name used in SMS texts and defect notices.
func (r Role) PersianLabel() string {
	switch r {
	case RoleSupervisor:
		return "ناظر"
	case RoleExecutor:
		return "مجری"
	case RoleComplainant:
		return "شاکی"
	default:
		return "متقاضی"
	}
}

// IsEngineer reports whether the role is one of the two engineer roles a
// complaint can target.
func (r Role) IsEngineer() bool {
	return r == RoleSupervisor || r == RoleExecutor
}

// User is an account in the roster. ID is the national ID (or a fixed handle
// for seeded accounts) and doubles as the login name. Users are stored as JSON
// documents, so the password hash carries a json tag; API responses must go
// through Public().
type User struct {
	ID           string `json:"id"`
	FullName     string `json:"fullName"`
	PasswordHash string `json:"passwordHash,omitempty"`
	Role         Role   `json:"role"`
	Avatar       string `json:"avatar,omitempty"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
	Email        string `json:"email,omitempty"`
}

// Public returns a copy safe to embed in API responses and complaint documents.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsComplainant() bool {
	return u.Role == RoleComplainant
}
