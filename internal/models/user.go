package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin     UserRole = "ADMIN"
	RoleFaculty   UserRole = "FACULTY"
	RoleStudent   UserRole = "STUDENT"
	RoleRecruiter UserRole = "RECRUITER"
)

// User represents an application user stored in the users table.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	Role         UserRole   `db:"role" json:"role"`
	StudentID    *string    `db:"student_id" json:"student_id,omitempty"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Actor is the already-resolved identity the workflow core receives. Role and
// ownership are decided from claims, never inferred from request shape.
type Actor struct {
	UserID    string
	Role      UserRole
	StudentID string
}

// IsStaff reports whether the actor acts on behalf of the institution.
func (a Actor) IsStaff() bool {
	return a.Role == RoleAdmin || a.Role == RoleFaculty
}

// Owns reports whether the actor is the student owning the given record.
func (a Actor) Owns(studentID string) bool {
	return a.Role == RoleStudent && a.StudentID != "" && a.StudentID == studentID
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
