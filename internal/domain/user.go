package domain

import "time"

const (
	RoleStudent   = "student"
	RoleEvaluator = "evaluator"
	RoleAdmin     = "admin"
)

type User struct {
	ID                     int64      `json:"id"`
	FullName               string     `json:"full_name"`
	Email                  string     `json:"email"`
	PasswordHash           string     `json:"-"`
	EducationalInstitution string     `json:"educational_institution,omitempty"`
	Role                   string     `json:"role"`
	IsActive               bool       `json:"is_active"`
	LastLogin              *time.Time `json:"last_login,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
}

// ValidRole indica si el rol es uno de los soportados por la plataforma.
func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleEvaluator, RoleAdmin:
		return true
	}
	return false
}

// EvaluatorAssignment vincula un evaluador con un estudiante.
type EvaluatorAssignment struct {
	ID           int64     `json:"id"`
	EvaluatorID  int64     `json:"evaluator_id"`
	StudentID    int64     `json:"student_id"`
	Status       string    `json:"status"` // "active", "inactive"
	AssignedDate time.Time `json:"assigned_date"`
}
