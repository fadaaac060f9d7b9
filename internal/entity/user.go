package entity

import "time"

type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// Landing routes for each role.
const (
	RouteLogin            = "/login"
	RouteTeacherDashboard = "/teacher/dashboard"
	RouteStudentDashboard = "/student/dashboard"
)

func (r Role) Valid() bool {
	return r == RoleTeacher || r == RoleStudent
}

// LandingRoute is where a user of this role goes after signing in.
func (r Role) LandingRoute() string {
	if r == RoleTeacher {
		return RouteTeacherDashboard
	}
	return RouteStudentDashboard
}

type User struct {
	ID        int       `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Coins     *int      `json:"coins,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
}

type ProfileResponse struct {
	User *User `json:"user"`
}
