package users

import "time"

// User is a platform identity: a student enrolled in a course or a teacher.
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Role       string    `json:"role"`
	CourseID   string    `json:"courseId,omitempty"`
	CourseName string    `json:"courseName,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
