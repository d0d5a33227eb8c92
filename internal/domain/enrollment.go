package domain

import "time"

// EnrollmentStatus tracks a course application through review
type EnrollmentStatus string

const (
	EnrollmentPending  EnrollmentStatus = "PENDING_REVIEW"
	EnrollmentEnrolled EnrollmentStatus = "ENROLLED"
	EnrollmentApproved EnrollmentStatus = "APPROVED"
	EnrollmentRejected EnrollmentStatus = "REJECTED"
)

// Valid reports whether the status is one of the known values
func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentPending, EnrollmentEnrolled, EnrollmentApproved, EnrollmentRejected:
		return true
	}
	return false
}

// EnrollmentApplication is a student's application for a course.
// Motivation and personal data are captured once at submission and are
// immutable afterwards; only Status changes.
type EnrollmentApplication struct {
	ID          string           `json:"id"`
	UserID      string           `json:"user_id"`
	CourseID    string           `json:"course_id"`
	Status      EnrollmentStatus `json:"status"`
	Motivation  string           `json:"motivation"`
	FullName    string           `json:"full_name"`
	Phone       string           `json:"phone"`
	SubmittedAt time.Time        `json:"submitted_at"`
}

// EnrollmentID builds the composite application key
func EnrollmentID(userID, courseID string) string {
	return userID + courseID
}

// NewEnrollmentApplication creates a pending application
func NewEnrollmentApplication(userID, courseID, motivation, fullName, phone string) *EnrollmentApplication {
	return &EnrollmentApplication{
		ID:          EnrollmentID(userID, courseID),
		UserID:      userID,
		CourseID:    courseID,
		Status:      EnrollmentPending,
		Motivation:  motivation,
		FullName:    fullName,
		Phone:       phone,
		SubmittedAt: time.Now().UTC(),
	}
}
