package course

import "ddd-course/domain/shared"

const (
	EventCourseCreated    = "course.created"
	EventStudentEnrolled  = "course.student_enrolled"
	EventEnrollmentClosed = "course.enrollment_closed"
)

type CourseCreated struct {
	shared.EventBase
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

func (CourseCreated) EventName() string { return EventCourseCreated }

type StudentEnrolled struct {
	shared.EventBase
	StudentID shared.ID `json:"student_id"`
}

func (StudentEnrolled) EventName() string { return EventStudentEnrolled }

// EnrollmentClosed recorded together with the StudentEnrolled that takes the last seat
type EnrollmentClosed struct {
	shared.EventBase
}

func (EnrollmentClosed) EventName() string { return EventEnrollmentClosed }
