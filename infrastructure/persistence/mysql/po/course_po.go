package po

import (
	"time"

	"ddd-course/domain/course"
	"ddd-course/domain/shared"
)

// CoursePO Course persistence object
// Note: Only used for database mapping, does not contain any business logic
type CoursePO struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Name      string    `gorm:"size:100;not null"`
	Capacity  int       `gorm:"not null"`
	Version   int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName Specify table name
func (CoursePO) TableName() string {
	return "courses"
}

// CourseStudentPO one enrolled student; Position keeps enrollment order
type CourseStudentPO struct {
	CourseID  string `gorm:"primaryKey;size:36"`
	StudentID string `gorm:"primaryKey;size:36"`
	Position  int    `gorm:"not null"`
}

// TableName Specify table name
func (CourseStudentPO) TableName() string {
	return "course_students"
}

// FromCourseDomain Convert domain model to persistence objects
func FromCourseDomain(c *course.Course) (*CoursePO, []CourseStudentPO) {
	dto := c.Snapshot()
	coursePO := &CoursePO{
		ID:       dto.ID.String(),
		Name:     dto.Name,
		Capacity: dto.Capacity,
		Version:  dto.Version,
	}

	students := make([]CourseStudentPO, len(dto.Students))
	for i, id := range dto.Students {
		students[i] = CourseStudentPO{CourseID: coursePO.ID, StudentID: id.String(), Position: i}
	}
	return coursePO, students
}

// ToDomain Convert persistence objects to domain model.
// students must be ordered by Position.
func (po *CoursePO) ToDomain(students []CourseStudentPO) (*course.Course, error) {
	id, err := shared.ParseID(po.ID)
	if err != nil {
		return nil, err
	}
	ids := make([]shared.ID, len(students))
	for i, s := range students {
		if ids[i], err = shared.ParseID(s.StudentID); err != nil {
			return nil, err
		}
	}
	return course.Rebuild(course.ReconstructionDTO{
		ID:       id,
		Name:     po.Name,
		Capacity: po.Capacity,
		Students: ids,
		Version:  po.Version,
	})
}
