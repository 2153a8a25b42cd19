/*
Package course Application Layer - course enrollment use cases

Every command loads the aggregate, calls one aggregate method and saves it inside a unit
of work. The aggregate is registered with the unit of work, which drains its events once
after the work succeeds; the service never publishes events itself.
*/
package course

import (
	"context"
	"fmt"

	"ddd-course/domain/course"
	"ddd-course/domain/shared"
)

// ApplicationService Course application service
type ApplicationService struct {
	courseRepo course.Repository
	uowFactory shared.UnitOfWorkFactory
}

// NewApplicationService Create course application service
func NewApplicationService(courseRepo course.Repository, uowFactory shared.UnitOfWorkFactory) *ApplicationService {
	return &ApplicationService{courseRepo: courseRepo, uowFactory: uowFactory}
}

// CreateCourse Create course
func (s *ApplicationService) CreateCourse(ctx context.Context, req CreateCourseRequest) (*CourseResponse, error) {
	name, err := course.NewName(req.Name)
	if err != nil {
		return nil, err
	}

	var c *course.Course
	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		c, err = course.Create(name, req.Capacity)
		if err != nil {
			return err
		}
		if err := s.courseRepo.Save(ctx, c); err != nil {
			return err
		}
		uow.RegisterNew(c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	return toCourseResponse(c), nil
}

// EnrollStudent enrolls the student; enrolling an already enrolled student is a no-op
func (s *ApplicationService) EnrollStudent(ctx context.Context, courseID string, req EnrollStudentRequest) (*CourseResponse, error) {
	id, err := shared.ParseID(courseID)
	if err != nil {
		return nil, err
	}
	studentID, err := shared.ParseID(req.StudentID)
	if err != nil {
		return nil, err
	}

	var c *course.Course
	uow := s.uowFactory.New()
	err = uow.Execute(ctx, func(ctx context.Context) error {
		// Reload on every attempt so a retry never replays a stale version
		c, err = s.courseRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := c.EnrollStudent(studentID); err != nil {
			return err
		}
		if err := s.courseRepo.Save(ctx, c); err != nil {
			return err
		}
		uow.RegisterDirty(c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enroll student: %w", err)
	}
	return toCourseResponse(c), nil
}

// GetCourse Get course information
func (s *ApplicationService) GetCourse(ctx context.Context, courseID string) (*CourseResponse, error) {
	id, err := shared.ParseID(courseID)
	if err != nil {
		return nil, err
	}
	c, err := s.courseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCourseResponse(c), nil
}

// ListOpenCourses courses that still have seats
func (s *ApplicationService) ListOpenCourses(ctx context.Context) ([]*CourseResponse, error) {
	courses, err := s.courseRepo.FindBySpecification(ctx, course.OpenForEnrollmentSpecification{})
	if err != nil {
		return nil, err
	}
	responses := make([]*CourseResponse, len(courses))
	for i, c := range courses {
		responses[i] = toCourseResponse(c)
	}
	return responses, nil
}
