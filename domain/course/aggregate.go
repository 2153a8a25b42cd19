/*
Package course Course aggregate

A course has a fixed capacity and an ordered list of enrolled students.
Enrolling an already enrolled student is an idempotent no-op: no version bump, no event.
Taking the last seat records StudentEnrolled followed by EnrollmentClosed.
*/
package course

import (
	"context"

	"ddd-course/domain/shared"
)

const entityName = "course"

// Course Course aggregate root
type Course struct {
	root shared.Root

	name     Name
	capacity int
	students []shared.ID
}

// Create creates a course, version 1, with a CourseCreated event
func Create(name Name, capacity int) (*Course, error) {
	if name == (Name{}) {
		return nil, shared.NewValidationError(entityName, "name", "course name is required")
	}
	if capacity <= 0 {
		return nil, shared.NewValidationError(entityName, "capacity", "course capacity must be positive")
	}

	id := shared.NewID()
	c := &Course{name: name, capacity: capacity}
	c.root.Initialize(id, CourseCreated{
		EventBase: shared.NewEventBase(id),
		Name:      name.String(),
		Capacity:  capacity,
	})
	return c, nil
}

// EnrollStudent enrolls a student
func (c *Course) EnrollStudent(studentID shared.ID) error {
	const op = "enroll_student"
	if err := c.root.Guard(entityName, op); err != nil {
		return err
	}
	if studentID.IsZero() {
		return shared.NewValidationError(entityName, "student_id", "student id is required")
	}
	if c.IsEnrolled(studentID) {
		return nil
	}
	if c.IsFull() {
		return shared.NewBusinessRuleError(entityName, op, "course is full")
	}

	c.students = append(c.students, studentID)
	events := []shared.DomainEvent{StudentEnrolled{
		EventBase: shared.NewEventBase(c.root.ID()),
		StudentID: studentID,
	}}
	if c.IsFull() {
		events = append(events, EnrollmentClosed{EventBase: shared.NewEventBase(c.root.ID())})
	}
	c.root.Commit(events...)
	return nil
}

func (c *Course) ID() shared.ID  { return c.root.ID() }
func (c *Course) Version() int   { return c.root.Version() }
func (c *Course) Name() Name     { return c.name }
func (c *Course) Capacity() int  { return c.capacity }
func (c *Course) SeatsLeft() int { return c.capacity - len(c.students) }
func (c *Course) IsFull() bool   { return len(c.students) >= c.capacity }

// Students returns a copy of the enrolled students in enrollment order
func (c *Course) Students() []shared.ID {
	students := make([]shared.ID, len(c.students))
	copy(students, c.students)
	return students
}

// IsEnrolled reports whether the student is enrolled
func (c *Course) IsEnrolled(studentID shared.ID) bool {
	for _, s := range c.students {
		if s == studentID {
			return true
		}
	}
	return false
}

// PullEvents drains the recorded events
func (c *Course) PullEvents() []shared.DomainEvent { return c.root.Pull() }

// Equals identity equality
func (c *Course) Equals(other any) bool {
	o, ok := other.(*Course)
	if !ok || c == nil || o == nil {
		return false
	}
	if c.root.ID().IsZero() || o.root.ID().IsZero() {
		return c == o
	}
	return c.root.ID() == o.root.ID()
}

func (c *Course) PersistedVersion() int { return c.root.PersistedVersion() }
func (c *Course) MarkPersisted()        { c.root.MarkPersisted() }

// ============================================================================
// ReconstructionDTO - For Repository Layer Use Only
// ============================================================================

// ReconstructionDTO course state as stored by repositories
type ReconstructionDTO struct {
	ID       shared.ID
	Name     string
	Capacity int
	Students []shared.ID
	Version  int
}

// Rebuild reconstructs a stored course without recording events
func Rebuild(dto ReconstructionDTO) (*Course, error) {
	if dto.ID.IsZero() {
		return nil, shared.NewValidationError(entityName, "id", "id is required")
	}
	name, err := NewName(dto.Name)
	if err != nil {
		return nil, err
	}
	if dto.Capacity <= 0 {
		return nil, shared.NewValidationError(entityName, "capacity", "course capacity must be positive")
	}
	if len(dto.Students) > dto.Capacity {
		return nil, shared.NewValidationError(entityName, "students", "more students than seats")
	}
	seen := make(map[shared.ID]struct{}, len(dto.Students))
	for _, id := range dto.Students {
		if _, dup := seen[id]; dup {
			return nil, shared.NewValidationError(entityName, "students", "student "+id.String()+" enrolled twice")
		}
		seen[id] = struct{}{}
	}
	students := make([]shared.ID, len(dto.Students))
	copy(students, dto.Students)

	c := &Course{name: name, capacity: dto.Capacity, students: students}
	c.root.Restore(dto.ID, dto.Version)
	return c, nil
}

// Snapshot returns the persisted form of the course
func (c *Course) Snapshot() ReconstructionDTO {
	return ReconstructionDTO{
		ID:       c.root.ID(),
		Name:     c.name.String(),
		Capacity: c.capacity,
		Students: c.Students(),
		Version:  c.root.Version(),
	}
}

// ============================================================================
// Repository
// ============================================================================

// Repository Course repository interface
type Repository interface {
	// Save version-checked upsert, shared.ErrConcurrencyConflict on a stale write
	Save(ctx context.Context, course *Course) error

	// FindByID shared.ErrNotFound when missing
	FindByID(ctx context.Context, id shared.ID) (*Course, error)

	// FindBySpecification courses satisfying spec
	FindBySpecification(ctx context.Context, spec shared.Specification[*Course]) ([]*Course, error)
}

// OpenForEnrollmentSpecification courses with seats left
type OpenForEnrollmentSpecification struct{}

// IsSatisfiedBy returns true if the course is not full
func (OpenForEnrollmentSpecification) IsSatisfiedBy(ctx context.Context, c *Course) bool {
	return !c.IsFull()
}

var _ shared.Versioned = (*Course)(nil)
