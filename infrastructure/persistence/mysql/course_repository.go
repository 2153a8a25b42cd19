package mysql

import (
	"context"

	"ddd-course/domain/course"
	"ddd-course/domain/shared"
	"ddd-course/infrastructure/persistence/mysql/po"
	"ddd-course/infrastructure/persistence/specification"

	"gorm.io/gorm"
)

// CourseRepository GORM implementation of course.Repository
// Students are stored as child rows managed by hand, never through GORM associations
type CourseRepository struct {
	db *gorm.DB
}

// NewCourseRepository Create course repository
func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// Save writes the course and its students when the stored version is the one it was loaded with
func (r *CourseRepository) Save(ctx context.Context, c *course.Course) error {
	if c.ID().IsZero() {
		return shared.NewNotInitializedError("course", "save")
	}
	coursePO, students := po.FromCourseDomain(c)

	err := inTransaction(ctx, r.db, func(tx *gorm.DB) error {
		if err := writeRoot(tx, "course", c, coursePO); err != nil {
			return err
		}
		return replaceChildren(tx, "course_id", coursePO.ID, students)
	})
	if err != nil {
		return err
	}
	c.MarkPersisted()
	return nil
}

// FindByID Find course by ID
func (r *CourseRepository) FindByID(ctx context.Context, id shared.ID) (*course.Course, error) {
	db := dbFromContext(ctx, r.db)
	var coursePO po.CoursePO
	if err := db.First(&coursePO, "id = ?", id.String()).Error; err != nil {
		return nil, notFound(err, "course", id)
	}
	return r.load(db, &coursePO)
}

// FindBySpecification translated specifications narrow the query, the rest is checked in memory
func (r *CourseRepository) FindBySpecification(ctx context.Context, spec shared.Specification[*course.Course]) ([]*course.Course, error) {
	db := dbFromContext(ctx, r.db)
	var coursePOs []po.CoursePO
	if err := specification.Course(spec).Apply(db.Model(&po.CoursePO{})).
		Order("created_at ASC").
		Find(&coursePOs).Error; err != nil {
		return nil, err
	}

	courses := make([]*course.Course, 0, len(coursePOs))
	for i := range coursePOs {
		c, err := r.load(db, &coursePOs[i])
		if err != nil {
			return nil, err
		}
		if spec == nil || spec.IsSatisfiedBy(ctx, c) {
			courses = append(courses, c)
		}
	}
	return courses, nil
}

func (r *CourseRepository) load(db *gorm.DB, coursePO *po.CoursePO) (*course.Course, error) {
	var students []po.CourseStudentPO
	if err := db.Where("course_id = ?", coursePO.ID).Order("position ASC").Find(&students).Error; err != nil {
		return nil, err
	}
	return coursePO.ToDomain(students)
}

// Compile-time interface implementation check
var _ course.Repository = (*CourseRepository)(nil)
