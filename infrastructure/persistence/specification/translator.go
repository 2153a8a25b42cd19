/*
Package specification translates domain specifications into GORM scopes.

A translated scope is a pre-filter: it may return more rows than the specification
accepts, never fewer. Repositories still evaluate IsSatisfiedBy on every rebuilt
aggregate, so specifications without a translation (Or, Not, ad hoc SpecFunc) fall
back to a full scan instead of returning wrong results.
*/
package specification

import (
	"ddd-course/domain/course"
	"ddd-course/domain/order"
	"ddd-course/domain/shared"
	"ddd-course/domain/shipment"

	"gorm.io/gorm"
)

// Scope narrows a query; nil means "no pre-filter"
type Scope func(*gorm.DB) *gorm.DB

// Apply applies the scope when present
func (s Scope) Apply(db *gorm.DB) *gorm.DB {
	if s == nil {
		return db
	}
	return s(db)
}

// translate handles the composite specifications shared by every aggregate and
// delegates leaves to concrete
func translate[T any](spec shared.Specification[T], concrete func(shared.Specification[T]) Scope) Scope {
	if spec == nil {
		return nil
	}

	switch s := spec.(type) {
	case shared.AndSpecification[T]:
		left := translate(s.Left, concrete)
		right := translate(s.Right, concrete)
		if left == nil {
			return right
		}
		if right == nil {
			return left
		}
		return func(db *gorm.DB) *gorm.DB { return right(left(db)) }
	case shared.OrSpecification[T], shared.NotSpecification[T]:
		// narrowing through OR/NOT needs both sides exact; scan instead
		return nil
	}
	return concrete(spec)
}

// Course translates course specifications (table "courses")
func Course(spec shared.Specification[*course.Course]) Scope {
	return translate(spec, func(spec shared.Specification[*course.Course]) Scope {
		switch spec.(type) {
		case course.OpenForEnrollmentSpecification:
			return func(db *gorm.DB) *gorm.DB {
				return db.Where("capacity > (SELECT COUNT(*) FROM course_students WHERE course_students.course_id = courses.id)")
			}
		}
		return nil
	})
}

// Shipment translates shipment specifications (table "shipments")
func Shipment(spec shared.Specification[*shipment.Shipment]) Scope {
	return translate(spec, func(spec shared.Specification[*shipment.Shipment]) Scope {
		switch s := spec.(type) {
		case shipment.ByStatusSpecification:
			return func(db *gorm.DB) *gorm.DB {
				return db.Where("status = ?", string(s.Status))
			}
		case shipment.ContainsOrderSpecification:
			return func(db *gorm.DB) *gorm.DB {
				return db.Where("id IN (SELECT shipment_id FROM shipment_parcels WHERE order_id = ?)", s.OrderID.String())
			}
		}
		return nil
	})
}

// Order translates order specifications (table "orders")
func Order(spec shared.Specification[*order.Order]) Scope {
	return translate(spec, func(spec shared.Specification[*order.Order]) Scope {
		switch s := spec.(type) {
		case order.ByCustomerIDSpecification:
			return func(db *gorm.DB) *gorm.DB {
				return db.Where("customer_id = ?", s.CustomerID.String())
			}
		case order.ByStatusSpecification:
			return func(db *gorm.DB) *gorm.DB {
				return db.Where("status = ?", string(s.Status))
			}
		case order.ByDateRangeSpecification:
			return func(db *gorm.DB) *gorm.DB {
				if !s.Start.IsZero() {
					db = db.Where("created_at >= ?", s.Start)
				}
				if !s.End.IsZero() {
					db = db.Where("created_at <= ?", s.End)
				}
				return db
			}
		}
		return nil
	})
}
