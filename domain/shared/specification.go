package shared

import (
	"context"
)

// Specification encapsulates a business predicate over T.
// Memory repositories evaluate it directly; SQL repositories translate known specifications.
type Specification[T any] interface {
	IsSatisfiedBy(ctx context.Context, candidate T) bool
}

// SpecFunc adapts a plain predicate to Specification
type SpecFunc[T any] func(ctx context.Context, candidate T) bool

// IsSatisfiedBy calls f
func (f SpecFunc[T]) IsSatisfiedBy(ctx context.Context, candidate T) bool {
	return f(ctx, candidate)
}

// ============================================================================
// Composite Specifications
// ============================================================================

// AndSpecification logical AND of two specifications
type AndSpecification[T any] struct {
	Left  Specification[T]
	Right Specification[T]
}

// IsSatisfiedBy returns true if both left and right specifications are satisfied
func (spec AndSpecification[T]) IsSatisfiedBy(ctx context.Context, candidate T) bool {
	return spec.Left.IsSatisfiedBy(ctx, candidate) && spec.Right.IsSatisfiedBy(ctx, candidate)
}

// And creates a new AndSpecification
func And[T any](left, right Specification[T]) Specification[T] {
	return AndSpecification[T]{Left: left, Right: right}
}

// OrSpecification logical OR of two specifications
type OrSpecification[T any] struct {
	Left  Specification[T]
	Right Specification[T]
}

// IsSatisfiedBy returns true if either left or right specification is satisfied
func (spec OrSpecification[T]) IsSatisfiedBy(ctx context.Context, candidate T) bool {
	return spec.Left.IsSatisfiedBy(ctx, candidate) || spec.Right.IsSatisfiedBy(ctx, candidate)
}

// Or creates a new OrSpecification
func Or[T any](left, right Specification[T]) Specification[T] {
	return OrSpecification[T]{Left: left, Right: right}
}

// NotSpecification logical NOT of a specification
type NotSpecification[T any] struct {
	Spec Specification[T]
}

// IsSatisfiedBy returns true if the inner specification is NOT satisfied
func (spec NotSpecification[T]) IsSatisfiedBy(ctx context.Context, candidate T) bool {
	return !spec.Spec.IsSatisfiedBy(ctx, candidate)
}

// Not creates a new NotSpecification
func Not[T any](inner Specification[T]) Specification[T] {
	return NotSpecification[T]{Spec: inner}
}
