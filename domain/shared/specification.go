package shared

import "context"

// Specification expresses a business rule that selects aggregates.
// Repositories backed by memory evaluate it directly; SQL repositories
// translate the concrete specifications they know into WHERE clauses.
type Specification[T any] interface {
	IsSatisfiedBy(ctx context.Context, entity T) bool
}

// AndSpecification is satisfied when both sides are.
type AndSpecification[T any] struct {
	Left, Right Specification[T]
}

func (s AndSpecification[T]) IsSatisfiedBy(ctx context.Context, entity T) bool {
	return s.Left.IsSatisfiedBy(ctx, entity) && s.Right.IsSatisfiedBy(ctx, entity)
}

func And[T any](left, right Specification[T]) Specification[T] {
	return AndSpecification[T]{Left: left, Right: right}
}

// NotSpecification negates Spec.
type NotSpecification[T any] struct {
	Spec Specification[T]
}

func (s NotSpecification[T]) IsSatisfiedBy(ctx context.Context, entity T) bool {
	return !s.Spec.IsSatisfiedBy(ctx, entity)
}

func Not[T any](spec Specification[T]) Specification[T] {
	return NotSpecification[T]{Spec: spec}
}
