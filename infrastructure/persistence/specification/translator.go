// Package specification turns domain specifications into GORM scopes.
package specification

import (
	"fmt"

	"resort/domain/order"
	"resort/domain/shared"

	"gorm.io/gorm"
)

// Scope narrows a query on the orders table.
type Scope func(*gorm.DB) *gorm.DB

// OrderScope translates an order specification into a WHERE clause.
// Unknown specifications produce an error instead of silently matching
// every row.
func OrderScope(spec shared.Specification[*order.Order]) (Scope, error) {
	switch s := spec.(type) {
	case nil:
		return func(db *gorm.DB) *gorm.DB { return db }, nil
	case shared.AndSpecification[*order.Order]:
		left, err := OrderScope(s.Left)
		if err != nil {
			return nil, err
		}
		right, err := OrderScope(s.Right)
		if err != nil {
			return nil, err
		}
		return func(db *gorm.DB) *gorm.DB { return right(left(db)) }, nil
	case shared.NotSpecification[*order.Order]:
		return negatedOrderScope(s.Spec)
	case order.ByUserIDSpecification:
		return func(db *gorm.DB) *gorm.DB { return db.Where("user_id = ?", s.UserID) }, nil
	case order.ByStatusSpecification:
		return func(db *gorm.DB) *gorm.DB { return db.Where("status = ?", string(s.Status)) }, nil
	default:
		return nil, fmt.Errorf("unsupported order specification %T", spec)
	}
}

func negatedOrderScope(spec shared.Specification[*order.Order]) (Scope, error) {
	switch s := spec.(type) {
	case order.ByUserIDSpecification:
		return func(db *gorm.DB) *gorm.DB { return db.Where("user_id <> ?", s.UserID) }, nil
	case order.ByStatusSpecification:
		return func(db *gorm.DB) *gorm.DB { return db.Where("status <> ?", string(s.Status)) }, nil
	case shared.NotSpecification[*order.Order]:
		return OrderScope(s.Spec)
	default:
		return nil, fmt.Errorf("unsupported negated order specification %T", spec)
	}
}
