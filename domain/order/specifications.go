package order

import (
	"context"

	"resort/domain/shared"
)

// ByUserIDSpecification selects orders owned by a user.
type ByUserIDSpecification struct {
	UserID string
}

func (spec ByUserIDSpecification) IsSatisfiedBy(_ context.Context, o *Order) bool {
	return o.UserID() == spec.UserID
}

// ByStatusSpecification selects orders in one status.
type ByStatusSpecification struct {
	Status Status
}

func (spec ByStatusSpecification) IsSatisfiedBy(_ context.Context, o *Order) bool {
	return o.Status() == spec.Status
}

// CartOf selects the Pending order of a user.
func CartOf(userID string) shared.Specification[*Order] {
	return shared.And[*Order](ByUserIDSpecification{UserID: userID}, ByStatusSpecification{Status: StatusPending})
}

// HistoryOf selects every order of a user that has left the cart.
func HistoryOf(userID string) shared.Specification[*Order] {
	return shared.And[*Order](
		ByUserIDSpecification{UserID: userID},
		shared.Not[*Order](ByStatusSpecification{Status: StatusPending}),
	)
}
