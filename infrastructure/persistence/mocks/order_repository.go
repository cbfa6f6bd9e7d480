package mocks

import (
	"context"
	"sort"

	"resort/domain/order"
	"resort/domain/shared"

	"github.com/google/uuid"
)

// OrderRepository is the in-memory order store
type OrderRepository struct {
	store *Store
}

func NewOrderRepository(store *Store) *OrderRepository {
	return &OrderRepository{store: store}
}

func (r *OrderRepository) NextIdentity() string {
	return "order-" + uuid.NewString()
}

func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	dto := orderToDTO(o)
	stored, exists := r.store.orders[o.ID()]

	if o.IsNew() {
		if exists {
			return order.NewConcurrentModificationError(o.ID())
		}
		if o.Status() == order.StatusPending {
			// mirrors the unique pending-owner index of the SQL schema
			if _, taken := r.findOne(ctx, order.CartOf(o.UserID())); taken {
				return order.NewConcurrentModificationError(o.ID())
			}
		}
		r.store.orders[o.ID()] = dto
		o.ClearDirtyTracking()
		return nil
	}

	if !exists {
		return order.NewOrderNotFoundError(o.ID())
	}
	if stored.Version != o.Version() {
		return order.NewConcurrentModificationError(o.ID())
	}
	dto.Version = o.Version() + 1
	r.store.orders[o.ID()] = dto
	o.IncrementVersionForSave()
	o.ClearDirtyTracking()
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id, userID string) (*order.Order, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	dto, ok := r.store.orders[id]
	if !ok || dto.UserID != userID {
		return nil, order.NewOrderNotFoundError(id)
	}
	return order.RebuildFromDTO(dto), nil
}

func (r *OrderRepository) FindPendingByUserID(ctx context.Context, userID string) (*order.Order, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	if o, ok := r.findOne(ctx, order.CartOf(userID)); ok {
		return o, nil
	}
	return nil, order.NewOrderNotFoundError("pending order of " + userID)
}

func (r *OrderRepository) FindNonPendingByUserID(ctx context.Context, userID string) ([]*order.Order, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	orders := r.findAll(ctx, order.HistoryOf(userID))
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt().After(orders[j].CreatedAt())
	})
	return orders, nil
}

// findAll evaluates spec against every stored order; the caller holds the lock.
func (r *OrderRepository) findAll(ctx context.Context, spec shared.Specification[*order.Order]) []*order.Order {
	var result []*order.Order
	for _, dto := range r.store.orders {
		o := order.RebuildFromDTO(dto)
		if spec.IsSatisfiedBy(ctx, o) {
			result = append(result, o)
		}
	}
	return result
}

func (r *OrderRepository) findOne(ctx context.Context, spec shared.Specification[*order.Order]) (*order.Order, bool) {
	matches := r.findAll(ctx, spec)
	if len(matches) == 0 {
		return nil, false
	}
	return matches[0], true
}

func orderToDTO(o *order.Order) order.ReconstructionDTO {
	return order.ReconstructionDTO{
		ID:          o.ID(),
		UserID:      o.UserID(),
		Items:       o.Items(),
		TotalAmount: o.TotalAmount(),
		Status:      o.Status(),
		Version:     o.Version(),
		CreatedAt:   o.CreatedAt(),
		UpdatedAt:   o.UpdatedAt(),
	}
}

var _ order.Repository = (*OrderRepository)(nil)
