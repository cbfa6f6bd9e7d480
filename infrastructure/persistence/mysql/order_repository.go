package mysql

import (
	"context"
	"errors"

	"resort/domain/order"
	"resort/domain/shared"
	"resort/infrastructure/persistence"
	"resort/infrastructure/persistence/mysql/po"
	"resort/infrastructure/persistence/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository MySQL/GORM implementation of order repository
// GORM usage specification: Association features are prohibited to maintain DDD aggregate boundaries
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) NextIdentity() string {
	return "order-" + uuid.New().String()
}

// Save creates the order with all its items, or updates the header under the
// version check and writes only the items added or removed since loading.
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	return inTransaction(ctx, r.db, func(tx *gorm.DB) error {
		if o.IsNew() {
			return r.create(tx, o)
		}
		return r.update(tx, o)
	})
}

func (r *OrderRepository) create(tx *gorm.DB, o *order.Order) error {
	orderPO := po.FromOrderDomain(o)
	itemPOs, err := po.FromOrderItemsDomain(o)
	if err != nil {
		return err
	}

	if err := tx.Create(orderPO).Error; err != nil {
		if isDuplicateKeyError(err) {
			// same id, or another cart of this user committed first
			return order.NewConcurrentModificationError(o.ID())
		}
		return err
	}
	if len(itemPOs) > 0 {
		if err := tx.Create(&itemPOs).Error; err != nil {
			return err
		}
	}

	o.ClearDirtyTracking()
	return nil
}

func (r *OrderRepository) update(tx *gorm.DB, o *order.Order) error {
	orderPO := po.FromOrderDomain(o)
	expectedVersion := o.Version()

	result := tx.Model(&po.OrderPO{}).
		Where("id = ? AND version = ?", o.ID(), expectedVersion).
		Updates(map[string]interface{}{
			"status":         orderPO.Status,
			"total_amount":   orderPO.TotalAmount,
			"total_currency": orderPO.TotalCurrency,
			"pending_owner":  orderPO.PendingOwner,
			"version":        expectedVersion + 1,
			"updated_at":     orderPO.UpdatedAt,
		})
	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return order.NewConcurrentModificationError(o.ID())
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&po.OrderPO{}).Where("id = ?", o.ID()).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return order.NewOrderNotFoundError(o.ID())
		}
		return order.NewConcurrentModificationError(o.ID())
	}

	if removed := o.RemovedItems(); len(removed) > 0 {
		ids := make([]string, 0, len(removed))
		for _, item := range removed {
			ids = append(ids, item.ID())
		}
		if err := tx.Where("order_id = ? AND id IN ?", o.ID(), ids).Delete(&po.OrderItemPO{}).Error; err != nil {
			return err
		}
	}

	if added := o.AddedItems(); len(added) > 0 {
		positions := make(map[string]int, len(o.Items()))
		for i, item := range o.Items() {
			positions[item.ID()] = i
		}
		itemPOs := make([]po.OrderItemPO, 0, len(added))
		for _, item := range added {
			itemPO, err := po.FromOrderItemDomain(o.ID(), positions[item.ID()], item)
			if err != nil {
				return err
			}
			itemPOs = append(itemPOs, itemPO)
		}
		if err := tx.Create(&itemPOs).Error; err != nil {
			return err
		}
	}

	o.IncrementVersionForSave()
	o.ClearDirtyTracking()
	return nil
}

// FindByID locks the order row when called inside a unit of work.
func (r *OrderRepository) FindByID(ctx context.Context, id, userID string) (*order.Order, error) {
	db := getDB(ctx, r.db)
	if persistence.TxFromContext(ctx) != nil {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var orderPO po.OrderPO
	result := db.First(&orderPO, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, order.NewOrderNotFoundError(id)
		}
		return nil, result.Error
	}

	orders, err := r.withItems(ctx, []po.OrderPO{orderPO})
	if err != nil {
		return nil, err
	}
	return orders[0], nil
}

func (r *OrderRepository) FindPendingByUserID(ctx context.Context, userID string) (*order.Order, error) {
	orders, err := r.findBySpecification(ctx, order.CartOf(userID), 1)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, order.NewOrderNotFoundError("pending order of " + userID)
	}
	return orders[0], nil
}

func (r *OrderRepository) FindNonPendingByUserID(ctx context.Context, userID string) ([]*order.Order, error) {
	return r.findBySpecification(ctx, order.HistoryOf(userID), 0)
}

func (r *OrderRepository) findBySpecification(ctx context.Context, spec shared.Specification[*order.Order], limit int) ([]*order.Order, error) {
	scope, err := specification.OrderScope(spec)
	if err != nil {
		return nil, err
	}

	db := getDB(ctx, r.db).Scopes(scope).Order("created_at DESC")
	if limit > 0 {
		db = db.Limit(limit)
	}

	var orderPOs []po.OrderPO
	if err := db.Find(&orderPOs).Error; err != nil {
		return nil, err
	}
	return r.withItems(ctx, orderPOs)
}

// withItems loads the items of every order in one query, without Preload,
// to keep aggregate boundaries explicit.
func (r *OrderRepository) withItems(ctx context.Context, orderPOs []po.OrderPO) ([]*order.Order, error) {
	if len(orderPOs) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(orderPOs))
	for _, orderPO := range orderPOs {
		ids = append(ids, orderPO.ID)
	}

	var itemPOs []po.OrderItemPO
	if err := getDB(ctx, r.db).
		Where("order_id IN ?", ids).
		Order("order_id, position").
		Find(&itemPOs).Error; err != nil {
		return nil, err
	}

	byOrder := make(map[string][]po.OrderItemPO, len(orderPOs))
	for _, itemPO := range itemPOs {
		byOrder[itemPO.OrderID] = append(byOrder[itemPO.OrderID], itemPO)
	}

	orders := make([]*order.Order, 0, len(orderPOs))
	for i := range orderPOs {
		o, err := orderPOs[i].ToDomain(byOrder[orderPOs[i].ID])
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

var _ order.Repository = (*OrderRepository)(nil)
