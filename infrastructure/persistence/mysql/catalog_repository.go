package mysql

import (
	"context"
	"errors"

	"resort/domain/catalog"
	"resort/infrastructure/persistence"
	"resort/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogRepository reads room types and games and writes room ledgers.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// FindRoomByID takes row locks on the room and its ledger when called inside
// a unit of work, so two confirms touching the same room are serialized by
// the database. Both reads are locking reads, so the ledger includes stays
// committed while this transaction waited for the room lock.
func (r *CatalogRepository) FindRoomByID(ctx context.Context, id string) (*catalog.RoomType, error) {
	var roomPO po.RoomTypePO
	if err := r.lockedDB(ctx).First(&roomPO, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.NewRoomNotFoundError(id)
		}
		return nil, err
	}

	var ranges []po.BookedRangePO
	if err := r.lockedDB(ctx).
		Where("room_type_id = ?", id).
		Order("position").
		Find(&ranges).Error; err != nil {
		return nil, err
	}

	return roomPO.ToDomain(ranges)
}

// lockedDB adds FOR UPDATE when ctx carries a transaction.
func (r *CatalogRepository) lockedDB(ctx context.Context) *gorm.DB {
	db := getDB(ctx, r.db)
	if persistence.TxFromContext(ctx) != nil {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

func (r *CatalogRepository) FindGameByID(ctx context.Context, id string) (*catalog.Game, error) {
	var gamePO po.GamePO
	if err := getDB(ctx, r.db).First(&gamePO, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.NewGameNotFoundError(id)
		}
		return nil, err
	}
	return gamePO.ToDomain(), nil
}

// SaveRoomType writes the ledger and unit count under the version check.
// The ledger rows are replaced wholesale.
func (r *CatalogRepository) SaveRoomType(ctx context.Context, room *catalog.RoomType) error {
	return inTransaction(ctx, r.db, func(tx *gorm.DB) error {
		expectedVersion := room.Version()
		result := tx.Model(&po.RoomTypePO{}).
			Where("id = ? AND version = ?", room.ID(), expectedVersion).
			Updates(map[string]interface{}{
				"available_rooms": room.AvailableRooms(),
				"version":         expectedVersion + 1,
				"updated_at":      room.UpdatedAt(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&po.RoomTypePO{}).Where("id = ?", room.ID()).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return catalog.NewRoomNotFoundError(room.ID())
			}
			return catalog.NewConcurrentModificationError(room.ID())
		}

		if err := tx.Where("room_type_id = ?", room.ID()).Delete(&po.BookedRangePO{}).Error; err != nil {
			return err
		}
		if rows := po.FromLedger(room.ID(), room.BookedDates()); len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}

		room.IncrementVersionForSave()
		return nil
	})
}

// RoomListing reads the room header only; the ledger is not needed for a listing.
func (r *CatalogRepository) RoomListing(ctx context.Context, id string) (*catalog.Listing, error) {
	var roomPO po.RoomTypePO
	if err := getDB(ctx, r.db).First(&roomPO, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.NewRoomNotFoundError(id)
		}
		return nil, err
	}
	room, err := roomPO.ToDomain(nil)
	if err != nil {
		return nil, err
	}
	return room.Listing(), nil
}

func (r *CatalogRepository) GameListing(ctx context.Context, id string) (*catalog.Listing, error) {
	game, err := r.FindGameByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return game.Listing(), nil
}

var _ catalog.Repository = (*CatalogRepository)(nil)
