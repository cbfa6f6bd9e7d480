package mocks

import (
	"context"

	"resort/domain/calendar"
	"resort/domain/catalog"
)

// CatalogRepository is the in-memory catalog store
type CatalogRepository struct {
	store *Store
}

func NewCatalogRepository(store *Store) *CatalogRepository {
	return &CatalogRepository{store: store}
}

func (r *CatalogRepository) FindRoomByID(ctx context.Context, id string) (*catalog.RoomType, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	dto, ok := r.store.rooms[id]
	if !ok {
		return nil, catalog.NewRoomNotFoundError(id)
	}
	return catalog.RebuildRoomFromDTO(dto), nil
}

func (r *CatalogRepository) FindGameByID(ctx context.Context, id string) (*catalog.Game, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	dto, ok := r.store.games[id]
	if !ok {
		return nil, catalog.NewGameNotFoundError(id)
	}
	return catalog.RebuildGameFromDTO(dto), nil
}

func (r *CatalogRepository) SaveRoomType(ctx context.Context, room *catalog.RoomType) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	stored, ok := r.store.rooms[room.ID()]
	if !ok {
		return catalog.NewRoomNotFoundError(room.ID())
	}
	if stored.Version != room.Version() {
		return catalog.NewConcurrentModificationError(room.ID())
	}

	stored.AvailableRooms = room.AvailableRooms()
	stored.BookedDates = room.BookedDates()
	stored.Version = room.Version() + 1
	stored.UpdatedAt = room.UpdatedAt()
	r.store.rooms[room.ID()] = cloneRoom(stored)
	room.IncrementVersionForSave()
	return nil
}

func (r *CatalogRepository) RoomListing(ctx context.Context, id string) (*catalog.Listing, error) {
	room, err := r.FindRoomByID(ctx, id)
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

func cloneRoom(dto catalog.RoomReconstructionDTO) catalog.RoomReconstructionDTO {
	dto.Amenities = append([]string(nil), dto.Amenities...)
	dto.BookedDates = append([]calendar.Range(nil), dto.BookedDates...)
	return dto
}

var _ catalog.Repository = (*CatalogRepository)(nil)
