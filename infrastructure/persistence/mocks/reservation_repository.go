package mocks

import (
	"context"
	"sort"

	"resort/domain/reservation"

	"github.com/google/uuid"
)

// ReservationRepository is the in-memory legacy booking store, used when
// MongoDB is disabled.
type ReservationRepository struct {
	store *Store
}

func NewReservationRepository(store *Store) *ReservationRepository {
	return &ReservationRepository{store: store}
}

func (r *ReservationRepository) NextIdentity() string {
	return uuid.NewString()
}

func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	r.store.reservations[res.ID()] = reservationToDTO(res)
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id, userID string) (*reservation.Reservation, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	dto, ok := r.store.reservations[id]
	if !ok || dto.UserID != userID {
		return nil, reservation.NewReservationNotFoundError(id)
	}
	return reservation.RebuildFromDTO(dto), nil
}

func (r *ReservationRepository) FindByUserID(ctx context.Context, userID string) ([]*reservation.Reservation, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	var result []*reservation.Reservation
	for _, dto := range r.store.reservations {
		if dto.UserID == userID {
			result = append(result, reservation.RebuildFromDTO(dto))
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt().After(result[j].CreatedAt())
	})
	return result, nil
}

func (r *ReservationRepository) Save(ctx context.Context, res *reservation.Reservation) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	if _, ok := r.store.reservations[res.ID()]; !ok {
		return reservation.NewReservationNotFoundError(res.ID())
	}
	r.store.reservations[res.ID()] = reservationToDTO(res)
	return nil
}

// PutReservation inserts a reservation as stored, e.g. one imported from the
// legacy system with its original timestamps.
func (s *Store) PutReservation(dto reservation.ReconstructionDTO) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservations[dto.ID] = dto
}

func reservationToDTO(res *reservation.Reservation) reservation.ReconstructionDTO {
	return reservation.ReconstructionDTO{
		ID:          res.ID(),
		UserID:      res.UserID(),
		RoomTypeID:  res.RoomTypeID(),
		CheckIn:     res.Stay().CheckIn,
		CheckOut:    res.Stay().CheckOut,
		Guests:      res.Guests(),
		TotalAmount: res.TotalAmount(),
		Status:      res.Status(),
		CreatedAt:   res.CreatedAt(),
		UpdatedAt:   res.UpdatedAt(),
	}
}

var _ reservation.Repository = (*ReservationRepository)(nil)
