package po

import (
	"encoding/json"
	"fmt"
	"time"

	"resort/domain/calendar"
	"resort/domain/catalog"
	"resort/domain/shared"

	"gorm.io/datatypes"
)

// RoomTypePO Room type persistence object. The ledger lives in room_booked_dates.
type RoomTypePO struct {
	ID             string         `gorm:"primaryKey;size:64"`
	Name           string         `gorm:"size:255;not null"`
	Category       string         `gorm:"size:100;index"`
	SubCategory    string         `gorm:"size:100"`
	Thumbnail      string         `gorm:"size:512"`
	PricePerNight  int64          `gorm:"not null"`
	Currency       string         `gorm:"size:3;not null"`
	AvailableRooms int            `gorm:"not null;default:0"`
	Amenities      datatypes.JSON `gorm:"type:json"`
	Version        int            `gorm:"default:0"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
}

func (RoomTypePO) TableName() string {
	return "room_types"
}

// BookedRangePO is one committed stay of a room type
type BookedRangePO struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	RoomTypeID string    `gorm:"size:64;index:idx_room_booked_dates_room;not null"`
	Position   int       `gorm:"index:idx_room_booked_dates_room;not null"`
	CheckIn    time.Time `gorm:"not null"`
	CheckOut   time.Time `gorm:"not null"`
}

func (BookedRangePO) TableName() string {
	return "room_booked_dates"
}

// GamePO Game persistence object
type GamePO struct {
	ID           string    `gorm:"primaryKey;size:64"`
	Title        string    `gorm:"size:255;not null"`
	Category     string    `gorm:"size:100"`
	Thumbnail    string    `gorm:"size:512"`
	PricePerHour int64     `gorm:"not null"`
	Currency     string    `gorm:"size:3;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (GamePO) TableName() string {
	return "games"
}

// FromRoomDTO converts a reconstruction DTO, used when seeding.
func FromRoomDTO(dto catalog.RoomReconstructionDTO) (*RoomTypePO, []BookedRangePO, error) {
	amenities, err := json.Marshal(dto.Amenities)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode amenities: %w", err)
	}

	roomPO := &RoomTypePO{
		ID:             dto.ID,
		Name:           dto.Name,
		Category:       dto.Category,
		SubCategory:    dto.SubCategory,
		Thumbnail:      dto.Thumbnail,
		PricePerNight:  dto.PricePerNight.Amount(),
		Currency:       dto.PricePerNight.Currency(),
		AvailableRooms: dto.AvailableRooms,
		Amenities:      datatypes.JSON(amenities),
		Version:        dto.Version,
		CreatedAt:      dto.CreatedAt,
		UpdatedAt:      dto.UpdatedAt,
	}
	return roomPO, FromLedger(dto.ID, dto.BookedDates), nil
}

// FromLedger converts a room's ledger into rows in ledger order.
func FromLedger(roomID string, ranges []calendar.Range) []BookedRangePO {
	rows := make([]BookedRangePO, 0, len(ranges))
	for i, r := range ranges {
		rows = append(rows, BookedRangePO{
			RoomTypeID: roomID,
			Position:   i,
			CheckIn:    r.CheckIn,
			CheckOut:   r.CheckOut,
		})
	}
	return rows
}

// ToDomain rebuilds the aggregate. ranges must be sorted by Position.
func (po *RoomTypePO) ToDomain(ranges []BookedRangePO) (*catalog.RoomType, error) {
	var amenities []string
	if len(po.Amenities) > 0 {
		if err := json.Unmarshal(po.Amenities, &amenities); err != nil {
			return nil, fmt.Errorf("failed to decode amenities of room %s: %w", po.ID, err)
		}
	}

	booked := make([]calendar.Range, 0, len(ranges))
	for _, r := range ranges {
		booked = append(booked, calendar.Range{CheckIn: r.CheckIn, CheckOut: r.CheckOut})
	}

	return catalog.RebuildRoomFromDTO(catalog.RoomReconstructionDTO{
		ID:             po.ID,
		Name:           po.Name,
		Category:       po.Category,
		SubCategory:    po.SubCategory,
		Thumbnail:      po.Thumbnail,
		PricePerNight:  *shared.NewMoney(po.PricePerNight, po.Currency),
		AvailableRooms: po.AvailableRooms,
		Amenities:      amenities,
		BookedDates:    booked,
		Version:        po.Version,
		CreatedAt:      po.CreatedAt,
		UpdatedAt:      po.UpdatedAt,
	}), nil
}

func FromGameDTO(dto catalog.GameReconstructionDTO) *GamePO {
	return &GamePO{
		ID:           dto.ID,
		Title:        dto.Title,
		Category:     dto.Category,
		Thumbnail:    dto.Thumbnail,
		PricePerHour: dto.PricePerHour.Amount(),
		Currency:     dto.PricePerHour.Currency(),
	}
}

func (po *GamePO) ToDomain() *catalog.Game {
	return catalog.RebuildGameFromDTO(catalog.GameReconstructionDTO{
		ID:           po.ID,
		Title:        po.Title,
		Category:     po.Category,
		Thumbnail:    po.Thumbnail,
		PricePerHour: *shared.NewMoney(po.PricePerHour, po.Currency),
	})
}
