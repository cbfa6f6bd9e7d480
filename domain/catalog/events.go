package catalog

import (
	"time"

	"resort/domain/calendar"
)

type RoomReservedEvent struct {
	roomID         string
	stay           calendar.Range
	availableRooms int
	occurredOn     time.Time
}

func NewRoomReservedEvent(roomID string, stay calendar.Range, availableRooms int) *RoomReservedEvent {
	return &RoomReservedEvent{roomID: roomID, stay: stay, availableRooms: availableRooms, occurredOn: time.Now()}
}

func (e *RoomReservedEvent) EventName() string      { return "room.reserved" }
func (e *RoomReservedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *RoomReservedEvent) GetAggregateID() string { return e.roomID }
func (e *RoomReservedEvent) Stay() calendar.Range   { return e.stay }
func (e *RoomReservedEvent) Payload() map[string]any {
	return map[string]any{
		"room_id":         e.roomID,
		"check_in":        e.stay.CheckIn,
		"check_out":       e.stay.CheckOut,
		"available_rooms": e.availableRooms,
	}
}

type RoomReleasedEvent struct {
	roomID         string
	stay           calendar.Range
	availableRooms int
	occurredOn     time.Time
}

func NewRoomReleasedEvent(roomID string, stay calendar.Range, availableRooms int) *RoomReleasedEvent {
	return &RoomReleasedEvent{roomID: roomID, stay: stay, availableRooms: availableRooms, occurredOn: time.Now()}
}

func (e *RoomReleasedEvent) EventName() string      { return "room.released" }
func (e *RoomReleasedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *RoomReleasedEvent) GetAggregateID() string { return e.roomID }
func (e *RoomReleasedEvent) Stay() calendar.Range   { return e.stay }
func (e *RoomReleasedEvent) Payload() map[string]any {
	return map[string]any{
		"room_id":         e.roomID,
		"check_in":        e.stay.CheckIn,
		"check_out":       e.stay.CheckOut,
		"available_rooms": e.availableRooms,
	}
}
