package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeRoomNotFound   = "room_not_found"
	ErrCodeAlreadyInRoom  = "already_in_room"
	ErrCodeNotInRoom      = "not_in_room"
	ErrCodeRoomFull       = "room_full"
	ErrCodeDeliveryFailed = "delivery_failed"
)

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrAlreadyInRoom  = errors.New("already in a room")
	ErrNotInRoom      = errors.New("not in room")
	ErrRoomFull       = errors.New("room is full")
	ErrDeliveryFailed = errors.New("delivery failed")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

// AsCoreError maps a registry error to its coded form with the canonical
// short message, stripped of wrapping context.
func AsCoreError(err error) *CoreError {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return &CoreError{Code: ErrCodeRoomNotFound, Message: ErrRoomNotFound.Error()}
	case errors.Is(err, ErrAlreadyInRoom):
		return &CoreError{Code: ErrCodeAlreadyInRoom, Message: ErrAlreadyInRoom.Error()}
	case errors.Is(err, ErrNotInRoom):
		return &CoreError{Code: ErrCodeNotInRoom, Message: ErrNotInRoom.Error()}
	case errors.Is(err, ErrRoomFull):
		return &CoreError{Code: ErrCodeRoomFull, Message: ErrRoomFull.Error()}
	case errors.Is(err, ErrDeliveryFailed):
		return &CoreError{Code: ErrCodeDeliveryFailed, Message: ErrDeliveryFailed.Error()}
	default:
		return &CoreError{Code: "internal", Message: err.Error()}
	}
}
