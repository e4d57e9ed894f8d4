package model

import "time"

// RoomLock is an advisory lock held across a booking's check-then-commit
// window. The lock is keyed by room, so two concurrent writes against the
// same room serialize while writes to different rooms proceed in parallel.
// A TTL index on expires_at reaps locks orphaned by a crashed process.
type RoomLock struct {
	ID        string    `json:"id" bson:"_id"`
	Owner     string    `json:"owner" bson:"owner"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

func RoomLockID(roomID string) string {
	return "room_lock_" + roomID
}
