package dto

import "time"

// UserRegisteredEvent is published on the user_registered queue
type UserRegisteredEvent struct {
	UserID       uint      `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registered_at"`
}

// ContactAddedEvent is published on the contact_added queue
type ContactAddedEvent struct {
	ContactID uint      `json:"contact_id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	AddedAt   time.Time `json:"added_at"`
}
