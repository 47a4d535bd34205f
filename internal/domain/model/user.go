package model

import "time"

type User struct {
	ID             string    `json:"id"`
	PhoneNumber    string    `json:"phone_number"`
	Name           string    `json:"name,omitempty"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}
