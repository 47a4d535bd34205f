package dto

import "time"

type SelfUserResponse struct {
	ID                string    `json:"id"`
	PhoneNumber       string    `json:"phone_number"`
	Name              string    `json:"name"`
	ProfilePictureURL string    `json:"profile_picture_url,omitempty"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
}

type SelfResponse struct {
	User         SelfUserResponse `json:"user"`
	Goodwill     GoodwillResponse `json:"goodwill"`
	Quota        QuotaResponse    `json:"quota"`
	TopQualities []QualityPayload `json:"top_qualities"`
}

type PublicUserResponse struct {
	PhoneNumber       string           `json:"phone_number"`
	Name              string           `json:"name"`
	ProfilePictureURL string           `json:"profile_picture_url,omitempty"`
	GoodwillScore     float64          `json:"goodwill_score"`
	GoodwillLevel     string           `json:"goodwill_level"`
	TopQualities      []QualityPayload `json:"top_qualities"`
}

type SearchUsersRequest struct {
	PhoneNumbers []string `json:"phone_numbers"`
}

type SearchUserResponse struct {
	PhoneNumber       string           `json:"phone_number"`
	Name              string           `json:"name"`
	ProfilePictureURL string           `json:"profile_picture_url,omitempty"`
	TopQualities      []QualityPayload `json:"top_qualities"`
}

type SearchUsersResponse struct {
	Items []SearchUserResponse `json:"items"`
}
