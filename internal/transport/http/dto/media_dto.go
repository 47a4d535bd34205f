package dto

import "time"

type UploadURLRequest struct {
	ContentType string `json:"content_type"`
}

type UploadURLResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
