package model

import (
	"time"

	"github.com/ivankudzin/goodwill/internal/domain/enums"
)

type Like struct {
	ID              string                `json:"id"`
	FromPhoneNumber string                `json:"from_phone_number"`
	ToPhoneNumber   string                `json:"to_phone_number"`
	IsEndorsed      bool                  `json:"is_endorsed"`
	UsedSearch      bool                  `json:"used_search"`
	IsMotherQuality bool                  `json:"is_mother_quality"`
	Qualities       []QualityWithMetadata `json:"qualities"`
	IsNotified      bool                  `json:"is_notified"`
	CreatedAt       time.Time             `json:"created_at"`
}

// HasMotherQuality reports whether any attribution is one of the fixed qualities.
func (l Like) HasMotherQuality() bool {
	for _, q := range l.Qualities {
		if enums.IsMotherQuality(q.Value) {
			return true
		}
	}
	return false
}

type LikeHistory struct {
	ID              string                `json:"id"`
	FromPhoneNumber string                `json:"from_phone_number"`
	ToPhoneNumber   string                `json:"to_phone_number"`
	Action          enums.LikeAction      `json:"action"`
	Qualities       []QualityWithMetadata `json:"qualities,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
}
