package dto

import "time"

type QualityPayload struct {
	Value              string `json:"value"`
	Category           string `json:"category,omitempty"`
	IsDefault          bool   `json:"is_default"`
	IsGrammarCorrected *bool  `json:"is_grammar_corrected,omitempty"`
	UsedSearch         *bool  `json:"used_search,omitempty"`
}

type CreateLikeRequest struct {
	FromPhoneNumber string           `json:"from_phone_number"`
	ToPhoneNumber   string           `json:"to_phone_number"`
	Qualities       []QualityPayload `json:"qualities"`
	IsEndorsed      bool             `json:"is_endorsed"`
	UsedSearch      bool             `json:"used_search"`
	IsMotherQuality bool             `json:"is_mother_quality"`
}

type LikeResponse struct {
	ID              string           `json:"id"`
	FromPhoneNumber string           `json:"from_phone_number"`
	ToPhoneNumber   string           `json:"to_phone_number"`
	Qualities       []QualityPayload `json:"qualities"`
	IsEndorsed      bool             `json:"is_endorsed"`
	UsedSearch      bool             `json:"used_search"`
	IsMotherQuality bool             `json:"is_mother_quality"`
	IsNotified      bool             `json:"is_notified"`
	CreatedAt       time.Time        `json:"created_at"`
}

type LikesListResponse struct {
	Items []LikeResponse `json:"items"`
}

type LikeHistoryResponse struct {
	ID              string           `json:"id"`
	FromPhoneNumber string           `json:"from_phone_number"`
	ToPhoneNumber   string           `json:"to_phone_number"`
	Action          string           `json:"action"`
	Qualities       []QualityPayload `json:"qualities,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

type LikeHistoryListResponse struct {
	Items []LikeHistoryResponse `json:"items"`
}

type QuotaResponse struct {
	RemainingLikes    int       `json:"remaining_likes"`
	LikesRefreshedAt  time.Time `json:"likes_refreshed_at"`
	TooFastRetryAfter *int64    `json:"too_fast_retry_after,omitempty"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}
