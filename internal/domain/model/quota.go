package model

import "time"

type LikeQuota struct {
	RemainingLikes   int       `json:"remaining_likes"`
	LikesRefreshedAt time.Time `json:"likes_refreshed_at"`
}
