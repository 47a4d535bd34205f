package dto

type GoodwillPenaltiesResponse struct {
	NoSearch    float64 `json:"no_search"`
	ReturnLike  float64 `json:"return_like"`
	FarmAccount float64 `json:"farm_account"`
}

type GoodwillBreakdownResponse struct {
	BaseScore float64                   `json:"base_score"`
	Penalties GoodwillPenaltiesResponse `json:"penalties"`
}

type QualityScoreResponse struct {
	Quality QualityPayload `json:"quality"`
	Score   float64        `json:"score"`
}

type GoodwillResponse struct {
	PhoneNumber   string                    `json:"phone_number,omitempty"`
	Score         float64                   `json:"score"`
	Level         string                    `json:"level"`
	Breakdown     GoodwillBreakdownResponse `json:"breakdown"`
	QualityScores []QualityScoreResponse    `json:"quality_scores"`
}
