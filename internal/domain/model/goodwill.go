package model

type GoodwillPenalties struct {
	NoSearch    float64 `json:"no_search"`
	ReturnLike  float64 `json:"return_like"`
	FarmAccount float64 `json:"farm_account"`
}

type GoodwillBreakdown struct {
	BaseScore float64           `json:"base_score"`
	Penalties GoodwillPenalties `json:"penalties"`
}

type QualityScore struct {
	Quality QualityWithMetadata `json:"quality"`
	Score   float64             `json:"score"`
}

type Goodwill struct {
	Score         float64           `json:"score"`
	Level         string            `json:"level"`
	Breakdown     GoodwillBreakdown `json:"breakdown"`
	QualityScores []QualityScore    `json:"quality_scores"`
}
