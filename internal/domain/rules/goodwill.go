package rules

const (
	EndorsementMultiplier   = 3.0
	MotherQualityMultiplier = 2.0
	NoSearchFactor          = 0.7
	ReturnLikeFactor        = 0.85
	FarmAccountFactor       = 0.5
)

const (
	LevelExceptional = "Exceptional"
	LevelVeryHigh    = "Very High"
	LevelHigh        = "High"
	LevelModerate    = "Moderate"
	LevelDeveloping  = "Developing"
)

type levelThreshold struct {
	min   float64
	level string
}

// ordered highest first, first match wins
var goodwillLevels = []levelThreshold{
	{min: 100, level: LevelExceptional},
	{min: 60, level: LevelVeryHigh},
	{min: 20, level: LevelHigh},
	{min: 3, level: LevelModerate},
}

func GoodwillLevel(score float64) string {
	for _, t := range goodwillLevels {
		if score >= t.min {
			return t.level
		}
	}
	return LevelDeveloping
}
