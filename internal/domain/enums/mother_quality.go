package enums

type MotherQuality string

const (
	MotherQualityKind        MotherQuality = "Kind"
	MotherQualityIntelligent MotherQuality = "Intelligent"
	MotherQualityConfident   MotherQuality = "Confident"
	MotherQualityHardWorking MotherQuality = "Hard-Working"
	MotherQualityFunLoving   MotherQuality = "Fun-Loving"
	MotherQualityHonest      MotherQuality = "Honest"
	MotherQualityCreative    MotherQuality = "Creative"
	MotherQualityWise        MotherQuality = "Wise"
	MotherQualityPractical   MotherQuality = "Practical"
	MotherQualityClassy      MotherQuality = "Classy"
	MotherQualityOrganized   MotherQuality = "Organized"
	MotherQualityWarm        MotherQuality = "Warm"
	MotherQualityRational    MotherQuality = "Rational"
	MotherQualityBold        MotherQuality = "Bold"
	MotherQualityDetermined  MotherQuality = "Determined"
	MotherQualityCharming    MotherQuality = "Charming"
	MotherQualityPureHearted MotherQuality = "Pure-Hearted"
	MotherQualityArtistic    MotherQuality = "Artistic"
	MotherQualityHumble      MotherQuality = "Humble"
	MotherQualityResourceful MotherQuality = "Resourceful"
	MotherQualityGraceful    MotherQuality = "Graceful"
	MotherQualityReliable    MotherQuality = "Reliable"
)

// MotherQualities is the fixed set offered by default, in display order.
var MotherQualities = []MotherQuality{
	MotherQualityKind,
	MotherQualityIntelligent,
	MotherQualityConfident,
	MotherQualityHardWorking,
	MotherQualityFunLoving,
	MotherQualityHonest,
	MotherQualityCreative,
	MotherQualityWise,
	MotherQualityPractical,
	MotherQualityClassy,
	MotherQualityOrganized,
	MotherQualityWarm,
	MotherQualityRational,
	MotherQualityBold,
	MotherQualityDetermined,
	MotherQualityCharming,
	MotherQualityPureHearted,
	MotherQualityArtistic,
	MotherQualityHumble,
	MotherQualityResourceful,
	MotherQualityGraceful,
	MotherQualityReliable,
}

var motherQualitySet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(MotherQualities))
	for _, q := range MotherQualities {
		set[string(q)] = struct{}{}
	}
	return set
}()

// IsMotherQuality matches exactly; sub-qualities and free text return false.
func IsMotherQuality(value string) bool {
	_, ok := motherQualitySet[value]
	return ok
}
