package enums

// QualityCategory values are the emoji the clients render next to a quality.
type QualityCategory string

const (
	QualityCategoryWisdom       QualityCategory = "☯️"
	QualityCategoryPractical    QualityCategory = "🔧"
	QualityCategoryIntellectual QualityCategory = "🧠"
	QualityCategoryEmotional    QualityCategory = "💛"
	QualityCategoryConfidence   QualityCategory = "💯"
	QualityCategoryPlayful      QualityCategory = "😉"
	QualityCategoryDriven       QualityCategory = "🎯"
	QualityCategoryElegant      QualityCategory = "🦩"
	QualityCategoryOrganized    QualityCategory = "📐"
	QualityCategoryCreative     QualityCategory = "🌈"
	QualityCategoryPure         QualityCategory = "🤍"
)

var qualityCategories = map[QualityCategory]struct{}{
	QualityCategoryWisdom:       {},
	QualityCategoryPractical:    {},
	QualityCategoryIntellectual: {},
	QualityCategoryEmotional:    {},
	QualityCategoryConfidence:   {},
	QualityCategoryPlayful:      {},
	QualityCategoryDriven:       {},
	QualityCategoryElegant:      {},
	QualityCategoryOrganized:    {},
	QualityCategoryCreative:     {},
	QualityCategoryPure:         {},
}

// Valid reports whether c is empty or one of the known categories.
func (c QualityCategory) Valid() bool {
	if c == "" {
		return true
	}
	_, ok := qualityCategories[c]
	return ok
}
