package model

import "github.com/ivankudzin/goodwill/internal/domain/enums"

// QualityWithMetadata is one attribution carried by a like. Value is either a
// mother quality or a free sub-quality string.
type QualityWithMetadata struct {
	Value              string                `json:"value"`
	Category           enums.QualityCategory `json:"category,omitempty"`
	IsDefault          bool                  `json:"is_default"`
	IsGrammarCorrected *bool                 `json:"is_grammar_corrected,omitempty"`
	UsedSearch         *bool                 `json:"used_search,omitempty"`
}

// SameAttribution compares value and category only.
func (q QualityWithMetadata) SameAttribution(other QualityWithMetadata) bool {
	return q.Value == other.Value && q.Category == other.Category
}
