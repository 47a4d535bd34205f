package likes

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ivankudzin/goodwill/internal/domain/enums"
	"github.com/ivankudzin/goodwill/internal/domain/model"
)

const topQualitiesLimit = 3

type qualityKey struct {
	value          string
	category       enums.QualityCategory
	isDefault      bool
	grammarKnown   bool
	grammarChecked bool
}

func keyOf(q model.QualityWithMetadata) qualityKey {
	key := qualityKey{
		value:     q.Value,
		category:  q.Category,
		isDefault: q.IsDefault,
	}
	if q.IsGrammarCorrected != nil {
		key.grammarKnown = true
		key.grammarChecked = *q.IsGrammarCorrected
	}
	return key
}

type qualityCount struct {
	quality model.QualityWithMetadata
	count   int
}

// SortLikesChronologically orders by created_at, then id, in place.
func SortLikesChronologically(items []model.Like) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
}

// RankQualities counts attributions across likes and returns the most
// frequent ones. Ties keep the order in which they were first seen.
func RankQualities(received []model.Like, limit int) []model.QualityWithMetadata {
	ordered := append([]model.Like(nil), received...)
	SortLikesChronologically(ordered)

	index := make(map[qualityKey]int)
	counts := make([]qualityCount, 0)
	for _, like := range ordered {
		for _, q := range like.Qualities {
			key := keyOf(q)
			if i, ok := index[key]; ok {
				counts[i].count++
				continue
			}
			index[key] = len(counts)
			counts = append(counts, qualityCount{quality: q, count: 1})
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].count > counts[j].count
	})

	if limit > len(counts) {
		limit = len(counts)
	}
	top := make([]model.QualityWithMetadata, 0, limit)
	for _, c := range counts[:limit] {
		top = append(top, c.quality)
	}
	return top
}

func (s *Service) GetTopThreeQualities(ctx context.Context, phone string) ([]model.QualityWithMetadata, error) {
	received, err := s.GetLikes(ctx, phone)
	if err != nil {
		return nil, err
	}
	return RankQualities(received, topQualitiesLimit), nil
}

// GetTopThreeQualitiesPerUser loads likes for every phone in one query.
// Each requested phone gets an entry, empty when nothing was received.
func (s *Service) GetTopThreeQualitiesPerUser(ctx context.Context, phones []string) (map[string][]model.QualityWithMetadata, error) {
	if s.likes == nil {
		return nil, ErrDependenciesNil
	}

	unique := make([]string, 0, len(phones))
	seen := make(map[string]struct{}, len(phones))
	for _, phone := range phones {
		phone = strings.TrimSpace(phone)
		if phone == "" {
			continue
		}
		if _, ok := seen[phone]; ok {
			continue
		}
		seen[phone] = struct{}{}
		unique = append(unique, phone)
	}

	result := make(map[string][]model.QualityWithMetadata, len(unique))
	if len(unique) == 0 {
		return result, nil
	}

	received, err := s.likes.ListReceivedByPhones(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("list received likes: %w", err)
	}

	grouped := make(map[string][]model.Like, len(unique))
	for _, like := range received {
		grouped[like.ToPhoneNumber] = append(grouped[like.ToPhoneNumber], like)
	}
	for _, phone := range unique {
		result[phone] = RankQualities(grouped[phone], topQualitiesLimit)
	}

	return result, nil
}
