package goodwill

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/ivankudzin/goodwill/internal/domain/enums"
	"github.com/ivankudzin/goodwill/internal/domain/model"
	"github.com/ivankudzin/goodwill/internal/domain/rules"
	likesvc "github.com/ivankudzin/goodwill/internal/services/likes"
)

const defaultLookupConcurrency = 8

var (
	ErrValidation      = errors.New("validation error")
	ErrDependenciesNil = errors.New("goodwill dependencies are not configured")
)

type LikeReader interface {
	ListReceived(ctx context.Context, phone string) ([]model.Like, error)
	ExistsEarlier(ctx context.Context, from, to string, before time.Time) (bool, error)
}

type FarmClassifier interface {
	IsFarmAccount(ctx context.Context, senderPhone string) (bool, error)
}

type Config struct {
	// LookupConcurrency bounds parallel per-like lookups.
	LookupConcurrency int
}

type Service struct {
	likes LikeReader
	farm  FarmClassifier
	cfg   Config
}

func NewService(likes LikeReader, farm FarmClassifier, cfg Config) *Service {
	if cfg.LookupConcurrency <= 0 {
		cfg.LookupConcurrency = defaultLookupConcurrency
	}

	return &Service{
		likes: likes,
		farm:  farm,
		cfg:   cfg,
	}
}

// CalculateGoodwillScore scores every like received by phone. Nothing is
// cached; each call reflects the likes visible at call time.
func (s *Service) CalculateGoodwillScore(ctx context.Context, phone string) (model.Goodwill, error) {
	received, err := s.loadReceived(ctx, phone)
	if err != nil {
		return model.Goodwill{}, err
	}

	breakdown, err := s.aggregate(ctx, received)
	if err != nil {
		return model.Goodwill{}, err
	}

	return model.Goodwill{
		Score:         breakdown.BaseScore,
		Level:         rules.GoodwillLevel(breakdown.BaseScore),
		Breakdown:     breakdown,
		QualityScores: scoreQualities(received),
	}, nil
}

// CalculateQualityScores applies only the endorsement, mother-quality and
// no-search weights to each of the top three qualities.
func (s *Service) CalculateQualityScores(ctx context.Context, phone string) ([]model.QualityScore, error) {
	received, err := s.loadReceived(ctx, phone)
	if err != nil {
		return nil, err
	}
	return scoreQualities(received), nil
}

func (s *Service) loadReceived(ctx context.Context, phone string) ([]model.Like, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, ErrValidation
	}
	if s.likes == nil {
		return nil, ErrDependenciesNil
	}

	received, err := s.likes.ListReceived(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("list received likes: %w", err)
	}
	likesvc.SortLikesChronologically(received)
	return received, nil
}

type likeSignals struct {
	returned bool
	farm     bool
}

func (s *Service) lookupSignals(ctx context.Context, received []model.Like) ([]likeSignals, error) {
	signals := make([]likeSignals, len(received))
	// one farm lookup per sender while its likes are in flight
	var farmCalls singleflight.Group

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.LookupConcurrency)
	for i, like := range received {
		g.Go(func() error {
			returned, err := s.likes.ExistsEarlier(gctx, like.ToPhoneNumber, like.FromPhoneNumber, like.CreatedAt)
			if err != nil {
				return fmt.Errorf("check return like: %w", err)
			}
			signals[i].returned = returned

			if s.farm == nil {
				return nil
			}
			farm, err, _ := farmCalls.Do(like.FromPhoneNumber, func() (any, error) {
				return s.farm.IsFarmAccount(gctx, like.FromPhoneNumber)
			})
			if err != nil {
				return fmt.Errorf("check farm account: %w", err)
			}
			signals[i].farm = farm.(bool)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return signals, nil
}

func (s *Service) aggregate(ctx context.Context, received []model.Like) (model.GoodwillBreakdown, error) {
	signals, err := s.lookupSignals(ctx, received)
	if err != nil {
		return model.GoodwillBreakdown{}, err
	}

	var breakdown model.GoodwillBreakdown
	for i, like := range received {
		value := baseValue(like.IsEndorsed, like.HasMotherQuality())

		// penalties record what each factor removed from the value it produced
		if !like.UsedSearch {
			value *= rules.NoSearchFactor
			breakdown.Penalties.NoSearch += (1 - rules.NoSearchFactor) * value
		}
		if signals[i].returned {
			value *= rules.ReturnLikeFactor
			breakdown.Penalties.ReturnLike += (1 - rules.ReturnLikeFactor) * value
		}
		if signals[i].farm {
			value *= rules.FarmAccountFactor
			breakdown.Penalties.FarmAccount += (1 - rules.FarmAccountFactor) * value
		}

		breakdown.BaseScore += value
	}

	return breakdown, nil
}

func baseValue(endorsed, motherQuality bool) float64 {
	value := 1.0
	if endorsed {
		value *= rules.EndorsementMultiplier
	}
	if motherQuality {
		value *= rules.MotherQualityMultiplier
	}
	return value
}

func scoreQualities(received []model.Like) []model.QualityScore {
	top := likesvc.RankQualities(received, 3)
	scores := make([]model.QualityScore, 0, len(top))
	for _, quality := range top {
		total := 0.0
		for _, like := range received {
			match, ok := firstMatch(like.Qualities, quality)
			if !ok {
				continue
			}

			value := baseValue(like.IsEndorsed, enums.IsMotherQuality(match.Value))
			searched := like.UsedSearch
			if match.UsedSearch != nil {
				searched = *match.UsedSearch
			}
			if !searched {
				value *= rules.NoSearchFactor
			}
			total += value
		}
		scores = append(scores, model.QualityScore{Quality: quality, Score: total})
	}
	return scores
}

func firstMatch(qualities []model.QualityWithMetadata, target model.QualityWithMetadata) (model.QualityWithMetadata, bool) {
	for _, q := range qualities {
		if q.SameAttribution(target) {
			return q, true
		}
	}
	return model.QualityWithMetadata{}, false
}
