package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ivankudzin/goodwill/internal/domain/model"
	pgrepo "github.com/ivankudzin/goodwill/internal/repo/postgres"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("user not found")
	ErrDependenciesNil = errors.New("users dependencies are not configured")
)

const maxSearchPhones = 200

type Store interface {
	FindByPhone(ctx context.Context, tx pgx.Tx, phone string) (model.User, error)
	ListByPhones(ctx context.Context, phones []string) ([]model.User, error)
}

type GoodwillScorer interface {
	CalculateGoodwillScore(ctx context.Context, phone string) (model.Goodwill, error)
}

type LikesReader interface {
	GetTopThreeQualities(ctx context.Context, phone string) ([]model.QualityWithMetadata, error)
	GetTopThreeQualitiesPerUser(ctx context.Context, phones []string) (map[string][]model.QualityWithMetadata, error)
	GetRemainingLikesAndRefreshDate(ctx context.Context, user model.User) (model.LikeQuota, error)
}

type URLSigner interface {
	PresignRead(ctx context.Context, key string) (string, error)
}

type Dependencies struct {
	Store    Store
	Goodwill GoodwillScorer
	Likes    LikesReader
}

// SelfView is what the owner of an account sees about themselves.
type SelfView struct {
	User              model.User
	ProfilePictureURL string
	Goodwill          model.Goodwill
	Quota             model.LikeQuota
	TopQualities      []model.QualityWithMetadata
}

type PublicView struct {
	PhoneNumber       string
	Name              string
	ProfilePictureURL string
	GoodwillScore     float64
	GoodwillLevel     string
	TopQualities      []model.QualityWithMetadata
}

type SearchResult struct {
	PhoneNumber       string
	Name              string
	ProfilePictureURL string
	TopQualities      []model.QualityWithMetadata
}

type Service struct {
	store    Store
	goodwill GoodwillScorer
	likes    LikesReader
	signer   URLSigner
}

func NewService(deps Dependencies) *Service {
	return &Service{
		store:    deps.Store,
		goodwill: deps.Goodwill,
		likes:    deps.Likes,
	}
}

func (s *Service) AttachURLSigner(signer URLSigner) {
	s.signer = signer
}

func (s *Service) Self(ctx context.Context, phone string) (SelfView, error) {
	user, err := s.find(ctx, phone)
	if err != nil {
		return SelfView{}, err
	}

	goodwill, err := s.goodwill.CalculateGoodwillScore(ctx, user.PhoneNumber)
	if err != nil {
		return SelfView{}, fmt.Errorf("calculate goodwill: %w", err)
	}
	quota, err := s.likes.GetRemainingLikesAndRefreshDate(ctx, user)
	if err != nil {
		return SelfView{}, fmt.Errorf("load like quota: %w", err)
	}
	top, err := s.likes.GetTopThreeQualities(ctx, user.PhoneNumber)
	if err != nil {
		return SelfView{}, fmt.Errorf("load top qualities: %w", err)
	}

	return SelfView{
		User:              user,
		ProfilePictureURL: s.pictureURL(ctx, user.ProfilePicture),
		Goodwill:          goodwill,
		Quota:             quota,
		TopQualities:      top,
	}, nil
}

func (s *Service) ByPhoneNumber(ctx context.Context, phone string) (PublicView, error) {
	user, err := s.find(ctx, phone)
	if err != nil {
		return PublicView{}, err
	}

	goodwill, err := s.goodwill.CalculateGoodwillScore(ctx, user.PhoneNumber)
	if err != nil {
		return PublicView{}, fmt.Errorf("calculate goodwill: %w", err)
	}
	top, err := s.likes.GetTopThreeQualities(ctx, user.PhoneNumber)
	if err != nil {
		return PublicView{}, fmt.Errorf("load top qualities: %w", err)
	}

	return PublicView{
		PhoneNumber:       user.PhoneNumber,
		Name:              user.Name,
		ProfilePictureURL: s.pictureURL(ctx, user.ProfilePicture),
		GoodwillScore:     goodwill.Score,
		GoodwillLevel:     goodwill.Level,
		TopQualities:      top,
	}, nil
}

// SearchByPhoneNumbers returns the known users among phones, with qualities
// loaded in a single batch. Unknown numbers are skipped.
func (s *Service) SearchByPhoneNumbers(ctx context.Context, phones []string) ([]SearchResult, error) {
	if len(phones) == 0 || len(phones) > maxSearchPhones {
		return nil, ErrValidation
	}
	if s.store == nil || s.likes == nil {
		return nil, ErrDependenciesNil
	}

	cleaned := make([]string, 0, len(phones))
	for _, phone := range phones {
		if phone = strings.TrimSpace(phone); phone != "" {
			cleaned = append(cleaned, phone)
		}
	}
	if len(cleaned) == 0 {
		return nil, ErrValidation
	}

	found, err := s.store.ListByPhones(ctx, cleaned)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	foundPhones := make([]string, 0, len(found))
	for _, user := range found {
		foundPhones = append(foundPhones, user.PhoneNumber)
	}
	qualities, err := s.likes.GetTopThreeQualitiesPerUser(ctx, foundPhones)
	if err != nil {
		return nil, fmt.Errorf("load top qualities: %w", err)
	}

	results := make([]SearchResult, 0, len(found))
	for _, user := range found {
		results = append(results, SearchResult{
			PhoneNumber:       user.PhoneNumber,
			Name:              user.Name,
			ProfilePictureURL: s.pictureURL(ctx, user.ProfilePicture),
			TopQualities:      qualities[user.PhoneNumber],
		})
	}

	return results, nil
}

func (s *Service) find(ctx context.Context, phone string) (model.User, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return model.User{}, ErrValidation
	}
	if s.store == nil || s.goodwill == nil || s.likes == nil {
		return model.User{}, ErrDependenciesNil
	}

	user, err := s.store.FindByPhone(ctx, nil, phone)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// pictureURL leaves the URL empty when signing fails so a storage outage
// does not hide the profile.
func (s *Service) pictureURL(ctx context.Context, key string) string {
	if s.signer == nil || strings.TrimSpace(key) == "" {
		return ""
	}
	signed, err := s.signer.PresignRead(ctx, key)
	if err != nil {
		return ""
	}
	return signed
}
