package likes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ivankudzin/goodwill/internal/domain/enums"
	"github.com/ivankudzin/goodwill/internal/domain/model"
	pgrepo "github.com/ivankudzin/goodwill/internal/repo/postgres"
)

type CreateLikeInput struct {
	FromPhoneNumber string
	ToPhoneNumber   string
	Qualities       []model.QualityWithMetadata
	IsEndorsed      bool
	UsedSearch      bool
	IsMotherQuality bool
}

func newUUID() string {
	return uuid.NewString()
}

func (in CreateLikeInput) normalize() (CreateLikeInput, error) {
	in.FromPhoneNumber = strings.TrimSpace(in.FromPhoneNumber)
	in.ToPhoneNumber = strings.TrimSpace(in.ToPhoneNumber)
	if in.FromPhoneNumber == "" || in.ToPhoneNumber == "" {
		return CreateLikeInput{}, ErrValidation
	}

	qualities := make([]model.QualityWithMetadata, 0, len(in.Qualities))
	for _, q := range in.Qualities {
		q.Value = strings.TrimSpace(q.Value)
		if q.Value == "" || !q.Category.Valid() {
			return CreateLikeInput{}, ErrValidation
		}
		qualities = append(qualities, q)
	}
	in.Qualities = qualities
	return in, nil
}

// CreateLike records a like from an existing sender. An unknown recipient is
// provisioned as an inactive placeholder. Quota check, insert and audit row
// share one transaction, and the sender row stays locked until commit.
func (s *Service) CreateLike(ctx context.Context, input CreateLikeInput) (model.Like, error) {
	in, err := input.normalize()
	if err != nil {
		return model.Like{}, err
	}
	if !s.ready() {
		return model.Like{}, ErrDependenciesNil
	}

	if s.burst != nil {
		retryAfter, allowed, err := s.burst.AllowLike(ctx, in.FromPhoneNumber)
		if err != nil {
			return model.Like{}, fmt.Errorf("consume like rate limit: %w", err)
		}
		if !allowed {
			return model.Like{}, TooFastError{RetryAfterSec: retryAfter}
		}
	}

	now := s.now().UTC()
	like := model.Like{
		ID:              s.newID(),
		FromPhoneNumber: in.FromPhoneNumber,
		ToPhoneNumber:   in.ToPhoneNumber,
		IsEndorsed:      in.IsEndorsed,
		UsedSearch:      in.UsedSearch,
		IsMotherQuality: in.IsMotherQuality,
		Qualities:       in.Qualities,
		IsNotified:      false,
		CreatedAt:       now,
	}

	err = s.tx.WithTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		sender, err := s.users.LockByPhone(txCtx, tx, like.FromPhoneNumber)
		if err != nil {
			if errors.Is(err, pgrepo.ErrUserNotFound) {
				return ErrSenderNotFound
			}
			return fmt.Errorf("lock sender: %w", err)
		}

		if _, err := s.users.FindByPhone(txCtx, tx, like.ToPhoneNumber); err != nil {
			if !errors.Is(err, pgrepo.ErrUserNotFound) {
				return fmt.Errorf("find recipient: %w", err)
			}
			if _, err := s.users.CreatePlaceholder(txCtx, tx, like.ToPhoneNumber, now); err != nil {
				return fmt.Errorf("provision recipient: %w", err)
			}
		}

		if err := s.CheckQuota(txCtx, tx, sender); err != nil {
			return err
		}

		if err := s.likes.Create(txCtx, tx, like); err != nil {
			return fmt.Errorf("create like: %w", err)
		}

		return s.appendHistory(txCtx, tx, like, enums.LikeActionLike, now)
	})
	if err != nil {
		return model.Like{}, err
	}

	return like, nil
}

func (s *Service) Unlike(ctx context.Context, likeID string) error {
	return s.remove(ctx, s.byID(likeID))
}

// UnlikeAsSender removes the like only when sender sent it.
func (s *Service) UnlikeAsSender(ctx context.Context, sender, likeID string) error {
	return s.remove(ctx, sentBy(sender, s.byID(likeID)))
}

func (s *Service) UnlikeByPair(ctx context.Context, from, to string) error {
	return s.remove(ctx, s.byPair(from, to))
}

func (s *Service) Endorse(ctx context.Context, likeID string) (model.Like, error) {
	return s.setEndorsed(ctx, s.byID(likeID), true)
}

func (s *Service) EndorseAsSender(ctx context.Context, sender, likeID string) (model.Like, error) {
	return s.setEndorsed(ctx, sentBy(sender, s.byID(likeID)), true)
}

func (s *Service) EndorseByPair(ctx context.Context, from, to string) (model.Like, error) {
	return s.setEndorsed(ctx, s.byPair(from, to), true)
}

func (s *Service) UnEndorse(ctx context.Context, likeID string) (model.Like, error) {
	return s.setEndorsed(ctx, s.byID(likeID), false)
}

func (s *Service) UnEndorseAsSender(ctx context.Context, sender, likeID string) (model.Like, error) {
	return s.setEndorsed(ctx, sentBy(sender, s.byID(likeID)), false)
}

func (s *Service) UnEndorseByPair(ctx context.Context, from, to string) (model.Like, error) {
	return s.setEndorsed(ctx, s.byPair(from, to), false)
}

// GetLikes lists likes received by phone, oldest first.
func (s *Service) GetLikes(ctx context.Context, phone string) ([]model.Like, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, ErrValidation
	}
	if s.likes == nil {
		return nil, ErrDependenciesNil
	}

	items, err := s.likes.ListReceived(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("list received likes: %w", err)
	}
	return items, nil
}

type likeFinder func(ctx context.Context, tx pgx.Tx) (model.Like, error)

func (s *Service) byID(likeID string) likeFinder {
	likeID = strings.TrimSpace(likeID)
	return func(ctx context.Context, tx pgx.Tx) (model.Like, error) {
		if likeID == "" {
			return model.Like{}, ErrValidation
		}
		return s.likes.FindByID(ctx, tx, likeID)
	}
}

func (s *Service) byPair(from, to string) likeFinder {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	return func(ctx context.Context, tx pgx.Tx) (model.Like, error) {
		if from == "" || to == "" {
			return model.Like{}, ErrValidation
		}
		return s.likes.FindLatestByPair(ctx, tx, from, to)
	}
}

// sentBy rejects likes whose sender is not sender. The check runs on the row
// read inside the transaction.
func sentBy(sender string, finder likeFinder) likeFinder {
	sender = strings.TrimSpace(sender)
	return func(ctx context.Context, tx pgx.Tx) (model.Like, error) {
		if sender == "" {
			return model.Like{}, ErrValidation
		}
		like, err := finder(ctx, tx)
		if err != nil {
			return model.Like{}, err
		}
		if like.FromPhoneNumber != sender {
			return model.Like{}, ErrNotSender
		}
		return like, nil
	}
}

func (s *Service) find(ctx context.Context, tx pgx.Tx, finder likeFinder) (model.Like, error) {
	like, err := finder(ctx, tx)
	if err != nil {
		if errors.Is(err, pgrepo.ErrLikeNotFound) {
			return model.Like{}, ErrLikeNotFound
		}
		if errors.Is(err, ErrValidation) || errors.Is(err, ErrNotSender) {
			return model.Like{}, err
		}
		return model.Like{}, fmt.Errorf("find like: %w", err)
	}
	return like, nil
}

func (s *Service) remove(ctx context.Context, finder likeFinder) error {
	if !s.ready() {
		return ErrDependenciesNil
	}

	now := s.now().UTC()
	return s.tx.WithTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		like, err := s.find(txCtx, tx, finder)
		if err != nil {
			return err
		}

		if err := s.likes.Delete(txCtx, tx, like.ID); err != nil {
			if errors.Is(err, pgrepo.ErrLikeNotFound) {
				return ErrLikeNotFound
			}
			return fmt.Errorf("delete like: %w", err)
		}

		return s.appendHistory(txCtx, tx, like, enums.LikeActionUnlike, now)
	})
}

// setEndorsed has no no-op guard: repeating it appends another audit row.
func (s *Service) setEndorsed(ctx context.Context, finder likeFinder, endorsed bool) (model.Like, error) {
	if !s.ready() {
		return model.Like{}, ErrDependenciesNil
	}

	action := enums.LikeActionEndorse
	if !endorsed {
		action = enums.LikeActionUnendorse
	}

	now := s.now().UTC()
	var updated model.Like
	err := s.tx.WithTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		like, err := s.find(txCtx, tx, finder)
		if err != nil {
			return err
		}

		updated, err = s.likes.SetEndorsed(txCtx, tx, like.ID, endorsed)
		if err != nil {
			if errors.Is(err, pgrepo.ErrLikeNotFound) {
				return ErrLikeNotFound
			}
			return fmt.Errorf("update endorsement: %w", err)
		}

		return s.appendHistory(txCtx, tx, like, action, now)
	})
	if err != nil {
		return model.Like{}, err
	}

	return updated, nil
}

func (s *Service) appendHistory(ctx context.Context, tx pgx.Tx, like model.Like, action enums.LikeAction, at time.Time) error {
	entry := model.LikeHistory{
		ID:              s.newID(),
		FromPhoneNumber: like.FromPhoneNumber,
		ToPhoneNumber:   like.ToPhoneNumber,
		Action:          action,
		CreatedAt:       at,
	}
	if action == enums.LikeActionLike {
		entry.Qualities = append([]model.QualityWithMetadata{}, like.Qualities...)
	}

	if err := s.history.Append(ctx, tx, entry); err != nil {
		return fmt.Errorf("append like history: %w", err)
	}
	return nil
}
