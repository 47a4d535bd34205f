package likes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ivankudzin/goodwill/internal/domain/model"
	"github.com/ivankudzin/goodwill/internal/domain/rules"
	pgrepo "github.com/ivankudzin/goodwill/internal/repo/postgres"
)

var ErrUserNotFound = errors.New("user not found")

// GetLikesInCurrentPeriod counts likes sent by sender inside the rolling
// period anchored at the sender's creation time. tx may be nil.
func (s *Service) GetLikesInCurrentPeriod(ctx context.Context, tx pgx.Tx, sender model.User) (int, error) {
	if s.likes == nil {
		return 0, ErrDependenciesNil
	}

	period := rules.CurrentPeriod(sender.CreatedAt, s.now().UTC(), s.cfg.Policy)
	count, err := s.likes.CountSentBetween(ctx, tx, sender.PhoneNumber, period.Start, period.End)
	if err != nil {
		return 0, fmt.Errorf("count likes in period: %w", err)
	}
	return count, nil
}

func (s *Service) CheckQuota(ctx context.Context, tx pgx.Tx, sender model.User) error {
	used, err := s.GetLikesInCurrentPeriod(ctx, tx, sender)
	if err != nil {
		return err
	}

	if used >= rules.LikeLimit(sender.CreatedAt, s.now().UTC(), s.cfg.Policy) {
		return ErrMonthlyLimit
	}
	return nil
}

func (s *Service) GetRemainingLikesAndRefreshDate(ctx context.Context, user model.User) (model.LikeQuota, error) {
	used, err := s.GetLikesInCurrentPeriod(ctx, nil, user)
	if err != nil {
		return model.LikeQuota{}, err
	}

	now := s.now().UTC()
	limit := rules.LikeLimit(user.CreatedAt, now, s.cfg.Policy)
	return model.LikeQuota{
		RemainingLikes:   rules.RemainingLikes(limit, used),
		LikesRefreshedAt: rules.NextRefreshAt(user.CreatedAt, now, s.cfg.Policy),
	}, nil
}

func (s *Service) GetQuotaByPhone(ctx context.Context, phone string) (model.LikeQuota, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return model.LikeQuota{}, ErrValidation
	}
	if s.users == nil {
		return model.LikeQuota{}, ErrDependenciesNil
	}

	user, err := s.users.FindByPhone(ctx, nil, phone)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return model.LikeQuota{}, ErrUserNotFound
		}
		return model.LikeQuota{}, fmt.Errorf("find user: %w", err)
	}

	return s.GetRemainingLikesAndRefreshDate(ctx, user)
}

type burstInspector interface {
	RetryAfterLike(ctx context.Context, phone string) (int64, error)
}

// BurstRetryAfter is the wait in seconds before phone may like again under
// the burst limiter, or 0 when nothing blocks it.
func (s *Service) BurstRetryAfter(ctx context.Context, phone string) (int64, error) {
	inspector, ok := s.burst.(burstInspector)
	if !ok {
		return 0, nil
	}
	retryAfter, err := inspector.RetryAfterLike(ctx, phone)
	if err != nil {
		return 0, fmt.Errorf("read like rate limit: %w", err)
	}
	return retryAfter, nil
}
