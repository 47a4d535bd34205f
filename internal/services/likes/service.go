package likes

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ivankudzin/goodwill/internal/domain/model"
	"github.com/ivankudzin/goodwill/internal/domain/rules"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrSenderNotFound  = errors.New("sender not found")
	ErrLikeNotFound    = errors.New("like not found")
	ErrNotSender       = errors.New("like belongs to another sender")
	ErrHistoryNotFound = errors.New("like history not found")
	ErrMonthlyLimit    = errors.New("Monthly like limit reached")
	ErrDependenciesNil = errors.New("likes dependencies are not configured")
)

type TooFastError struct {
	RetryAfterSec int64
}

func (e TooFastError) Error() string {
	return "too fast"
}

func (e TooFastError) RetryAfter() int64 {
	if e.RetryAfterSec <= 0 {
		return 1
	}
	return e.RetryAfterSec
}

func IsTooFast(err error) (*TooFastError, bool) {
	var tf TooFastError
	if errors.As(err, &tf) {
		return &tf, true
	}
	return nil, false
}

type TxRunner interface {
	WithTx(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
}

type UserStore interface {
	FindByPhone(ctx context.Context, tx pgx.Tx, phone string) (model.User, error)
	LockByPhone(ctx context.Context, tx pgx.Tx, phone string) (model.User, error)
	CreatePlaceholder(ctx context.Context, tx pgx.Tx, phone string, createdAt time.Time) (model.User, error)
}

type LikeStore interface {
	Create(ctx context.Context, tx pgx.Tx, like model.Like) error
	FindByID(ctx context.Context, tx pgx.Tx, id string) (model.Like, error)
	FindLatestByPair(ctx context.Context, tx pgx.Tx, from, to string) (model.Like, error)
	Delete(ctx context.Context, tx pgx.Tx, id string) error
	SetEndorsed(ctx context.Context, tx pgx.Tx, id string, endorsed bool) (model.Like, error)
	CountSentBetween(ctx context.Context, tx pgx.Tx, phone string, start, end time.Time) (int, error)
	ListReceived(ctx context.Context, phone string) ([]model.Like, error)
	ListReceivedByPhones(ctx context.Context, phones []string) ([]model.Like, error)
}

type HistoryStore interface {
	Append(ctx context.Context, tx pgx.Tx, entry model.LikeHistory) error
	ListSent(ctx context.Context, phone string) ([]model.LikeHistory, error)
	ListReceived(ctx context.Context, phone string) ([]model.LikeHistory, error)
	ListBetween(ctx context.Context, a, b string) ([]model.LikeHistory, error)
	MostRecent(ctx context.Context, from, to string) (model.LikeHistory, error)
}

// BurstLimiter guards against rapid-fire likes on top of the period quota.
type BurstLimiter interface {
	AllowLike(ctx context.Context, phone string) (int64, bool, error)
}

type Config struct {
	Policy rules.LikePolicy
}

type Dependencies struct {
	Tx      TxRunner
	Users   UserStore
	Likes   LikeStore
	History HistoryStore
}

type Service struct {
	tx      TxRunner
	users   UserStore
	likes   LikeStore
	history HistoryStore
	burst   BurstLimiter
	cfg     Config
	now     func() time.Time
	newID   func() string
}

func NewService(deps Dependencies, cfg Config) *Service {
	if cfg.Policy == (rules.LikePolicy{}) {
		cfg.Policy = rules.DefaultLikePolicy()
	}

	return &Service{
		tx:      deps.Tx,
		users:   deps.Users,
		likes:   deps.Likes,
		history: deps.History,
		cfg:     cfg,
		now:     time.Now,
		newID:   newUUID,
	}
}

func (s *Service) AttachRateLimiter(limiter BurstLimiter) {
	s.burst = limiter
}

func (s *Service) ready() bool {
	return s.tx != nil && s.users != nil && s.likes != nil && s.history != nil
}
