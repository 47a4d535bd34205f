package likes

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ivankudzin/goodwill/internal/domain/enums"
	"github.com/ivankudzin/goodwill/internal/domain/model"
	pgrepo "github.com/ivankudzin/goodwill/internal/repo/postgres"
)

// memoryDB keeps rows in slices and restores a snapshot when a transaction fails.
type memoryDB struct {
	users       map[string]model.User
	likes       []model.Like
	history     []model.LikeHistory
	failHistory error
}

func newMemoryDB() *memoryDB {
	return &memoryDB{users: make(map[string]model.User)}
}

func (db *memoryDB) WithTx(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
	users := make(map[string]model.User, len(db.users))
	for k, v := range db.users {
		users[k] = v
	}
	likes := append([]model.Like(nil), db.likes...)
	history := append([]model.LikeHistory(nil), db.history...)

	if err := fn(ctx, nil); err != nil {
		db.users = users
		db.likes = likes
		db.history = history
		return err
	}
	return nil
}

func (db *memoryDB) addUser(phone string, createdAt time.Time) model.User {
	user := model.User{
		ID:          "user-" + phone,
		PhoneNumber: phone,
		IsActive:    true,
		CreatedAt:   createdAt,
	}
	db.users[phone] = user
	return user
}

func (db *memoryDB) historyActions() []enums.LikeAction {
	actions := make([]enums.LikeAction, 0, len(db.history))
	for _, h := range db.history {
		actions = append(actions, h.Action)
	}
	return actions
}

func (db *memoryDB) deps() Dependencies {
	return Dependencies{
		Tx:      db,
		Users:   memoryUsers{db},
		Likes:   memoryLikes{db},
		History: memoryHistory{db},
	}
}

type memoryUsers struct{ db *memoryDB }

func (s memoryUsers) FindByPhone(_ context.Context, _ pgx.Tx, phone string) (model.User, error) {
	user, ok := s.db.users[phone]
	if !ok {
		return model.User{}, pgrepo.ErrUserNotFound
	}
	return user, nil
}

func (s memoryUsers) LockByPhone(ctx context.Context, tx pgx.Tx, phone string) (model.User, error) {
	return s.FindByPhone(ctx, tx, phone)
}

func (s memoryUsers) CreatePlaceholder(_ context.Context, _ pgx.Tx, phone string, createdAt time.Time) (model.User, error) {
	if user, ok := s.db.users[phone]; ok {
		return user, nil
	}
	user := model.User{ID: "user-" + phone, PhoneNumber: phone, IsActive: false, CreatedAt: createdAt}
	s.db.users[phone] = user
	return user, nil
}

type memoryLikes struct{ db *memoryDB }

func (s memoryLikes) Create(_ context.Context, _ pgx.Tx, like model.Like) error {
	s.db.likes = append(s.db.likes, like)
	return nil
}

func (s memoryLikes) FindByID(_ context.Context, _ pgx.Tx, id string) (model.Like, error) {
	for _, like := range s.db.likes {
		if like.ID == id {
			return like, nil
		}
	}
	return model.Like{}, pgrepo.ErrLikeNotFound
}

func (s memoryLikes) FindLatestByPair(_ context.Context, _ pgx.Tx, from, to string) (model.Like, error) {
	var (
		latest model.Like
		found  bool
	)
	for _, like := range s.db.likes {
		if like.FromPhoneNumber != from || like.ToPhoneNumber != to {
			continue
		}
		if !found || !like.CreatedAt.Before(latest.CreatedAt) {
			latest = like
			found = true
		}
	}
	if !found {
		return model.Like{}, pgrepo.ErrLikeNotFound
	}
	return latest, nil
}

func (s memoryLikes) Delete(_ context.Context, _ pgx.Tx, id string) error {
	for i, like := range s.db.likes {
		if like.ID == id {
			s.db.likes = append(s.db.likes[:i:i], s.db.likes[i+1:]...)
			return nil
		}
	}
	return pgrepo.ErrLikeNotFound
}

func (s memoryLikes) SetEndorsed(_ context.Context, _ pgx.Tx, id string, endorsed bool) (model.Like, error) {
	for i := range s.db.likes {
		if s.db.likes[i].ID == id {
			s.db.likes[i].IsEndorsed = endorsed
			return s.db.likes[i], nil
		}
	}
	return model.Like{}, pgrepo.ErrLikeNotFound
}

func (s memoryLikes) CountSentBetween(_ context.Context, _ pgx.Tx, phone string, start, end time.Time) (int, error) {
	count := 0
	for _, like := range s.db.likes {
		if like.FromPhoneNumber == phone && !like.CreatedAt.Before(start) && like.CreatedAt.Before(end) {
			count++
		}
	}
	return count, nil
}

func (s memoryLikes) ListReceived(_ context.Context, phone string) ([]model.Like, error) {
	items := make([]model.Like, 0)
	for _, like := range s.db.likes {
		if like.ToPhoneNumber == phone {
			items = append(items, like)
		}
	}
	return items, nil
}

func (s memoryLikes) ListReceivedByPhones(_ context.Context, phones []string) ([]model.Like, error) {
	wanted := make(map[string]struct{}, len(phones))
	for _, p := range phones {
		wanted[p] = struct{}{}
	}
	items := make([]model.Like, 0)
	// reverse insertion order so callers cannot rely on fetch order
	for i := len(s.db.likes) - 1; i >= 0; i-- {
		if _, ok := wanted[s.db.likes[i].ToPhoneNumber]; ok {
			items = append(items, s.db.likes[i])
		}
	}
	return items, nil
}

type memoryHistory struct{ db *memoryDB }

func (s memoryHistory) Append(_ context.Context, _ pgx.Tx, entry model.LikeHistory) error {
	if s.db.failHistory != nil {
		return s.db.failHistory
	}
	s.db.history = append(s.db.history, entry)
	return nil
}

func (s memoryHistory) filter(keep func(model.LikeHistory) bool) []model.LikeHistory {
	// newest insert first, so equal timestamps keep reverse insertion order
	items := make([]model.LikeHistory, 0)
	for i := len(s.db.history) - 1; i >= 0; i-- {
		if h := s.db.history[i]; keep(h) {
			items = append(items, h)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items
}

func (s memoryHistory) ListSent(_ context.Context, phone string) ([]model.LikeHistory, error) {
	return s.filter(func(h model.LikeHistory) bool {
		return h.FromPhoneNumber == phone && h.Action == enums.LikeActionLike
	}), nil
}

func (s memoryHistory) ListReceived(_ context.Context, phone string) ([]model.LikeHistory, error) {
	return s.filter(func(h model.LikeHistory) bool {
		return h.ToPhoneNumber == phone && h.Action == enums.LikeActionLike
	}), nil
}

func (s memoryHistory) ListBetween(_ context.Context, a, b string) ([]model.LikeHistory, error) {
	return s.filter(func(h model.LikeHistory) bool {
		return (h.FromPhoneNumber == a && h.ToPhoneNumber == b) || (h.FromPhoneNumber == b && h.ToPhoneNumber == a)
	}), nil
}

func (s memoryHistory) MostRecent(_ context.Context, from, to string) (model.LikeHistory, error) {
	items := s.filter(func(h model.LikeHistory) bool {
		return h.FromPhoneNumber == from && h.ToPhoneNumber == to
	})
	if len(items) == 0 {
		return model.LikeHistory{}, pgrepo.ErrHistoryNotFound
	}
	return items[0], nil
}
