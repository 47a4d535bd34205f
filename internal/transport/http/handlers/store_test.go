package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/ivankudzin/goodwill/internal/domain/model"
	pgrepo "github.com/ivankudzin/goodwill/internal/repo/postgres"
	authsvc "github.com/ivankudzin/goodwill/internal/services/auth"
	likessvc "github.com/ivankudzin/goodwill/internal/services/likes"
)

// testStore is a single-goroutine stand-in for the postgres repos.
type testStore struct {
	users   map[string]model.User
	likes   []model.Like
	history []model.LikeHistory
}

func newTestStore() *testStore {
	return &testStore{users: make(map[string]model.User)}
}

func (s *testStore) addUser(phone string, createdAt time.Time) {
	s.users[phone] = model.User{
		ID:          "user-" + phone,
		PhoneNumber: phone,
		Name:        "User " + phone,
		IsActive:    true,
		CreatedAt:   createdAt,
	}
}

func (s *testStore) likesService() *likessvc.Service {
	return likessvc.NewService(likessvc.Dependencies{
		Tx:      s,
		Users:   testUsers{s},
		Likes:   testLikes{s},
		History: testHistory{s},
	}, likessvc.Config{})
}

func (s *testStore) WithTx(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
	likes := append([]model.Like(nil), s.likes...)
	history := append([]model.LikeHistory(nil), s.history...)
	if err := fn(ctx, nil); err != nil {
		s.likes = likes
		s.history = history
		return err
	}
	return nil
}

type testUsers struct{ s *testStore }

func (u testUsers) FindByPhone(_ context.Context, _ pgx.Tx, phone string) (model.User, error) {
	user, ok := u.s.users[phone]
	if !ok {
		return model.User{}, pgrepo.ErrUserNotFound
	}
	return user, nil
}

func (u testUsers) LockByPhone(ctx context.Context, tx pgx.Tx, phone string) (model.User, error) {
	return u.FindByPhone(ctx, tx, phone)
}

func (u testUsers) CreatePlaceholder(_ context.Context, _ pgx.Tx, phone string, createdAt time.Time) (model.User, error) {
	user := model.User{ID: "user-" + phone, PhoneNumber: phone, CreatedAt: createdAt}
	u.s.users[phone] = user
	return user, nil
}

func (u testUsers) ListByPhones(_ context.Context, phones []string) ([]model.User, error) {
	out := make([]model.User, 0, len(phones))
	for _, phone := range phones {
		if user, ok := u.s.users[phone]; ok {
			out = append(out, user)
		}
	}
	return out, nil
}

type testLikes struct{ s *testStore }

func (l testLikes) Create(_ context.Context, _ pgx.Tx, like model.Like) error {
	l.s.likes = append(l.s.likes, like)
	return nil
}

func (l testLikes) FindByID(_ context.Context, _ pgx.Tx, id string) (model.Like, error) {
	for _, like := range l.s.likes {
		if like.ID == id {
			return like, nil
		}
	}
	return model.Like{}, pgrepo.ErrLikeNotFound
}

func (l testLikes) FindLatestByPair(_ context.Context, _ pgx.Tx, from, to string) (model.Like, error) {
	for i := len(l.s.likes) - 1; i >= 0; i-- {
		if l.s.likes[i].FromPhoneNumber == from && l.s.likes[i].ToPhoneNumber == to {
			return l.s.likes[i], nil
		}
	}
	return model.Like{}, pgrepo.ErrLikeNotFound
}

func (l testLikes) Delete(_ context.Context, _ pgx.Tx, id string) error {
	for i, like := range l.s.likes {
		if like.ID == id {
			l.s.likes = append(l.s.likes[:i:i], l.s.likes[i+1:]...)
			return nil
		}
	}
	return pgrepo.ErrLikeNotFound
}

func (l testLikes) SetEndorsed(_ context.Context, _ pgx.Tx, id string, endorsed bool) (model.Like, error) {
	for i := range l.s.likes {
		if l.s.likes[i].ID == id {
			l.s.likes[i].IsEndorsed = endorsed
			return l.s.likes[i], nil
		}
	}
	return model.Like{}, pgrepo.ErrLikeNotFound
}

func (l testLikes) CountSentBetween(_ context.Context, _ pgx.Tx, phone string, start, end time.Time) (int, error) {
	count := 0
	for _, like := range l.s.likes {
		if like.FromPhoneNumber == phone && !like.CreatedAt.Before(start) && like.CreatedAt.Before(end) {
			count++
		}
	}
	return count, nil
}

func (l testLikes) ListReceived(_ context.Context, phone string) ([]model.Like, error) {
	out := make([]model.Like, 0)
	for _, like := range l.s.likes {
		if like.ToPhoneNumber == phone {
			out = append(out, like)
		}
	}
	return out, nil
}

func (l testLikes) ListReceivedByPhones(ctx context.Context, phones []string) ([]model.Like, error) {
	out := make([]model.Like, 0)
	for _, phone := range phones {
		items, _ := l.ListReceived(ctx, phone)
		out = append(out, items...)
	}
	return out, nil
}

func (l testLikes) ExistsEarlier(_ context.Context, from, to string, before time.Time) (bool, error) {
	for _, like := range l.s.likes {
		if like.FromPhoneNumber == from && like.ToPhoneNumber == to && like.CreatedAt.Before(before) {
			return true, nil
		}
	}
	return false, nil
}

type testHistory struct{ s *testStore }

func (h testHistory) Append(_ context.Context, _ pgx.Tx, entry model.LikeHistory) error {
	h.s.history = append(h.s.history, entry)
	return nil
}

func (h testHistory) newestFirst(keep func(model.LikeHistory) bool) []model.LikeHistory {
	out := make([]model.LikeHistory, 0)
	for i := len(h.s.history) - 1; i >= 0; i-- {
		if entry := h.s.history[i]; keep(entry) {
			out = append(out, entry)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (h testHistory) ListSent(_ context.Context, phone string) ([]model.LikeHistory, error) {
	return h.newestFirst(func(e model.LikeHistory) bool {
		return e.FromPhoneNumber == phone && e.Action == "LIKE"
	}), nil
}

func (h testHistory) ListReceived(_ context.Context, phone string) ([]model.LikeHistory, error) {
	return h.newestFirst(func(e model.LikeHistory) bool {
		return e.ToPhoneNumber == phone && e.Action == "LIKE"
	}), nil
}

func (h testHistory) ListBetween(_ context.Context, a, b string) ([]model.LikeHistory, error) {
	return h.newestFirst(func(e model.LikeHistory) bool {
		return (e.FromPhoneNumber == a && e.ToPhoneNumber == b) || (e.FromPhoneNumber == b && e.ToPhoneNumber == a)
	}), nil
}

func (h testHistory) MostRecent(ctx context.Context, from, to string) (model.LikeHistory, error) {
	items := h.newestFirst(func(e model.LikeHistory) bool {
		return e.FromPhoneNumber == from && e.ToPhoneNumber == to
	})
	if len(items) == 0 {
		return model.LikeHistory{}, pgrepo.ErrHistoryNotFound
	}
	return items[0], nil
}

// serve runs handler as phone with the given chi URL params.
func serve(t *testing.T, handler http.HandlerFunc, method, phone string, body any, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, "/", reader)
	ctx := req.Context()
	if phone != "" {
		ctx = authsvc.WithIdentity(ctx, authsvc.Identity{PhoneNumber: phone})
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}

	rr := httptest.NewRecorder()
	handler(rr, req.WithContext(ctx))
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), target); err != nil {
		t.Fatalf("decode response: %v (body=%s)", err, rr.Body.String())
	}
}
