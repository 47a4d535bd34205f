package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	redrepo "github.com/ivankudzin/goodwill/internal/repo/redis"
	ratesvc "github.com/ivankudzin/goodwill/internal/services/rate"
	"github.com/ivankudzin/goodwill/internal/transport/http/dto"
)

func likeBody(from, to string) dto.CreateLikeRequest {
	return dto.CreateLikeRequest{
		FromPhoneNumber: from,
		ToPhoneNumber:   to,
		Qualities:       []dto.QualityPayload{{Value: "Kind", Category: "💛"}},
		UsedSearch:      true,
	}
}

func TestCreateLikeThenReceived(t *testing.T) {
	store := newTestStore()
	store.addUser("+100", time.Now().Add(-time.Hour))
	h := NewLikesHandler(store.likesService(), zap.NewNop())

	rr := serve(t, h.Create, http.MethodPost, "+100", likeBody("+100", "+200"), nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got %d want %d (%s)", rr.Code, http.StatusCreated, rr.Body.String())
	}
	var created dto.LikeResponse
	decodeBody(t, rr, &created)
	if created.ID == "" || created.ToPhoneNumber != "+200" || created.IsNotified {
		t.Fatalf("unexpected like: %+v", created)
	}
	if _, ok := store.users["+200"]; !ok {
		t.Fatalf("recipient placeholder was not created")
	}

	rr = serve(t, h.Received, http.MethodGet, "+200", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}
	var list dto.LikesListResponse
	decodeBody(t, rr, &list)
	if len(list.Items) != 1 || list.Items[0].ID != created.ID {
		t.Fatalf("unexpected received likes: %+v", list.Items)
	}
	if len(list.Items[0].Qualities) != 1 || list.Items[0].Qualities[0].Value != "Kind" {
		t.Fatalf("qualities not returned: %+v", list.Items[0].Qualities)
	}
}

func TestCreateLikeRequiresIdentity(t *testing.T) {
	h := NewLikesHandler(newTestStore().likesService(), zap.NewNop())

	rr := serve(t, h.Create, http.MethodPost, "", likeBody("+100", "+200"), nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestCreateLikeRejectsForeignSender(t *testing.T) {
	store := newTestStore()
	store.addUser("+100", time.Now())
	h := NewLikesHandler(store.likesService(), zap.NewNop())

	rr := serve(t, h.Create, http.MethodPost, "+999", likeBody("+100", "+200"), nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusForbidden)
	}
	if len(store.likes) != 0 {
		t.Fatalf("like must not be stored")
	}
}

func TestCreateLikeUnknownSender(t *testing.T) {
	h := NewLikesHandler(newTestStore().likesService(), zap.NewNop())

	rr := serve(t, h.Create, http.MethodPost, "+100", likeBody("+100", "+200"), nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNotFound)
	}
	var payload struct {
		Code string `json:"code"`
	}
	decodeBody(t, rr, &payload)
	if payload.Code != "SENDER_NOT_FOUND" {
		t.Fatalf("unexpected code: %q", payload.Code)
	}
}

func TestCreateLikeMapsMonthlyLimit(t *testing.T) {
	store := newTestStore()
	store.addUser("+100", time.Now().Add(-48*time.Hour))
	h := NewLikesHandler(store.likesService(), zap.NewNop())

	for i, to := range []string{"+201", "+202", "+203"} {
		if rr := serve(t, h.Create, http.MethodPost, "+100", likeBody("+100", to), nil); rr.Code != http.StatusCreated {
			t.Fatalf("like %d: unexpected status %d", i, rr.Code)
		}
	}

	rr := serve(t, h.Create, http.MethodPost, "+100", likeBody("+100", "+204"), nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusBadRequest)
	}
	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	decodeBody(t, rr, &payload)
	if payload.Code != "MONTHLY_LIMIT_REACHED" || payload.Message != "Monthly like limit reached" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if len(store.likes) != 3 || len(store.history) != 3 {
		t.Fatalf("rejected like left rows behind: likes=%d history=%d", len(store.likes), len(store.history))
	}
}

func TestCreateLikeReturnsTooFastOnBurst(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	redisClient := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer func() { _ = redisClient.Close() }()

	store := newTestStore()
	store.addUser("+100", time.Now())
	svc := store.likesService()
	svc.AttachRateLimiter(ratesvc.NewLimiter(redrepo.NewRateRepo(redisClient), 20, 2))
	h := NewLikesHandler(svc, zap.NewNop())

	for _, to := range []string{"+201", "+202"} {
		if rr := serve(t, h.Create, http.MethodPost, "+100", likeBody("+100", to), nil); rr.Code != http.StatusCreated {
			t.Fatalf("unexpected status before burst: %d", rr.Code)
		}
	}

	rr := serve(t, h.Create, http.MethodPost, "+100", likeBody("+100", "+203"), nil)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusTooManyRequests)
	}
	var payload struct {
		Code          string `json:"code"`
		RetryAfterSec int64  `json:"retry_after_sec"`
	}
	decodeBody(t, rr, &payload)
	if payload.Code != "TOO_FAST" || payload.RetryAfterSec <= 0 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestUnlikeAndEndorseByID(t *testing.T) {
	store := newTestStore()
	store.addUser("+100", time.Now())
	h := NewLikesHandler(store.likesService(), zap.NewNop())

	rr := serve(t, h.Create, http.MethodPost, "+100", likeBody("+100", "+200"), nil)
	var created dto.LikeResponse
	decodeBody(t, rr, &created)

	rr = serve(t, h.Endorse, http.MethodPut, "+100", nil, map[string]string{"id": created.ID})
	if rr.Code != http.StatusOK {
		t.Fatalf("endorse: unexpected status %d", rr.Code)
	}
	var endorsed dto.LikeResponse
	decodeBody(t, rr, &endorsed)
	if !endorsed.IsEndorsed {
		t.Fatalf("like was not endorsed")
	}

	rr = serve(t, h.Unlike, http.MethodDelete, "+100", nil, map[string]string{"id": created.ID})
	if rr.Code != http.StatusOK {
		t.Fatalf("unlike: unexpected status %d", rr.Code)
	}
	if len(store.likes) != 0 {
		t.Fatalf("like still stored after unlike")
	}

	rr = serve(t, h.Unlike, http.MethodDelete, "+100", nil, map[string]string{"id": created.ID})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("second unlike: got %d want %d", rr.Code, http.StatusNotFound)
	}
}

func TestLikeRoutesByIDRequireSender(t *testing.T) {
	store := newTestStore()
	store.addUser("+100", time.Now())
	h := NewLikesHandler(store.likesService(), zap.NewNop())

	rr := serve(t, h.Create, http.MethodPost, "+100", likeBody("+100", "+200"), nil)
	var created dto.LikeResponse
	decodeBody(t, rr, &created)
	params := map[string]string{"id": created.ID}

	// the recipient and an unrelated user are both rejected
	for _, caller := range []string{"+200", "+300"} {
		for name, handler := range map[string]http.HandlerFunc{
			"endorse":   h.Endorse,
			"unendorse": h.UnEndorse,
			"unlike":    h.Unlike,
		} {
			rr = serve(t, handler, http.MethodPut, caller, nil, params)
			if rr.Code != http.StatusForbidden {
				t.Fatalf("%s as %s: got %d want %d", name, caller, rr.Code, http.StatusForbidden)
			}
			var payload struct {
				Code string `json:"code"`
			}
			decodeBody(t, rr, &payload)
			if payload.Code != "FORBIDDEN" {
				t.Fatalf("%s as %s: unexpected code %q", name, caller, payload.Code)
			}
		}
	}

	if len(store.likes) != 1 {
		t.Fatalf("like removed by a foreign caller")
	}
	for _, like := range store.likes {
		if like.IsEndorsed {
			t.Fatalf("like endorsed by a foreign caller")
		}
	}
	if len(store.history) != 1 {
		t.Fatalf("foreign calls appended history: %d rows", len(store.history))
	}
}

func TestPairRoutesRequireSender(t *testing.T) {
	store := newTestStore()
	store.addUser("+100", time.Now())
	h := NewLikesHandler(store.likesService(), zap.NewNop())
	serve(t, h.Create, http.MethodPost, "+100", likeBody("+100", "+200"), nil)

	params := map[string]string{"from": "+100", "to": "+200"}
	rr := serve(t, h.EndorseByPair, http.MethodPut, "+200", nil, params)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusForbidden)
	}

	rr = serve(t, h.EndorseByPair, http.MethodPut, "+100", nil, params)
	if rr.Code != http.StatusOK {
		t.Fatalf("endorse by pair: unexpected status %d", rr.Code)
	}
	rr = serve(t, h.UnEndorseByPair, http.MethodDelete, "+100", nil, params)
	if rr.Code != http.StatusOK {
		t.Fatalf("unendorse by pair: unexpected status %d", rr.Code)
	}
	rr = serve(t, h.UnlikeByPair, http.MethodDelete, "+100", nil, params)
	if rr.Code != http.StatusOK {
		t.Fatalf("unlike by pair: unexpected status %d", rr.Code)
	}

	want := []string{"LIKE", "ENDORSE", "UNENDORSE", "UNLIKE"}
	if len(store.history) != len(want) {
		t.Fatalf("unexpected history length: %d", len(store.history))
	}
	for i, action := range want {
		if string(store.history[i].Action) != action {
			t.Fatalf("history[%d]: got %s want %s", i, store.history[i].Action, action)
		}
	}
}
