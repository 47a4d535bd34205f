package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ivankudzin/goodwill/internal/domain/model"
	likessvc "github.com/ivankudzin/goodwill/internal/services/likes"
	"github.com/ivankudzin/goodwill/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/goodwill/internal/transport/http/errors"
)

type LikesHandler struct {
	service *likessvc.Service
	log     *zap.Logger
}

func NewLikesHandler(service *likessvc.Service, log *zap.Logger) *LikesHandler {
	return &LikesHandler{service: service, log: log}
}

func (h *LikesHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerPhone(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "LIKES_SERVICE_UNAVAILABLE", "likes service is unavailable")
		return
	}

	var req dto.CreateLikeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if req.FromPhoneNumber == "" {
		req.FromPhoneNumber = caller
	}
	if req.FromPhoneNumber != caller {
		writeForbidden(w, "FORBIDDEN", "likes can only be sent as yourself")
		return
	}
	if req.Qualities == nil {
		writeBadRequest(w, "VALIDATION_ERROR", "qualities are required")
		return
	}

	like, err := h.service.CreateLike(r.Context(), likessvc.CreateLikeInput{
		FromPhoneNumber: req.FromPhoneNumber,
		ToPhoneNumber:   req.ToPhoneNumber,
		Qualities:       parseQualities(req.Qualities),
		IsEndorsed:      req.IsEndorsed,
		UsedSearch:      req.UsedSearch,
		IsMotherQuality: req.IsMotherQuality,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, mapLike(like))
}

func (h *LikesHandler) Received(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerPhone(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "LIKES_SERVICE_UNAVAILABLE", "likes service is unavailable")
		return
	}

	items, err := h.service.GetLikes(r.Context(), caller)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	out := make([]dto.LikeResponse, 0, len(items))
	for _, like := range items {
		out = append(out, mapLike(like))
	}
	httperrors.Write(w, http.StatusOK, dto.LikesListResponse{Items: out})
}

func (h *LikesHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerPhone(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "LIKES_SERVICE_UNAVAILABLE", "likes service is unavailable")
		return
	}

	if err := h.service.UnlikeAsSender(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		h.handleError(w, r, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func (h *LikesHandler) UnlikeByPair(w http.ResponseWriter, r *http.Request) {
	from, to, ok := h.pair(w, r)
	if !ok {
		return
	}

	if err := h.service.UnlikeByPair(r.Context(), from, to); err != nil {
		h.handleError(w, r, err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func (h *LikesHandler) Endorse(w http.ResponseWriter, r *http.Request) {
	h.writeEndorsed(w, r, h.service.EndorseAsSender)
}

func (h *LikesHandler) UnEndorse(w http.ResponseWriter, r *http.Request) {
	h.writeEndorsed(w, r, h.service.UnEndorseAsSender)
}

func (h *LikesHandler) EndorseByPair(w http.ResponseWriter, r *http.Request) {
	from, to, ok := h.pair(w, r)
	if !ok {
		return
	}

	like, err := h.service.EndorseByPair(r.Context(), from, to)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	httperrors.Write(w, http.StatusOK, mapLike(like))
}

func (h *LikesHandler) UnEndorseByPair(w http.ResponseWriter, r *http.Request) {
	from, to, ok := h.pair(w, r)
	if !ok {
		return
	}

	like, err := h.service.UnEndorseByPair(r.Context(), from, to)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	httperrors.Write(w, http.StatusOK, mapLike(like))
}

func (h *LikesHandler) writeEndorsed(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, sender, id string) (model.Like, error)) {
	caller, ok := callerPhone(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "LIKES_SERVICE_UNAVAILABLE", "likes service is unavailable")
		return
	}

	like, err := op(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	httperrors.Write(w, http.StatusOK, mapLike(like))
}

// pair reads {from}/{to}; only the sender may act on a pair.
func (h *LikesHandler) pair(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	caller, ok := callerPhone(w, r)
	if !ok {
		return "", "", false
	}
	if h.service == nil {
		writeInternal(w, "LIKES_SERVICE_UNAVAILABLE", "likes service is unavailable")
		return "", "", false
	}

	from := chi.URLParam(r, "from")
	if from != caller {
		writeForbidden(w, "FORBIDDEN", "only the sender can change this like")
		return "", "", false
	}
	return from, chi.URLParam(r, "to"), true
}

func (h *LikesHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	if tooFast, ok := likessvc.IsTooFast(err); ok {
		httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
			Code:          "TOO_FAST",
			Message:       "too many likes, slow down",
			RetryAfterSec: tooFast.RetryAfter(),
		})
		return
	}

	switch {
	case errors.Is(err, likessvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid like request")
	case errors.Is(err, likessvc.ErrMonthlyLimit):
		writeBadRequest(w, "MONTHLY_LIMIT_REACHED", likessvc.ErrMonthlyLimit.Error())
	case errors.Is(err, likessvc.ErrSenderNotFound):
		writeNotFound(w, "SENDER_NOT_FOUND", "sender not found")
	case errors.Is(err, likessvc.ErrNotSender):
		writeForbidden(w, "FORBIDDEN", "only the sender can change this like")
	case errors.Is(err, likessvc.ErrLikeNotFound):
		writeNotFound(w, "LIKE_NOT_FOUND", "like not found")
	default:
		writeUnexpected(w, h.log, r, "like operation failed", err)
	}
}

func mapLike(like model.Like) dto.LikeResponse {
	return dto.LikeResponse{
		ID:              like.ID,
		FromPhoneNumber: like.FromPhoneNumber,
		ToPhoneNumber:   like.ToPhoneNumber,
		Qualities:       mapQualities(like.Qualities),
		IsEndorsed:      like.IsEndorsed,
		UsedSearch:      like.UsedSearch,
		IsMotherQuality: like.IsMotherQuality,
		IsNotified:      like.IsNotified,
		CreatedAt:       like.CreatedAt.UTC(),
	}
}
