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

type HistoryHandler struct {
	service *likessvc.Service
	log     *zap.Logger
}

func NewHistoryHandler(service *likessvc.Service, log *zap.Logger) *HistoryHandler {
	return &HistoryHandler{service: service, log: log}
}

func (h *HistoryHandler) Sent(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, func(ctx context.Context) ([]model.LikeHistory, error) {
		return h.service.GetSentHistory(ctx, chi.URLParam(r, "phone"))
	})
}

func (h *HistoryHandler) Received(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, func(ctx context.Context) ([]model.LikeHistory, error) {
		return h.service.GetReceivedHistory(ctx, chi.URLParam(r, "phone"))
	})
}

func (h *HistoryHandler) Between(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, func(ctx context.Context) ([]model.LikeHistory, error) {
		return h.service.GetHistoryBetween(ctx, chi.URLParam(r, "a"), chi.URLParam(r, "b"))
	})
}

func (h *HistoryHandler) Latest(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerPhone(w, r); !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "LIKES_SERVICE_UNAVAILABLE", "likes service is unavailable")
		return
	}

	entry, err := h.service.GetMostRecentAction(r.Context(), chi.URLParam(r, "from"), chi.URLParam(r, "to"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	httperrors.Write(w, http.StatusOK, mapHistory(entry))
}

func (h *HistoryHandler) writeList(w http.ResponseWriter, r *http.Request, load func(context.Context) ([]model.LikeHistory, error)) {
	if _, ok := callerPhone(w, r); !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "LIKES_SERVICE_UNAVAILABLE", "likes service is unavailable")
		return
	}

	items, err := load(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	out := make([]dto.LikeHistoryResponse, 0, len(items))
	for _, entry := range items {
		out = append(out, mapHistory(entry))
	}
	httperrors.Write(w, http.StatusOK, dto.LikeHistoryListResponse{Items: out})
}

func (h *HistoryHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, likessvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid history request")
	case errors.Is(err, likessvc.ErrHistoryNotFound):
		writeNotFound(w, "HISTORY_NOT_FOUND", "no history between these users")
	default:
		writeUnexpected(w, h.log, r, "failed to load like history", err)
	}
}

func mapHistory(entry model.LikeHistory) dto.LikeHistoryResponse {
	var qualities []dto.QualityPayload
	if entry.Qualities != nil {
		qualities = mapQualities(entry.Qualities)
	}
	return dto.LikeHistoryResponse{
		ID:              entry.ID,
		FromPhoneNumber: entry.FromPhoneNumber,
		ToPhoneNumber:   entry.ToPhoneNumber,
		Action:          string(entry.Action),
		Qualities:       qualities,
		CreatedAt:       entry.CreatedAt.UTC(),
	}
}
