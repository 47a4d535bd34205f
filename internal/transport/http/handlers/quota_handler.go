package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	likessvc "github.com/ivankudzin/goodwill/internal/services/likes"
	"github.com/ivankudzin/goodwill/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/goodwill/internal/transport/http/errors"
)

type QuotaHandler struct {
	service *likessvc.Service
	log     *zap.Logger
}

func NewQuotaHandler(service *likessvc.Service, log *zap.Logger) *QuotaHandler {
	return &QuotaHandler{service: service, log: log}
}

func (h *QuotaHandler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerPhone(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "QUOTA_SERVICE_UNAVAILABLE", "quota service is unavailable")
		return
	}

	quota, err := h.service.GetQuotaByPhone(r.Context(), caller)
	if err != nil {
		switch {
		case errors.Is(err, likessvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid quota request")
		case errors.Is(err, likessvc.ErrUserNotFound):
			writeNotFound(w, "USER_NOT_FOUND", "user not found")
		default:
			writeUnexpected(w, h.log, r, "failed to load quota", err)
		}
		return
	}

	resp := dto.QuotaResponse{
		RemainingLikes:   quota.RemainingLikes,
		LikesRefreshedAt: quota.LikesRefreshedAt.UTC(),
	}
	retryAfter, err := h.service.BurstRetryAfter(r.Context(), caller)
	if err != nil {
		if h.log != nil {
			h.log.Warn("quota burst lookup failed", zap.String("phone", caller), zap.Error(err))
		}
	} else if retryAfter > 0 {
		resp.TooFastRetryAfter = &retryAfter
	}

	httperrors.Write(w, http.StatusOK, resp)
}
