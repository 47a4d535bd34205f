package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	mediasvc "github.com/ivankudzin/goodwill/internal/services/media"
	"github.com/ivankudzin/goodwill/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/goodwill/internal/transport/http/errors"
)

type MediaHandler struct {
	service *mediasvc.Service
	log     *zap.Logger
}

func NewMediaHandler(service *mediasvc.Service, log *zap.Logger) *MediaHandler {
	return &MediaHandler{service: service, log: log}
}

func (h *MediaHandler) UploadURL(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerPhone(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "MEDIA_SERVICE_UNAVAILABLE", "media service is unavailable")
		return
	}

	var req dto.UploadURLRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	upload, err := h.service.PresignUpload(r.Context(), caller, req.ContentType)
	if err != nil {
		if errors.Is(err, mediasvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "content_type must be an image type")
			return
		}
		writeUnexpected(w, h.log, r, "failed to issue upload url", err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.UploadURLResponse{
		Key:       upload.Key,
		URL:       upload.URL,
		ExpiresAt: upload.ExpiresAt.UTC(),
	})
}
