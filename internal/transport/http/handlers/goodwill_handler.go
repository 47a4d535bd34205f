package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ivankudzin/goodwill/internal/domain/model"
	goodwillsvc "github.com/ivankudzin/goodwill/internal/services/goodwill"
	"github.com/ivankudzin/goodwill/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/goodwill/internal/transport/http/errors"
)

type GoodwillHandler struct {
	service *goodwillsvc.Service
	log     *zap.Logger
}

func NewGoodwillHandler(service *goodwillsvc.Service, log *zap.Logger) *GoodwillHandler {
	return &GoodwillHandler{service: service, log: log}
}

func (h *GoodwillHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerPhone(w, r); !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "GOODWILL_SERVICE_UNAVAILABLE", "goodwill service is unavailable")
		return
	}

	phone := chi.URLParam(r, "phone")
	result, err := h.service.CalculateGoodwillScore(r.Context(), phone)
	if err != nil {
		if errors.Is(err, goodwillsvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "phone number is required")
			return
		}
		writeUnexpected(w, h.log, r, "failed to calculate goodwill", err)
		return
	}

	resp := mapGoodwill(result)
	resp.PhoneNumber = phone
	httperrors.Write(w, http.StatusOK, resp)
}

func mapGoodwill(result model.Goodwill) dto.GoodwillResponse {
	scores := make([]dto.QualityScoreResponse, 0, len(result.QualityScores))
	for _, qs := range result.QualityScores {
		scores = append(scores, dto.QualityScoreResponse{
			Quality: mapQuality(qs.Quality),
			Score:   qs.Score,
		})
	}

	return dto.GoodwillResponse{
		Score: result.Score,
		Level: result.Level,
		Breakdown: dto.GoodwillBreakdownResponse{
			BaseScore: result.Breakdown.BaseScore,
			Penalties: dto.GoodwillPenaltiesResponse{
				NoSearch:    result.Breakdown.Penalties.NoSearch,
				ReturnLike:  result.Breakdown.Penalties.ReturnLike,
				FarmAccount: result.Breakdown.Penalties.FarmAccount,
			},
		},
		QualityScores: scores,
	}
}
