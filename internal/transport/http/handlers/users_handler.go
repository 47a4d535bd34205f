package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	userssvc "github.com/ivankudzin/goodwill/internal/services/users"
	"github.com/ivankudzin/goodwill/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/goodwill/internal/transport/http/errors"
)

type UsersHandler struct {
	service *userssvc.Service
	log     *zap.Logger
}

func NewUsersHandler(service *userssvc.Service, log *zap.Logger) *UsersHandler {
	return &UsersHandler{service: service, log: log}
}

func (h *UsersHandler) Self(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerPhone(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "USERS_SERVICE_UNAVAILABLE", "users service is unavailable")
		return
	}

	view, err := h.service.Self(r.Context(), caller)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.SelfResponse{
		User: dto.SelfUserResponse{
			ID:                view.User.ID,
			PhoneNumber:       view.User.PhoneNumber,
			Name:              view.User.Name,
			ProfilePictureURL: view.ProfilePictureURL,
			IsActive:          view.User.IsActive,
			CreatedAt:         view.User.CreatedAt.UTC(),
		},
		Goodwill: mapGoodwill(view.Goodwill),
		Quota: dto.QuotaResponse{
			RemainingLikes:   view.Quota.RemainingLikes,
			LikesRefreshedAt: view.Quota.LikesRefreshedAt.UTC(),
		},
		TopQualities: mapQualities(view.TopQualities),
	})
}

func (h *UsersHandler) ByPhoneNumber(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerPhone(w, r); !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "USERS_SERVICE_UNAVAILABLE", "users service is unavailable")
		return
	}

	view, err := h.service.ByPhoneNumber(r.Context(), chi.URLParam(r, "phone"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.PublicUserResponse{
		PhoneNumber:       view.PhoneNumber,
		Name:              view.Name,
		ProfilePictureURL: view.ProfilePictureURL,
		GoodwillScore:     view.GoodwillScore,
		GoodwillLevel:     view.GoodwillLevel,
		TopQualities:      mapQualities(view.TopQualities),
	})
}

func (h *UsersHandler) Search(w http.ResponseWriter, r *http.Request) {
	if _, ok := callerPhone(w, r); !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "USERS_SERVICE_UNAVAILABLE", "users service is unavailable")
		return
	}

	var req dto.SearchUsersRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	results, err := h.service.SearchByPhoneNumbers(r.Context(), req.PhoneNumbers)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	items := make([]dto.SearchUserResponse, 0, len(results))
	for _, res := range results {
		items = append(items, dto.SearchUserResponse{
			PhoneNumber:       res.PhoneNumber,
			Name:              res.Name,
			ProfilePictureURL: res.ProfilePictureURL,
			TopQualities:      mapQualities(res.TopQualities),
		})
	}
	httperrors.Write(w, http.StatusOK, dto.SearchUsersResponse{Items: items})
}

func (h *UsersHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, userssvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid users request")
	case errors.Is(err, userssvc.ErrNotFound):
		writeNotFound(w, "USER_NOT_FOUND", "user not found")
	default:
		writeUnexpected(w, h.log, r, "users operation failed", err)
	}
}
