package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ivankudzin/goodwill/internal/domain/enums"
	"github.com/ivankudzin/goodwill/internal/domain/model"
	authsvc "github.com/ivankudzin/goodwill/internal/services/auth"
	"github.com/ivankudzin/goodwill/internal/transport/http/dto"
	httperrors "github.com/ivankudzin/goodwill/internal/transport/http/errors"
)

const maxJSONBodySize = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeBadRequest(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: code, Message: message})
}

func writeUnauthorized(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{Code: code, Message: message})
}

func writeForbidden(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusForbidden, httperrors.APIError{Code: code, Message: message})
}

func writeNotFound(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusNotFound, httperrors.APIError{Code: code, Message: message})
}

func writeInternal(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{Code: code, Message: message})
}

// writeUnexpected logs err and answers 500.
func writeUnexpected(w http.ResponseWriter, log *zap.Logger, r *http.Request, message string, err error) {
	if log != nil {
		log.Error(message,
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	writeInternal(w, "INTERNAL_ERROR", message)
}

func callerPhone(w http.ResponseWriter, r *http.Request) (string, bool) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok || strings.TrimSpace(identity.PhoneNumber) == "" {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return "", false
	}
	return identity.PhoneNumber, true
}

func mapQuality(q model.QualityWithMetadata) dto.QualityPayload {
	return dto.QualityPayload{
		Value:              q.Value,
		Category:           string(q.Category),
		IsDefault:          q.IsDefault,
		IsGrammarCorrected: q.IsGrammarCorrected,
		UsedSearch:         q.UsedSearch,
	}
}

func mapQualities(items []model.QualityWithMetadata) []dto.QualityPayload {
	out := make([]dto.QualityPayload, 0, len(items))
	for _, q := range items {
		out = append(out, mapQuality(q))
	}
	return out
}

func parseQualities(items []dto.QualityPayload) []model.QualityWithMetadata {
	out := make([]model.QualityWithMetadata, 0, len(items))
	for _, q := range items {
		out = append(out, model.QualityWithMetadata{
			Value:              q.Value,
			Category:           enums.QualityCategory(q.Category),
			IsDefault:          q.IsDefault,
			IsGrammarCorrected: q.IsGrammarCorrected,
			UsedSearch:         q.UsedSearch,
		})
	}
	return out
}
