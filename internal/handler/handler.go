package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"restaurant-pos/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code, code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeServiceError maps an error returned by a service to a response.
func writeServiceError(w http.ResponseWriter, err error, fallback string, logger zerolog.Logger) {
	status, code, message := classify(err, fallback)
	writeError(w, status, code, message, logger)
}

func classify(err error, fallback string) (int, string, string) {
	var de *model.DomainError
	switch {
	case errors.Is(err, model.ErrInvalidCredentials), errors.Is(err, model.ErrUnauthenticated):
		return http.StatusUnauthorized, model.ErrCodeUnauthenticated, domainMessage(err)
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden, model.ErrCodeForbidden, domainMessage(err)
	case errors.Is(err, model.ErrOrderDeletionDisabled), errors.Is(err, model.ErrEmailTaken):
		de, _ := asDomain(err)
		return http.StatusConflict, de.Code, de.Message
	case model.IsNotFound(err):
		return http.StatusNotFound, model.ErrCodeNotFound, domainMessage(err)
	case model.IsValidation(err):
		return http.StatusBadRequest, model.ErrCodeValidation, domainMessage(err)
	case model.IsStore(err):
		return http.StatusBadGateway, model.ErrCodeStoreError, fallback
	case errors.As(err, &de):
		return http.StatusBadRequest, de.Code, de.Message
	default:
		return http.StatusInternalServerError, model.ErrCodeInternalError, fallback
	}
}

func asDomain(err error) (*model.DomainError, bool) {
	var de *model.DomainError
	ok := errors.As(err, &de)
	return de, ok
}

func domainMessage(err error) string {
	if de, ok := asDomain(err); ok {
		return de.Message
	}
	return err.Error()
}

// decodeJSON decodes the request body into dst, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, logger zerolog.Logger) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", logger)
		return false
	}
	return true
}

// pathID parses the {id} path segment.
func pathID(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (uuid.UUID, bool) {
	raw := r.PathValue("id")
	if raw == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "id is required", logger)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid id format", logger)
		return uuid.Nil, false
	}
	return id, true
}

// queryPage reads the 1-based "page" query parameter, defaulting to 1.
func queryPage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
