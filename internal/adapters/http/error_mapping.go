package httpadapter

import (
	"log/slog"
	"net/http"

	"github.com/kirillkom/summary-service/internal/core/domain"
)

const (
	msgNotFound       = "Summary not found"
	msgAlreadyRated   = "Score has already been assigned and cannot be reassigned"
	msgTooLarge       = "Request body too large"
	msgUnavailable    = "Service temporarily unavailable"
	msgInternal       = "Internal server error"
	msgBadRequestBody = "Request body must be a JSON object"
	msgScoreRange     = "Score must be a number between 0 and 10"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput), domain.IsKind(err, domain.ErrScoreAlreadySet):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrSummaryNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func publicErrorMessage(err error) string {
	if msg, ok := domain.PublicMessage(err); ok {
		return msg
	}
	switch {
	case domain.IsKind(err, domain.ErrSummaryNotFound):
		return msgNotFound
	case domain.IsKind(err, domain.ErrScoreAlreadySet):
		return msgAlreadyRated
	case domain.IsKind(err, domain.ErrPayloadTooLarge):
		return msgTooLarge
	case domain.IsKind(err, domain.ErrTemporary):
		return msgUnavailable
	case domain.IsKind(err, domain.ErrInvalidInput):
		return err.Error()
	default:
		return msgInternal
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request_failed",
			"request_id", requestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
	}
	writeJSON(w, status, map[string]string{"error": publicErrorMessage(err)})
}
