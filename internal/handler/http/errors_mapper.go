package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/MKhiriev/vaultscribe/internal/adapter"
	"github.com/MKhiriev/vaultscribe/internal/app"
	"github.com/MKhiriev/vaultscribe/internal/logger"
	"github.com/MKhiriev/vaultscribe/internal/service"
	"github.com/MKhiriev/vaultscribe/internal/utils"
	"github.com/MKhiriev/vaultscribe/models"
)

// errorStatuses is matched in order with [errors.Is]; the first hit wins.
// Domain errors precede context.DeadlineExceeded.
var errorStatuses = []struct {
	target error
	status int
}{
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrInvalidSecondFactorCode, http.StatusUnauthorized},
	{service.ErrChallengeExpired, http.StatusUnauthorized},
	{service.ErrInvalidChallenge, http.StatusUnauthorized},
	{service.ErrNoValidSession, http.StatusUnauthorized},
	{service.ErrSecondFactorNotConfigured, http.StatusForbidden},
	{service.ErrDuplicateAccount, http.StatusConflict},
	{service.ErrGrantAlreadyUsed, http.StatusConflict},
	{service.ErrWeakPassword, http.StatusUnprocessableEntity},
	{service.ErrInvalidEmailFormat, http.StatusUnprocessableEntity},
	{service.ErrStoreUnavailable, http.StatusServiceUnavailable},
	{service.ErrEnrollmentFailed, http.StatusInternalServerError},

	{service.ErrSummaryNotFound, http.StatusNotFound},
	{service.ErrSummaryQueueFull, http.StatusServiceUnavailable},
	{service.ErrInvalidSummaryRequest, http.StatusBadRequest},
	{adapter.ErrTranscriberDisabled, http.StatusNotImplemented},

	{ErrEmptyAuthorizationHeader, http.StatusUnauthorized},
	{ErrInvalidAuthorizationHeader, http.StatusUnauthorized},
	{ErrInvalidJSON, http.StatusBadRequest},
	{ErrValidation, http.StatusBadRequest},
	{errNotFound, http.StatusNotFound},
	{errMethodNotAllowed, http.StatusMethodNotAllowed},
	{errTooManyRequests, http.StatusTooManyRequests},

	{context.DeadlineExceeded, http.StatusGatewayTimeout},
}

func statusFromError(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.target) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// messageFor returns the response body text for err. Transport errors carry
// their own text; everything else uses the shared user-facing wording.
func messageFor(err error) string {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidJSON):
		return app.MsgInvalidDataProvided
	case errors.Is(err, ErrEmptyAuthorizationHeader), errors.Is(err, ErrInvalidAuthorizationHeader):
		return app.MsgNoValidSession
	case errors.Is(err, errNotFound), errors.Is(err, errMethodNotAllowed), errors.Is(err, errTooManyRequests):
		return err.Error()
	}
	return app.MessageFor(err)
}

// writeError logs err and answers with its mapped status and an
// [models.ErrorResponse] body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)

	log := logger.FromRequest(r)
	if status >= http.StatusInternalServerError {
		log.Err(err).Int("status", status).Msg("request failed")
	} else {
		log.Info().Err(err).Int("status", status).Msg("request rejected")
	}

	utils.WriteJSON(w, models.ErrorResponse{Error: messageFor(err)}, status)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, errNotFound)
}

func (h *Handler) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, errMethodNotAllowed)
}

func (h *Handler) tooManyRequests(w http.ResponseWriter, r *http.Request) {
	h.metrics.rateLimited.Inc()
	writeError(w, r, errTooManyRequests)
}
