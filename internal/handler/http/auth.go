package http

import (
	"net/http"

	"github.com/MKhiriev/vaultscribe/internal/logger"
	"github.com/MKhiriev/vaultscribe/internal/utils"
	"github.com/MKhiriev/vaultscribe/models"
)

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req models.CredentialsRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	challenge, err := h.services.AuthService.BeginLogin(r.Context(), req.Email, req.Password)
	h.metrics.observeAuth("login", err)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.ChallengeResponse{Challenge: challenge.Token, ExpiresAt: challenge.ExpiresAt}, http.StatusOK)
}

func (h *Handler) loginVerify(w http.ResponseWriter, r *http.Request) {
	var req models.CodeRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	session, err := h.services.AuthService.CompleteLogin(r.Context(), models.LoginChallenge{Token: req.Challenge}, req.Code)
	h.metrics.observeAuth("login_verify", err)
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.FromRequest(r).Info().Int64("account_id", session.AccountID).Msg("user logged in")
	utils.WriteJSON(w, models.SessionResponse{Token: session.Token, ExpiresAt: session.ExpiresAt}, http.StatusOK)
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req models.CredentialsRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	pending, err := h.services.AuthService.BeginSignup(r.Context(), req.Email, req.Password)
	h.metrics.observeAuth("signup", err)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.EnrollmentResponse{
		Ticket:          pending.Ticket,
		Secret:          pending.TOTPSecret,
		ProvisioningURI: pending.ProvisioningURI,
		ExpiresAt:       pending.ExpiresAt,
	}, http.StatusOK)
}

func (h *Handler) signupComplete(w http.ResponseWriter, r *http.Request) {
	var req models.EnrollmentConfirmRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	account, err := h.services.AuthService.CompleteSignup(r.Context(), models.PendingEnrollment{Ticket: req.Ticket}, req.Code)
	h.metrics.observeAuth("signup_complete", err)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.AccountResponse{Email: account.Email}, http.StatusCreated)
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	var req models.ResetRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	challenge, err := h.services.AuthService.BeginReset(r.Context(), req.Email)
	h.metrics.observeAuth("reset", err)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.ChallengeResponse{Challenge: challenge.Token, ExpiresAt: challenge.ExpiresAt}, http.StatusOK)
}

func (h *Handler) resetVerify(w http.ResponseWriter, r *http.Request) {
	var req models.CodeRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	grant, err := h.services.AuthService.VerifyReset(r.Context(), models.ResetChallenge{Token: req.Challenge}, req.Code)
	h.metrics.observeAuth("reset_verify", err)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.ResetGrantResponse{Grant: grant.Token, ExpiresAt: grant.ExpiresAt}, http.StatusOK)
}

func (h *Handler) resetComplete(w http.ResponseWriter, r *http.Request) {
	var req models.ResetCompleteRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	err := h.services.AuthService.CompleteReset(r.Context(), models.ResetGrant{Token: req.Grant}, req.NewPassword)
	h.metrics.observeAuth("reset_complete", err)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
