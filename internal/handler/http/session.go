package http

import (
	"net/http"

	"github.com/MKhiriev/vaultscribe/internal/service"
	"github.com/MKhiriev/vaultscribe/internal/utils"
	"github.com/MKhiriev/vaultscribe/models"
)

func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	account, ok := utils.GetAccountFromContext(r.Context())
	if !ok {
		writeError(w, r, service.ErrNoValidSession)
		return
	}

	utils.WriteJSON(w, models.AccountResponse{Email: account.Email}, http.StatusOK)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	token, ok := utils.GetSessionTokenFromContext(r.Context())
	if !ok {
		writeError(w, r, service.ErrNoValidSession)
		return
	}

	err := h.services.AuthService.Logout(r.Context(), token)
	h.metrics.observeAuth("logout", err)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
