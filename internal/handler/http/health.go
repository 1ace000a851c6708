package http

import (
	"net/http"

	"github.com/MKhiriev/vaultscribe/internal/utils"
)

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, healthResponse{Status: "ok", Version: h.version}, http.StatusOK)
}
