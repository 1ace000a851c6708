// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/vaultscribe/internal/service"
	"github.com/MKhiriev/vaultscribe/internal/utils"
	"github.com/MKhiriev/vaultscribe/models"
)

// submitSummary queues a summarization job for the caller and answers 202
// with its id. The result is fetched with getSummary. Unknown fields,
// audio_path included, are rejected by decodeAndValidate.
func (h *Handler) submitSummary(w http.ResponseWriter, r *http.Request) {
	account, ok := utils.GetAccountFromContext(r.Context())
	if !ok {
		writeError(w, r, service.ErrNoValidSession)
		return
	}

	var req models.SummaryTextRequest
	if err := h.decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	job, err := h.services.SummaryService.Submit(r.Context(), account, models.SummaryRequest{Text: req.Text})
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/summaries/"+job.ID)
	utils.WriteJSON(w, models.SummaryJobResponse{JobID: job.ID}, http.StatusAccepted)
}

func (h *Handler) getSummary(w http.ResponseWriter, r *http.Request) {
	account, ok := utils.GetAccountFromContext(r.Context())
	if !ok {
		writeError(w, r, service.ErrNoValidSession)
		return
	}

	job, err := h.services.SummaryService.Get(r.Context(), account, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, job, http.StatusOK)
}
