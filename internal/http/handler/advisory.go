package handler

import (
	"errors"
	"net/http"

	"cropdesk/internal/advisory"
	"cropdesk/internal/http/respond"
)

type AdvisoryHandler struct {
	Svc *advisory.Service
}

func (h *AdvisoryHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req advisory.Request
	if err := decodeJSON(w, r, &req); err != nil {
		badBody(w, err)
		return
	}

	recs, err := h.Svc.Recommend(r.Context(), uid, req)
	if err != nil {
		if errors.Is(err, advisory.ErrInvalidInput) {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		internalError(w, r, "generating recommendations", err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"recommendations": recs})
}

func (h *AdvisoryHandler) Consultation(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}

	var in advisory.ConsultationInput
	if err := decodeJSON(w, r, &in); err != nil {
		badBody(w, err)
		return
	}

	c, err := h.Svc.Consult(r.Context(), uid, in)
	if err != nil {
		if errors.Is(err, advisory.ErrInvalidInput) {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		internalError(w, r, "submitting consultation", err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"consultation": c})
}
