package handler

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"cropdesk/internal/auth"
	"cropdesk/internal/crop"
	"cropdesk/internal/http/respond"
	"cropdesk/internal/report"

	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CropHandler struct {
	Repo *crop.Repository
}

func (h *CropHandler) fail(w http.ResponseWriter, r *http.Request, action string, err error) {
	switch {
	case errors.Is(err, crop.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "Crop not found")
	case errors.Is(err, crop.ErrInvalidInput):
		respond.Error(w, http.StatusBadRequest, err.Error())
	default:
		internalError(w, r, action, err)
	}
}

func (h *CropHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req crop.NewCrop
	if err := decodeJSON(w, r, &req); err != nil {
		badBody(w, err)
		return
	}

	c, err := h.Repo.Create(r.Context(), uid, req)
	if err != nil {
		h.fail(w, r, "creating crop", err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"crop": c})
}

// List answers an empty collection to anonymous callers.
func (h *CropHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respond.JSON(w, http.StatusOK, map[string]any{"crops": []crop.Crop{}})
		return
	}

	crops, err := h.Repo.List(r.Context(), uid)
	if err != nil {
		h.fail(w, r, "fetching crops", err)
		return
	}
	if crops == nil {
		crops = []crop.Crop{}
	}
	respond.JSON(w, http.StatusOK, map[string]any{"crops": crops})
}

func (h *CropHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}

	var patch crop.Patch
	if err := decodeJSON(w, r, &patch); err != nil {
		badBody(w, err)
		return
	}

	c, err := h.Repo.Update(r.Context(), uid, chi.URLParam(r, "cropId"), patch)
	if err != nil {
		h.fail(w, r, "updating crop", err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"crop": c})
}

func (h *CropHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.Repo.Delete(r.Context(), uid, chi.URLParam(r, "cropId")); err != nil {
		h.fail(w, r, "deleting crop", err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Crop deleted successfully",
	})
}

// Export streams the caller's crops as an xlsx workbook.
func (h *CropHandler) Export(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}

	crops, err := h.Repo.List(r.Context(), uid)
	if err != nil {
		h.fail(w, r, "exporting crops", err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteCrops(&buf, crops); err != nil {
		internalError(w, r, "exporting crops", err)
		return
	}

	name := "crops-" + time.Now().UTC().Format("20060102") + ".xlsx"
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
