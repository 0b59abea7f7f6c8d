package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"cropdesk/internal/auth"
	"cropdesk/internal/http/respond"
	"cropdesk/internal/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

const maxBodyBytes = 1 << 20

var errEmptyBody = errors.New("request body is empty")

// decodeJSON reads exactly one JSON value and rejects fields dst does not declare.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	if dec.More() {
		return errors.New("request body must hold a single JSON object")
	}
	return nil
}

func badBody(w http.ResponseWriter, err error) {
	respond.Error(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
}

// currentUser reads the id RequireAuth stored; routes without it answer 401.
func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized")
	}
	return uid, ok
}

// internalError logs err with request context and answers a generic 500.
func internalError(w http.ResponseWriter, r *http.Request, action string, err error) {
	logger.Error(action+" failed",
		"error", err,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", chimw.GetReqID(r.Context()),
	)
	respond.Error(w, http.StatusInternalServerError, "Internal server error while "+action)
}
