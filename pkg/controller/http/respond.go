package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/kanbot/pkg/domain/model"
	"github.com/secmon-lab/kanbot/pkg/usecase"
	"github.com/secmon-lab/kanbot/pkg/utils/errutil"
)

func respondJSON(ctx context.Context, w http.ResponseWriter, statusCode int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(data) //nolint:errcheck // header already committed
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return goerr.Wrap(model.ErrValidation, "invalid request body", goerr.V("cause", err.Error()))
	}
	return nil
}

// handleError maps domain sentinels to HTTP status codes and logs the error
func handleError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		errutil.HandleHTTP(ctx, w, err, http.StatusNotFound)
	case errors.Is(err, model.ErrValidation):
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPermissionDenied):
		errutil.HandleHTTP(ctx, w, err, http.StatusForbidden)
	case errors.Is(err, usecase.ErrUnauthenticated), errors.Is(err, usecase.ErrInvalidCredentials):
		errutil.HandleHTTP(ctx, w, err, http.StatusUnauthorized)
	default:
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
	}
}
