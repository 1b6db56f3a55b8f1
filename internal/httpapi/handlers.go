package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/goliatone/go-formmigrate/pkg/orchestrator"
	"github.com/goliatone/go-formmigrate/pkg/richtext"
)

const maxRequestBytes = 10 << 20

// HealthHandler reports liveness.
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// FormHandler converts one exported form into page blocks.
func FormHandler(conv Converter, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req orchestrator.FormRequest
		if !decode(w, r, &req) {
			return
		}
		page, err := conv.ConvertForm(r.Context(), req)
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

// PageHandler converts one exported content item, form or tile based, into
// page blocks.
func PageHandler(conv Converter, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req orchestrator.PageRequest
		if !decode(w, r, &req) {
			return
		}
		page, err := conv.ConvertPage(r.Context(), req)
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func decode(w http.ResponseWriter, r *http.Request, out any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

// statusClientClosedRequest is the non-standard status logged when the caller
// went away before the conversion finished.
const statusClientClosedRequest = 499

// errorStatus maps invalid requests to 400, rejected schema transforms to 422,
// cancellation to 499, timeouts to 504 and remaining failures, which come from
// the HTML conversion service, to 502.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, orchestrator.ErrFormIDMissing):
		return http.StatusBadRequest
	case errors.Is(err, orchestrator.ErrTransformFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := errorStatus(err)

	var statusErr *richtext.StatusError
	switch {
	case errors.As(err, &statusErr):
		logger.Error("httpapi: conversion service failed", "upstream_status", statusErr.StatusCode, "error", err)
	case status >= http.StatusInternalServerError:
		logger.Error("httpapi: conversion failed", "status", status, "error", err)
	default:
		logger.Warn("httpapi: request rejected", "status", status, "error", err)
	}

	writeJSON(w, status, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}
