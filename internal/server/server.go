// Package server exposes the green seat calculator as a JSON HTTP API.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/iwvelando/greenseat-forecast/internal/profit"
	"github.com/iwvelando/greenseat-forecast/internal/snapshot"
	"github.com/iwvelando/greenseat-forecast/pkg/commute"
	"github.com/iwvelando/greenseat-forecast/pkg/constants"
	"github.com/iwvelando/greenseat-forecast/pkg/validation"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// Options tunes the handler returned by NewHandler.
type Options struct {
	MaxBodySize    int64
	Version        string
	AllowedOrigins []string
}

type handler struct {
	logger      *zap.Logger
	snapshots   *snapshot.Service
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the calculator API.
func NewHandler(logger *zap.Logger, snapshots *snapshot.Service, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if snapshots == nil {
		snapshots = snapshot.NewService(logger, snapshot.NewMemoryStore(), constants.DefaultSnapshotTTL)
	}

	maxBodySize := opts.MaxBodySize
	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:      logger,
		snapshots:   snapshots,
		maxBodySize: maxBodySize,
		version:     trimmedVersion,
	}

	r := mux.NewRouter()
	r.Use(h.logRequests)

	r.HandleFunc("/api/calculate", h.handleCalculate).Methods(http.MethodPost)
	r.HandleFunc("/api/defaults", h.handleDefaults).Methods(http.MethodGet)
	r.HandleFunc("/api/snapshots", h.handleCreateSnapshot).Methods(http.MethodPost)
	r.HandleFunc("/api/snapshots/{id}", h.handleRestoreSnapshot).Methods(http.MethodGet)
	r.HandleFunc("/api/snapshots/{id}", h.handleSaveSnapshot).Methods(http.MethodPut)
	r.HandleFunc("/api/snapshots/{id}", h.handleDeleteSnapshot).Methods(http.MethodDelete)
	r.HandleFunc("/api/version", h.handleVersion).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(r)
}

type defaultsResponse struct {
	Input   validation.RawInput         `json:"input"`
	Summary *commute.CalculationSummary `json:"summary"`
}

type snapshotResponse struct {
	ID       string                      `json:"id"`
	Input    validation.RawInput         `json:"input"`
	Restored bool                        `json:"restored"`
	Summary  *commute.CalculationSummary `json:"summary,omitempty"`
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculate"

	raw, ok := h.decodeInput(w, r, op)
	if !ok {
		return
	}

	result, err := profit.Evaluate(h.logger, raw)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to calculate: %v", err), op)
		return
	}
	if !result.Success {
		h.writeJSON(w, http.StatusBadRequest, result)
		return
	}

	// Remember valid input for the client when it names a snapshot.
	if id := strings.TrimSpace(r.URL.Query().Get("snapshot")); id != "" {
		if _, err := h.snapshots.Save(r.Context(), id, raw); err != nil {
			h.logger.Warn("failed to save snapshot",
				zap.String("op", op),
				zap.String("id", id),
				zap.Error(err),
			)
		}
	}

	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) handleDefaults(w http.ResponseWriter, _ *http.Request) {
	result := profit.GetDefault()
	h.writeJSON(w, http.StatusOK, defaultsResponse{Input: result.Input, Summary: result.Summary})
}

func (h *handler) handleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	h.saveSnapshot(w, r, uuid.NewString(), http.StatusCreated, "server.handleCreateSnapshot")
}

func (h *handler) handleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	h.saveSnapshot(w, r, mux.Vars(r)["id"], http.StatusOK, "server.handleSaveSnapshot")
}

func (h *handler) saveSnapshot(w http.ResponseWriter, r *http.Request, id string, status int, op string) {
	raw, ok := h.decodeInput(w, r, op)
	if !ok {
		return
	}

	saved, err := h.snapshots.Save(r.Context(), id, raw)
	if err != nil {
		var inputErr *validation.InputError
		if errors.As(err, &inputErr) {
			h.writeJSON(w, http.StatusBadRequest, profit.ActionResult{
				FieldErrors: inputErr.FieldErrors,
				Message:     inputErr.Message,
			})
			return
		}
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to save snapshot: %v", err), op)
		return
	}

	h.writeJSON(w, status, snapshotResponse{ID: id, Input: saved, Restored: true})
}

func (h *handler) handleRestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleRestoreSnapshot"
	id := mux.Vars(r)["id"]

	restored, err := h.snapshots.Restore(r.Context(), id)
	if err != nil {
		// The store is best-effort; fall back to the defaults it returned.
		h.logger.Warn("failed to restore snapshot",
			zap.String("op", op),
			zap.String("id", id),
			zap.Error(err),
		)
	}

	summary, err := commute.Calculate(restored.Request)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to calculate: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, snapshotResponse{
		ID:       id,
		Input:    restored.Input,
		Restored: restored.FromStore,
		Summary:  &summary,
	})
}

func (h *handler) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := h.snapshots.Forget(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to delete snapshot: %v", err), "server.handleDeleteSnapshot")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// decodeInput reads a raw input object from the request body, writing the
// error response itself when it fails.
func (h *handler) decodeInput(w http.ResponseWriter, r *http.Request, op string) (validation.RawInput, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	var raw validation.RawInput
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return nil, false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode input: %v", err), op)
		return nil, false
	}
	if raw == nil {
		raw = make(validation.RawInput)
	}
	return raw, true
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.logger.Info("request handled",
			zap.String("op", "server.logRequests"),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
