package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	dErrors "comptepro/pkg/domain-errors"
	"comptepro/pkg/platform/httputil"
	"comptepro/pkg/requestcontext"

	csrfhandler "comptepro/internal/csrf/handler"
	"comptepro/internal/inscription/models"
)

// Service is the submission service surface the handler needs.
type Service interface {
	Submit(ctx context.Context, dossier models.Dossier) (*models.Receipt, error)
}

// TokenVerifier checks the CSRF token/session pair guarding the submission.
type TokenVerifier interface {
	VerifyToken(token, sessionID string) bool
}

// Handler exposes the registration submission endpoint.
type Handler struct {
	service Service
	tokens  TokenVerifier
	logger  *slog.Logger
}

func New(service Service, tokens TokenVerifier, logger *slog.Logger) *Handler {
	return &Handler{service: service, tokens: tokens, logger: logger}
}

// Register mounts the submission endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/inscription", h.HandleSubmit)
}

// HandleSubmit handles POST /api/inscription. The CSRF protocol applies the
// same rules as the validation endpoint: missing or malformed headers are a
// 400, a rejected token a 403, before the body is even read.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	token, sessionID, err := csrfhandler.ExtractHeaders(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !h.tokens.VerifyToken(token, sessionID) {
		h.logger.WarnContext(ctx, "submission rejected: invalid csrf token",
			"request_id", requestID,
			"session_id", sessionID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "Jeton de sécurité invalide ou expiré"))
		return
	}

	var dossier models.Dossier
	if err := json.NewDecoder(r.Body).Decode(&dossier); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "Le corps de la requête est invalide"))
		return
	}

	receipt, err := h.service.Submit(ctx, dossier)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInvalidInput) {
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "dossier submission failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "submission failed"))
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, receipt)
}
