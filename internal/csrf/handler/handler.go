package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	dErrors "comptepro/pkg/domain-errors"
	"comptepro/pkg/platform/httputil"
	"comptepro/pkg/requestcontext"
)

// Header names the browser form sends on protected POSTs.
const (
	HeaderToken   = "x-csrf-token"
	HeaderSession = "x-session-id"
)

// TokenService is the CSRF service surface the handler needs.
type TokenService interface {
	IssueSession() string
	GenerateToken(sessionID string) (string, error)
	VerifyToken(token, sessionID string) bool
}

// Handler exposes the token issuance/validation endpoint.
type Handler struct {
	tokens TokenService
	logger *slog.Logger
}

func New(tokens TokenService, logger *slog.Logger) *Handler {
	return &Handler{tokens: tokens, logger: logger}
}

// Register mounts the CSRF endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/csrf/validate", h.HandleIssue)
	r.Post("/api/csrf/validate", h.HandleVerify)
}

type issueResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token"`
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

type verifyResponse struct {
	Success   bool   `json:"success"`
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

// HandleIssue handles GET /api/csrf/validate: a fresh session id and token
// for the form wizard. Rate limiting happens in the route middleware.
func (h *Handler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	sessionID := h.tokens.IssueSession()
	token, err := h.tokens.GenerateToken(sessionID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate csrf token",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "token generation failed"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, issueResponse{
		Success:   true,
		Token:     token,
		SessionID: sessionID,
		Message:   "Jeton de sécurité généré",
	})
}

// HandleVerify handles POST /api/csrf/validate: checks the token/session pair
// the form is about to submit with.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	token, sessionID, err := ExtractHeaders(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if !h.tokens.VerifyToken(token, sessionID) {
		h.logger.WarnContext(ctx, "csrf token rejected",
			"request_id", requestID,
			"session_id", sessionID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "Jeton de sécurité invalide ou expiré"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, verifyResponse{
		Success:   true,
		SessionID: sessionID,
		Message:   "Jeton de sécurité valide",
	})
}

// ExtractHeaders pulls and shape-checks the CSRF headers. Structurally
// invalid input fails fast here, before the verifier runs. Shared with the
// registration submission endpoint, which enforces the same protocol.
func ExtractHeaders(r *http.Request) (token, sessionID string, err error) {
	token = strings.TrimSpace(r.Header.Get(HeaderToken))
	sessionID = strings.TrimSpace(r.Header.Get(HeaderSession))

	if token == "" {
		return "", "", dErrors.New(dErrors.CodeValidation, "En-tête x-csrf-token manquant")
	}
	if sessionID == "" {
		return "", "", dErrors.New(dErrors.CodeValidation, "En-tête x-session-id manquant")
	}
	return token, sessionID, nil
}
