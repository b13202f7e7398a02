package handler

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"

	dErrors "comptepro/pkg/domain-errors"
	"comptepro/pkg/platform/httputil"
	"comptepro/pkg/requestcontext"

	"comptepro/internal/entreprise/models"
)

var postalCodeRe = regexp.MustCompile(`^\d{5}$`)

// Service is the registry service surface the handler needs.
type Service interface {
	SearchByNameAndPostal(ctx context.Context, name, postalCode string) ([]models.EntrepriseSearchResult, error)
}

// Handler exposes the company search endpoint.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the search endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/insee/search", h.HandleSearch)
}

type searchResponse struct {
	Results []models.EntrepriseSearchResult `json:"results"`
}

// HandleSearch handles GET /api/insee/search?name=&postalCode=.
// Input shape is checked here with field-specific messages before the service
// runs; the service re-validates (defense in depth).
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	postalCode := strings.TrimSpace(r.URL.Query().Get("postalCode"))

	if len(name) < 2 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput,
			"Le nom de l'entreprise doit contenir au moins 2 caractères"))
		return
	}
	if postalCode != "" && !postalCodeRe.MatchString(postalCode) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput,
			"Le code postal doit contenir exactement 5 chiffres"))
		return
	}

	results, err := h.service.SearchByNameAndPostal(ctx, name, postalCode)
	if err != nil {
		h.logger.ErrorContext(ctx, "company search failed",
			"request_id", requestID,
			"name", name,
			"postal_code", postalCode,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "company search",
		"request_id", requestID,
		"name", name,
		"postal_code", postalCode,
		"results", len(results),
	)

	httputil.WriteJSON(w, http.StatusOK, searchResponse{Results: results})
}
