package entreprise

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	dErrors "comptepro/pkg/domain-errors"

	"comptepro/internal/entreprise/metrics"
	"comptepro/internal/entreprise/models"
)

const searchResultLimit = 20

var (
	postalCodeRe = regexp.MustCompile(`^\d{5}$`)
	sirenRe      = regexp.MustCompile(`^\d{9}$`)
)

// Service validates search requests, calls the registry, and normalizes the
// results. It keeps a short-lived response cache so form retries do not hammer
// the upstream API.
type Service struct {
	client  SireneClient
	apiKey  string
	logger  *slog.Logger
	metrics *metrics.Metrics
	cache   *gocache.Cache
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithCacheTTL enables the search-response cache. Zero disables it.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cache = gocache.New(ttl, 2*ttl)
		}
	}
}

// New constructs the registry service. The API key is checked per call, not
// here, so a misconfigured deployment still boots and reports the fault on
// first use without ever reaching the network.
func New(client SireneClient, apiKey string, opts ...Option) (*Service, error) {
	if client == nil {
		return nil, errors.New("sirene client is required")
	}
	svc := &Service{
		client: client,
		apiKey: apiKey,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// SearchByNameAndPostal looks establishments up by company name, optionally
// narrowed to a postal code. Result order is the upstream's; an empty result
// set is not an error.
func (s *Service) SearchByNameAndPostal(ctx context.Context, name, postalCode string) ([]models.EntrepriseSearchResult, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "name too short")
	}
	if postalCode != "" && !postalCodeRe.MatchString(postalCode) {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid postal code")
	}
	if s.apiKey == "" {
		return nil, dErrors.New(dErrors.CodeConfiguration, "missing API key")
	}

	cacheKey := "name:" + strings.ToUpper(name) + "|" + postalCode
	if cached, ok := s.cachedResults(cacheKey); ok {
		return cached, nil
	}

	query := fmt.Sprintf("denominationUniteLegale:%q", strings.ToUpper(name))
	if postalCode != "" {
		query += " AND codePostalEtablissement:" + postalCode
	}

	results, err := s.search(ctx, query)
	if err != nil {
		if errors.Is(err, ErrNoMatch) {
			// Upstream signals an empty result set as 404.
			results = []models.EntrepriseSearchResult{}
		} else {
			return nil, err
		}
	}

	s.storeResults(cacheKey, results)
	return results, nil
}

// SearchBySiren fetches a single company by its 9-digit SIREN. Returns nil
// without error when no such company exists.
func (s *Service) SearchBySiren(ctx context.Context, siren string) (*models.EntrepriseSearchResult, error) {
	if !sirenRe.MatchString(siren) {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid SIREN format")
	}
	if s.apiKey == "" {
		return nil, dErrors.New(dErrors.CodeConfiguration, "missing API key")
	}

	results, err := s.search(ctx, "siren:"+siren)
	if err != nil {
		if errors.Is(err, ErrNoMatch) {
			return nil, nil
		}
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

func (s *Service) search(ctx context.Context, query string) ([]models.EntrepriseSearchResult, error) {
	start := time.Now()

	etablissements, err := s.client.Search(ctx, query, searchResultLimit)
	if err != nil {
		if !errors.Is(err, ErrNoMatch) {
			s.recordSearch("error", start)
			s.logger.WarnContext(ctx, "registry search failed",
				"error", err,
			)
			return nil, err
		}
		s.recordSearch("empty", start)
		return nil, err
	}

	results := make([]models.EntrepriseSearchResult, 0, len(etablissements))
	for _, etab := range etablissements {
		results = append(results, normalizeEtablissement(etab))
	}

	outcome := "ok"
	if len(results) == 0 {
		outcome = "empty"
	}
	s.recordSearch(outcome, start)
	return results, nil
}

func (s *Service) cachedResults(key string) ([]models.EntrepriseSearchResult, bool) {
	if s.cache == nil {
		return nil, false
	}
	if v, ok := s.cache.Get(key); ok {
		if results, ok := v.([]models.EntrepriseSearchResult); ok {
			if s.metrics != nil {
				s.metrics.RecordCacheHit()
			}
			return results, true
		}
	}
	return nil, false
}

func (s *Service) storeResults(key string, results []models.EntrepriseSearchResult) {
	if s.cache != nil {
		s.cache.SetDefault(key, results)
	}
}

func (s *Service) recordSearch(outcome string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordSearch(outcome, time.Since(start).Seconds())
	}
}
