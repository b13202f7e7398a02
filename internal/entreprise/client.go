// Package entreprise looks companies up in the national business registry
// (Sirene) and normalizes the records for the registration form.
package entreprise

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	dErrors "comptepro/pkg/domain-errors"

	"comptepro/internal/entreprise/models"
)

// ErrNoMatch is returned by clients when the registry answers 404: no
// establishment matches the query. Callers decide whether that is an empty
// result set or a nil record.
var ErrNoMatch = errors.New("no matching establishment")

// SireneClient issues search queries against the registry. The interface is
// kept small so tests can stub it with a call-counting spy.
type SireneClient interface {
	Search(ctx context.Context, query string, limit int) ([]models.Etablissement, error)
}

// HTTPSireneClient is the production client for the Sirene REST API.
type HTTPSireneClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPSireneClient builds the registry client. timeout bounds each request;
// a timed-out call surfaces as a transport error.
func NewHTTPSireneClient(baseURL, apiKey string, timeout time.Duration) *HTTPSireneClient {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &HTTPSireneClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				MaxIdleConnsPerHost: 2,
			},
		},
	}
}

// Search runs one GET against the /siret search endpoint and returns the raw
// establishment records in upstream order.
func (c *HTTPSireneClient) Search(ctx context.Context, query string, limit int) ([]models.Etablissement, error) {
	searchURL := fmt.Sprintf("%s/siret?q=%s&nombre=%d", c.baseURL, url.QueryEscape(query), limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build registry request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json;charset=utf-8")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeTransport, "Le registre des entreprises est injoignable")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, dErrors.New(dErrors.CodeUpstreamAuth, "Clé API invalide ou expirée (401)")
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, dErrors.New(dErrors.CodeRateLimitedUpstream, "Trop de requêtes vers le registre des entreprises")
	case resp.StatusCode == http.StatusNotFound:
		// Sirene answers 404 for an empty result set.
		return nil, ErrNoMatch
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, dErrors.Newf(dErrors.CodeUpstream, "registry returned status %d", resp.StatusCode)
	}

	var body models.SireneResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUpstream, "failed to decode registry response")
	}

	return body.Etablissements, nil
}
