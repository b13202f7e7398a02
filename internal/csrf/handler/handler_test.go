package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	csrfservice "comptepro/internal/csrf/service"
	"comptepro/pkg/testutil"
)

// HandlerSuite exercises the CSRF endpoint against a real token service, no
// mocks.
type HandlerSuite struct {
	suite.Suite
	router http.Handler
	tokens *csrfservice.Service
}

func (s *HandlerSuite) SetupTest() {
	tokens, err := csrfservice.New("test-signing-secret", time.Hour)
	require.NoError(s.T(), err)
	s.tokens = tokens

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	r := chi.NewRouter()
	New(tokens, logger).Register(r)
	s.router = r
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) TestIssue_ReturnsTokenAndSession() {
	req := testutil.NewRequest(s.T(), http.MethodGet, "/api/csrf/validate")
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[issueResponse](s.T(), rr)
	assert.True(s.T(), resp.Success)
	assert.NotEmpty(s.T(), resp.Token)
	assert.NotEmpty(s.T(), resp.SessionID)

	// The issued pair must verify.
	assert.True(s.T(), s.tokens.VerifyToken(resp.Token, resp.SessionID))
}

func (s *HandlerSuite) TestVerify_MissingTokenHeader() {
	sessionID := s.tokens.IssueSession()

	req := testutil.NewRequest(s.T(), http.MethodPost, "/api/csrf/validate")
	req.Header.Set(HeaderSession, sessionID)
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	testutil.AssertErrorMessage(s.T(), rr, "En-tête x-csrf-token manquant")
}

func (s *HandlerSuite) TestVerify_MissingSessionHeader() {
	sessionID := s.tokens.IssueSession()
	token, err := s.tokens.GenerateToken(sessionID)
	require.NoError(s.T(), err)

	req := testutil.NewRequest(s.T(), http.MethodPost, "/api/csrf/validate")
	req.Header.Set(HeaderToken, token)
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	testutil.AssertErrorMessage(s.T(), rr, "En-tête x-session-id manquant")
}

func (s *HandlerSuite) TestVerify_InvalidToken() {
	sessionID := s.tokens.IssueSession()

	req := testutil.NewRequest(s.T(), http.MethodPost, "/api/csrf/validate")
	req.Header.Set(HeaderToken, "definitely-not-a-valid-token")
	req.Header.Set(HeaderSession, sessionID)
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusForbidden)
}

func (s *HandlerSuite) TestVerify_WrongSession() {
	token, err := s.tokens.GenerateToken(s.tokens.IssueSession())
	require.NoError(s.T(), err)

	req := testutil.NewRequest(s.T(), http.MethodPost, "/api/csrf/validate")
	req.Header.Set(HeaderToken, token)
	req.Header.Set(HeaderSession, s.tokens.IssueSession())
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusForbidden)
}

func (s *HandlerSuite) TestVerify_ValidPair() {
	sessionID := s.tokens.IssueSession()
	token, err := s.tokens.GenerateToken(sessionID)
	require.NoError(s.T(), err)

	req := testutil.NewRequest(s.T(), http.MethodPost, "/api/csrf/validate")
	req.Header.Set(HeaderToken, token)
	req.Header.Set(HeaderSession, sessionID)
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[verifyResponse](s.T(), rr)
	assert.True(s.T(), resp.Success)
	assert.Equal(s.T(), sessionID, resp.SessionID)
}

func TestExtractHeaders_TrimsWhitespace(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/csrf/validate", nil)
	req.Header.Set(HeaderToken, "  tok  ")
	req.Header.Set(HeaderSession, " sess ")

	token, sessionID, err := ExtractHeaders(req)
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.Equal(t, "sess", sessionID)
}
