package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/innofeed-labs/innofeed-engine/pkg/apperrors"
	"github.com/innofeed-labs/innofeed-engine/pkg/config"
	"github.com/innofeed-labs/innofeed-engine/pkg/models"
)

type fakeAuthService struct {
	registerID  int64
	registerErr error
	loginUser   *models.User
	loginErr    error
}

func (s *fakeAuthService) Register(_ context.Context, name, email, password string) (int64, error) {
	return s.registerID, s.registerErr
}

func (s *fakeAuthService) Login(_ context.Context, email, password string) (*models.User, error) {
	return s.loginUser, s.loginErr
}

type fakePreferenceService struct {
	setUserID  int64
	setDomains []int64
	setErr     error
	domains    []models.Domain
	listErr    error
}

func (s *fakePreferenceService) Set(_ context.Context, userID int64, domainIDs []int64) error {
	s.setUserID = userID
	s.setDomains = domainIDs
	return s.setErr
}

func (s *fakePreferenceService) ListDomains(context.Context) ([]models.Domain, error) {
	return s.domains, s.listErr
}

type fakeFeedService struct {
	feed *models.Feed
	err  error
}

func (s *fakeFeedService) GetFeed(_ context.Context, userID int64) (*models.Feed, error) {
	return s.feed, s.err
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func TestRootBanner(t *testing.T) {
	mux := http.NewServeMux()
	NewHealthHandler(&config.Config{Version: "test", Env: "test"}, zap.NewNop()).RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "innofeed-engine running", body["message"])
}

func TestPing(t *testing.T) {
	handler := NewHealthHandler(&config.Config{Version: "1.0.0", Env: "test"}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	handler.Ping(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body PingResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "1.0.0", body.Version)
	assert.Equal(t, "innofeed-engine", body.Service)
}

func TestRegister_Success(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthService{registerID: 42}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"name":"Marie","email":"marie@example.com","password":"pw"}`))
	rec := httptest.NewRecorder()
	handler.Register(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body RegisterResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "User registered successfully", body.Message)
	assert.Equal(t, int64(42), body.UserID)
}

func TestRegister_EmailTaken(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthService{registerErr: apperrors.ErrEmailTaken}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"email":"dup@example.com","password":"pw"}`))
	rec := httptest.NewRecorder()
	handler.Register(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "Email already registered", body["message"])
}

func TestRegister_MissingFields(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthService{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"name":"NoCreds"}`))
	rec := httptest.NewRecorder()
	handler.Register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister_BadBody(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthService{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	handler.Register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_Success(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthService{
		loginUser: &models.User{ID: 7, Email: "marie@example.com", Name: "Marie"},
	}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"email":"marie@example.com","password":"pw"}`))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body LoginResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "Login successful", body.Message)
	assert.Equal(t, int64(7), body.UserID)
	assert.Equal(t, "Marie", body.Name)
}

func TestLogin_NameFallsBackToEmailLocalPart(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthService{
		loginUser: &models.User{ID: 8, Email: "curie@example.com"},
	}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"email":"curie@example.com","password":"pw"}`))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body LoginResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "curie", body.Name)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthService{loginErr: apperrors.ErrInvalidCredentials}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"email":"x@example.com","password":"wrong"}`))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "Invalid email or password", body["message"])
}

func TestSetPreferences(t *testing.T) {
	svc := &fakePreferenceService{}
	mux := http.NewServeMux()
	NewPreferenceHandler(svc, zap.NewNop()).RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodPost, "/set-preferences/5",
		strings.NewReader(`{"domain_ids":[1,3]}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5), svc.setUserID)
	assert.Equal(t, []int64{1, 3}, svc.setDomains)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "Preferences updated successfully", body["message"])
}

func TestSetPreferences_InvalidUserID(t *testing.T) {
	mux := http.NewServeMux()
	NewPreferenceHandler(&fakePreferenceService{}, zap.NewNop()).RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodPost, "/set-preferences/abc",
		strings.NewReader(`{"domain_ids":[1]}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListDomains(t *testing.T) {
	svc := &fakePreferenceService{domains: []models.Domain{
		{ID: 1, Name: "AI"},
		{ID: 2, Name: "Robotics"},
	}}
	mux := http.NewServeMux()
	NewPreferenceHandler(svc, zap.NewNop()).RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/domains", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body []models.Domain
	decodeBody(t, rec, &body)
	require.Len(t, body, 2)
	assert.Equal(t, "AI", body[0].Name)
}

func TestGetFeed(t *testing.T) {
	date := "2024-03-01T12:00:00Z"
	arxivID := "2403.00001v1"
	svc := &fakeFeedService{feed: &models.Feed{
		UserID: 9,
		Entries: []models.FeedItem{{
			ID: 1, Type: models.TypePaper, Title: "Wanted",
			Date:            &date,
			PaperFeedFields: &models.PaperFeedFields{ArxivID: &arxivID, Categories: "cs.AI"},
		}},
	}}

	mux := http.NewServeMux()
	NewFeedHandler(svc, zap.NewNop()).RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/feed/9", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.RawMessage
	decodeBody(t, rec, &body)
	require.Contains(t, body, "feed")

	var entries []map[string]any
	require.NoError(t, json.Unmarshal(body["feed"], &entries))
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, "Wanted", entry["title"])
	assert.Equal(t, "2403.00001v1", entry["arxiv_id"])
	_, hasPatentField := entry["application_number"]
	assert.False(t, hasPatentField, "paper entries must not expose patent keys")
}

func TestGetFeed_EmptyFeedMessage(t *testing.T) {
	svc := &fakeFeedService{feed: &models.Feed{
		UserID:  3,
		Entries: []models.FeedItem{},
		Message: "No domain preferences found for this user.",
	}}

	mux := http.NewServeMux()
	NewFeedHandler(svc, zap.NewNop()).RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/feed/3", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"feed":[]`)
	assert.Contains(t, rec.Body.String(), "No domain preferences found")
}

func TestGetFeed_ServiceFailure(t *testing.T) {
	svc := &fakeFeedService{err: errors.New("db down")}
	mux := http.NewServeMux()
	NewFeedHandler(svc, zap.NewNop()).RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/feed/3", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
