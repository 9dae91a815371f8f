package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/config"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/dto"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/models"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/repositories/mock"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/services"
	"github.com/ahmetcoskunkizilkaya/editor-dashboard/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type testServer struct {
	app   *fiber.App
	store *mock.Store
	auth  *services.AuthService
	cfg   *config.Config
}

func fakeGoogle(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"access-123","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sub":"g-ann","email":"ann@example.com","name":"Ann","picture":"https://img/ann.png"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T, ping func(context.Context) error) *testServer {
	t.Helper()
	cfg := &config.Config{
		Environment:        "test",
		FrontendURL:        "http://localhost:5173",
		SessionSecret:      "test-session-secret",
		SessionExpiry:      time.Hour,
		JWTSecret:          "test-jwt-secret",
		JWTExpiry:          time.Hour,
		GoogleClientID:     "client",
		GoogleClientSecret: "secret",
		GoogleCallbackURL:  "http://localhost:3001/api/auth/google/callback",
		RateLimitPerMinute: 120,
	}
	google := fakeGoogle(t)
	provider := services.NewGoogleProvider(cfg, services.WithGoogleEndpoints(oauth2.Endpoint{
		AuthURL:   google.URL + "/auth",
		TokenURL:  google.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}, google.URL+"/userinfo"))

	store := mock.NewStore()
	app := New(Deps{
		Config:   cfg,
		Users:    store.Users(),
		Blogs:    store.Blogs(),
		Comments: store.Comments(),
		Provider: provider,
		Ping:     ping,
	})
	return &testServer{app: app, store: store, auth: services.NewAuthService(store.Users(), cfg), cfg: cfg}
}

func (s *testServer) user(t *testing.T, name string, role models.Role) (*models.User, string) {
	t.Helper()
	u := &models.User{ID: uuid.New(), Email: name + "@example.com", Name: name, GoogleID: "g-" + name, Role: role}
	require.NoError(t, s.store.Users().Create(context.Background(), u))
	issued, err := s.auth.IssueToken(u)
	require.NoError(t, err)
	return u, issued.Token
}

type request struct {
	method  string
	path    string
	body    any
	token   string
	cookies []*http.Cookie
}

func (s *testServer) do(t *testing.T, r request) (*http.Response, []byte) {
	t.Helper()
	var body io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(r.method, r.path, body)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	for _, c := range r.cookies {
		req.AddCookie(c)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func TestHealthIsIdempotentAndSkipsDatabase(t *testing.T) {
	pinged := false
	s := newTestServer(t, func(context.Context) error { pinged = true; return nil })

	for i := 0; i < 2; i++ {
		resp, raw := s.do(t, request{method: http.MethodGet, path: "/api/health"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		health := decode[dto.HealthResponse](t, raw)
		assert.Equal(t, "OK", health.Status)
		assert.Equal(t, "test", health.Environment)
		_, err := time.Parse(time.RFC3339, health.TimeStamp)
		assert.NoError(t, err)
	}
	assert.False(t, pinged)

	users, blogs, comments := s.store.Counts()
	assert.Zero(t, users+blogs+comments)
}

func TestHealthIgnoresRateLimitAndTokens(t *testing.T) {
	s := newTestServer(t, nil)

	statuses := map[int]int{}
	for i := 0; i < s.cfg.RateLimitPerMinute+5; i++ {
		resp, _ := s.do(t, request{method: http.MethodGet, path: "/api/health"})
		statuses[resp.StatusCode]++
	}
	assert.Equal(t, map[int]int{http.StatusOK: s.cfg.RateLimitPerMinute + 5}, statuses)

	resp, _ := s.do(t, request{method: http.MethodGet, path: "/api/health", token: "stale-token"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = s.do(t, request{method: http.MethodGet, path: "/api/blogs", token: "stale-token"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestReadiness(t *testing.T) {
	healthy := newTestServer(t, func(context.Context) error { return nil })
	resp, _ := healthy.do(t, request{method: http.MethodGet, path: "/api/health/ready"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	down := newTestServer(t, func(context.Context) error {
		return errors.New("dial tcp 10.1.2.3:3306: connection refused")
	})
	resp, raw := down.do(t, request{method: http.MethodGet, path: "/api/health/ready"})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.NotContains(t, string(raw), "connection refused")
	assert.Equal(t, dto.ReadinessResponse{Status: "unavailable", DB: "unhealthy"}, decode[dto.ReadinessResponse](t, raw))
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, nil)

	resp, raw := s.do(t, request{method: http.MethodGet, path: "/api/nope"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, dto.ErrorResponse{Error: true, Message: "Route not found"}, decode[dto.ErrorResponse](t, raw))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	s.do(t, request{method: http.MethodGet, path: "/api/health"})

	resp, raw := s.do(t, request{method: http.MethodGet, path: "/metrics"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "editor_dashboard_http_requests_total")
}

func TestCreateBlogWithoutIdentityIsRejected(t *testing.T) {
	s := newTestServer(t, nil)

	resp, raw := s.do(t, request{method: http.MethodPost, path: "/api/blogs", body: dto.CreateBlogRequest{Title: "t", Content: "c"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.True(t, decode[dto.ErrorResponse](t, raw).Error)

	resp, _ = s.do(t, request{method: http.MethodPost, path: "/api/blogs", body: dto.CreateBlogRequest{Title: "t", Content: "c"}, token: "forged"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, blogs, _ := s.store.Counts()
	assert.Zero(t, blogs)
}

func TestBlogRoundTrip(t *testing.T) {
	s := newTestServer(t, nil)
	author, token := s.user(t, "author", models.RoleGeneral)

	resp, raw := s.do(t, request{method: http.MethodPost, path: "/api/blogs", token: token,
		body: dto.CreateBlogRequest{Title: "My first post", Content: "Hello world"}})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	created := decode[models.Blog](t, raw)
	assert.Equal(t, author.ID, created.AuthorID)
	assert.Equal(t, models.StatusDraft, created.Status)

	resp, raw = s.do(t, request{method: http.MethodGet, path: "/api/blogs/" + created.ID.String(), token: token})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[models.Blog](t, raw)
	assert.Equal(t, "My first post", got.Title)
	assert.Equal(t, "Hello world", got.Content)
	assert.Equal(t, models.StatusDraft, got.Status)

	resp, _ = s.do(t, request{method: http.MethodGet, path: "/api/blogs/" + created.ID.String()})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "drafts are hidden from anonymous readers")

	resp, raw = s.do(t, request{method: http.MethodGet, path: "/api/blogs?limit=5"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.BlogListResponse](t, raw)
	assert.Zero(t, list.Total)
	assert.Equal(t, 5, list.Limit)
}

func TestBlogValidationAndBadIDs(t *testing.T) {
	s := newTestServer(t, nil)
	_, token := s.user(t, "author", models.RoleGeneral)

	resp, raw := s.do(t, request{method: http.MethodPost, path: "/api/blogs", token: token, body: dto.CreateBlogRequest{Content: "no title"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode[dto.ErrorResponse](t, raw).Message, "title")

	resp, _ = s.do(t, request{method: http.MethodGet, path: "/api/blogs/not-a-uuid"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.do(t, request{method: http.MethodGet, path: "/api/blogs?status=bogus"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, raw = s.do(t, request{method: http.MethodPost, path: "/api/blogs", token: token, body: dto.CreateBlogRequest{Title: "t", Content: "c"}})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	blog := decode[models.Blog](t, raw)

	resp, _ = s.do(t, request{method: http.MethodPut, path: "/api/blogs/" + blog.ID.String(), token: token, body: map[string]string{"status": ""}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateByNonOwnerIsForbidden(t *testing.T) {
	s := newTestServer(t, nil)
	_, ownerToken := s.user(t, "owner", models.RoleGeneral)
	_, strangerToken := s.user(t, "stranger", models.RoleGeneral)
	_, editorToken := s.user(t, "editor", models.RoleEditor)

	_, raw := s.do(t, request{method: http.MethodPost, path: "/api/blogs", token: ownerToken,
		body: dto.CreateBlogRequest{Title: "Original", Content: "Body"}})
	blog := decode[models.Blog](t, raw)
	path := "/api/blogs/" + blog.ID.String()

	resp, _ := s.do(t, request{method: http.MethodPut, path: path, token: editorToken, body: map[string]string{"status": "published"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = s.do(t, request{method: http.MethodPut, path: path, token: strangerToken, body: map[string]string{"title": "Hijacked"}})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = s.do(t, request{method: http.MethodDelete, path: path, token: strangerToken})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	_, raw = s.do(t, request{method: http.MethodGet, path: path})
	assert.Equal(t, "Original", decode[models.Blog](t, raw).Title)

	resp, _ = s.do(t, request{method: http.MethodPut, path: path, token: ownerToken, body: map[string]string{"title": "Renamed"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCommentsAndLikes(t *testing.T) {
	s := newTestServer(t, nil)
	_, editorToken := s.user(t, "editor", models.RoleEditor)
	_, readerToken := s.user(t, "reader", models.RoleGeneral)

	_, raw := s.do(t, request{method: http.MethodPost, path: "/api/blogs", token: editorToken,
		body: dto.CreateBlogRequest{Title: "Published", Content: "Body", Status: "published"}})
	blog := decode[models.Blog](t, raw)
	blogPath := "/api/blogs/" + blog.ID.String()

	resp, raw := s.do(t, request{method: http.MethodPost, path: blogPath + "/comments", token: readerToken, body: dto.CommentRequest{Content: "Great read"}})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	comment := decode[models.Comment](t, raw)

	resp, raw = s.do(t, request{method: http.MethodGet, path: blogPath + "/comments"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, decode[dto.CommentListResponse](t, raw).Total)

	_, raw = s.do(t, request{method: http.MethodGet, path: blogPath})
	assert.Equal(t, 1, decode[models.Blog](t, raw).CommentsCount)

	resp, raw = s.do(t, request{method: http.MethodPost, path: blogPath + "/like", token: readerToken})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, decode[dto.LikeResponse](t, raw).LikesCount)

	resp, _ = s.do(t, request{method: http.MethodPut, path: "/api/comments/" + comment.ID.String(), token: editorToken, body: dto.CommentRequest{Content: "edited"}})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = s.do(t, request{method: http.MethodDelete, path: "/api/comments/" + comment.ID.String(), token: readerToken})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, raw = s.do(t, request{method: http.MethodGet, path: blogPath})
	assert.Equal(t, 0, decode[models.Blog](t, raw).CommentsCount)
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t, nil)
	_, adminToken := s.user(t, "admin", models.RoleAdmin)
	target, generalToken := s.user(t, "general", models.RoleGeneral)

	resp, _ := s.do(t, request{method: http.MethodGet, path: "/api/admin/users", token: generalToken})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw := s.do(t, request{method: http.MethodGet, path: "/api/admin/users", token: adminToken})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, decode[dto.UserListResponse](t, raw).Total)

	resp, raw = s.do(t, request{method: http.MethodPut, path: "/api/admin/users/" + target.ID.String() + "/role", token: adminToken, body: dto.UpdateRoleRequest{Role: "editor"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.RoleEditor, decode[models.User](t, raw).Role)

	resp, raw = s.do(t, request{method: http.MethodPost, path: "/api/admin/blogs/recount", token: adminToken})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Zero(t, decode[dto.RecountResponse](t, raw).Updated)

	resp, _ = s.do(t, request{method: http.MethodDelete, path: "/api/admin/users/" + target.ID.String(), token: adminToken})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = s.do(t, request{method: http.MethodGet, path: "/api/auth/me", token: generalToken})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "token of a deleted user")
}

func TestGoogleLoginSessionFlow(t *testing.T) {
	s := newTestServer(t, nil)

	resp, _ := s.do(t, request{method: http.MethodGet, path: "/api/auth/google"})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	consent, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	state := consent.Query().Get("state")
	require.NotEmpty(t, state)
	loginCookie := sessionCookie(resp)
	require.NotNil(t, loginCookie)

	resp, _ = s.do(t, request{method: http.MethodGet, path: "/api/auth/google/callback?code=good-code&state=wrong", cookies: []*http.Cookie{loginCookie}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = s.do(t, request{method: http.MethodGet,
		path:    "/api/auth/google/callback?code=good-code&state=" + url.QueryEscape(state),
		cookies: []*http.Cookie{loginCookie}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	redirect, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/auth/callback", redirect.Path)
	token := redirect.Query().Get("token")
	require.NotEmpty(t, token)
	userCookie := sessionCookie(resp)
	require.NotNil(t, userCookie)

	resp, raw := s.do(t, request{method: http.MethodGet, path: "/api/auth/me", cookies: []*http.Cookie{userCookie}})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	me := decode[models.User](t, raw)
	assert.Equal(t, "ann@example.com", me.Email)
	assert.Equal(t, models.RoleGeneral, me.Role)

	resp, raw = s.do(t, request{method: http.MethodGet, path: "/api/auth/me", token: token})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, me.ID, decode[models.User](t, raw).ID)

	resp, raw = s.do(t, request{method: http.MethodPost, path: "/api/auth/token", cookies: []*http.Cookie{userCookie}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, decode[dto.TokenResponse](t, raw).Token)

	resp, _ = s.do(t, request{method: http.MethodPost, path: "/api/auth/logout", cookies: []*http.Cookie{userCookie}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = s.do(t, request{method: http.MethodGet, path: "/api/auth/me", cookies: []*http.Cookie{userCookie}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGoogleCallbackFailures(t *testing.T) {
	s := newTestServer(t, nil)

	resp, _ := s.do(t, request{method: http.MethodGet, path: "/api/auth/google/callback?error=access_denied"})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173/login?error=access_denied", resp.Header.Get("Location"))

	resp, _ = s.do(t, request{method: http.MethodGet, path: "/api/auth/google/callback?code=good-code"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "no state in session")

	resp, _ = s.do(t, request{method: http.MethodGet, path: "/api/auth/google"})
	consent, _ := url.Parse(resp.Header.Get("Location"))
	resp, _ = s.do(t, request{method: http.MethodGet,
		path:    "/api/auth/google/callback?code=bad-code&state=" + url.QueryEscape(consent.Query().Get("state")),
		cookies: []*http.Cookie{sessionCookie(resp)}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	users, _, _ := s.store.Counts()
	assert.Zero(t, users)
}

func TestLogoutWithoutSession(t *testing.T) {
	s := newTestServer(t, nil)

	resp, raw := s.do(t, request{method: http.MethodPost, path: "/api/auth/logout"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Logged out successfully", decode[dto.MessageResponse](t, raw).Message)
}
