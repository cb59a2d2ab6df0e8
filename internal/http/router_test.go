package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/mindtrack-backend/internal/data/repos"
	"github.com/yungbote/mindtrack-backend/internal/data/repos/testutil"
	httpH "github.com/yungbote/mindtrack-backend/internal/http/handlers"
	httpMW "github.com/yungbote/mindtrack-backend/internal/http/middleware"
	"github.com/yungbote/mindtrack-backend/internal/observability"
	"github.com/yungbote/mindtrack-backend/internal/platform/dbctx"
	"github.com/yungbote/mindtrack-backend/internal/report"
	"github.com/yungbote/mindtrack-backend/internal/services"
)

type memBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (b *memBucket) Upload(_ dbctx.Context, key string, file io.Reader) error {
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = data
	return nil
}

func (b *memBucket) Download(_ context.Context, key string) (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return io.NopCloser(bytes.NewReader(b.objects[key])), nil
}

func (b *memBucket) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, key)
	return nil
}

func (b *memBucket) PublicURL(key string) string { return "https://cdn.example.test/" + key }

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gdb := testutil.FreshDB(t)
	log := testutil.Logger(t)

	userRepo := repos.NewUserRepo(gdb, log)
	tokenRepo := repos.NewUserTokenRepo(gdb, log)
	checkInRepo := repos.NewCheckInRepo(gdb, log)
	exportRepo := repos.NewReportExportRepo(gdb, log)
	metrics := observability.NewMetrics(prometheus.NewRegistry())

	authService := services.NewAuthService(gdb, log, userRepo, tokenRepo, "router-secret", time.Hour, 24*time.Hour)
	userService := services.NewUserService(gdb, log, userRepo)
	checkInService := services.NewCheckInService(gdb, log, checkInRepo, 30, metrics)
	insightService := services.NewInsightService(gdb, log, checkInRepo, nil, 30, metrics)
	renderer, err := report.NewRenderer()
	require.NoError(t, err)
	reportService := services.NewReportService(gdb, log, userRepo, checkInRepo, exportRepo, insightService,
		renderer, &memBucket{objects: map[string][]byte{}}, report.NewShareSigner("router-secret", time.Hour),
		"https://mindtrack.example.test", metrics)

	return NewRouter(RouterConfig{
		Log:             log,
		Metrics:         metrics,
		AuthHandler:     httpH.NewAuthHandler(authService),
		AuthMiddleware:  httpMW.NewAuthMiddleware(log, authService),
		UserHandler:     httpH.NewUserHandler(userService),
		CheckInHandler:  httpH.NewCheckInHandler(checkInService),
		InsightHandler:  httpH.NewInsightHandler(insightService),
		ReportHandler:   httpH.NewReportHandler(reportService),
		ResourceHandler: httpH.NewResourceHandler(),
		HealthHandler:   httpH.NewHealthHandler(),
	})
}

type client struct {
	t       *testing.T
	r       *gin.Engine
	token   string
	refresh string
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var rdr io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rdr = strings.NewReader(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(c.t, err)
			rdr = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
}

func signIn(t *testing.T, r *gin.Engine) *client {
	t.Helper()
	c := &client{t: t, r: r}
	rec := c.do(stdhttp.MethodPost, "/api/register", map[string]string{
		"email": "router@example.com", "password": "s3cret-pass", "first_name": "Sam", "last_name": "Lee",
	})
	require.Equal(t, stdhttp.StatusCreated, rec.Code, rec.Body.String())

	rec = c.do(stdhttp.MethodPost, "/api/login", map[string]string{
		"email": "router@example.com", "password": "s3cret-pass",
	})
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())
	var tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
	}
	decode(t, rec, &tokens)
	require.NotEmpty(t, tokens.AccessToken)
	assert.Equal(t, 3600, tokens.ExpiresIn)
	c.token = tokens.AccessToken
	c.refresh = tokens.RefreshToken
	return c
}

func TestPublicRoutes(t *testing.T) {
	r := newTestRouter(t)
	c := &client{t: t, r: r}

	rec := c.do(stdhttp.MethodGet, "/healthcheck", nil)
	assert.Equal(t, "ok", rec.Body.String())

	rec = c.do(stdhttp.MethodGet, "/api/resources/emergency", nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "988")

	rec = c.do(stdhttp.MethodGet, "/api/checkins", nil)
	assert.Equal(t, stdhttp.StatusUnauthorized, rec.Code)

	rec = c.do(stdhttp.MethodGet, "/api/shared/not-a-token!!", nil)
	assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)

	rec = c.do(stdhttp.MethodGet, "/metrics", nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mindtrack_http_requests_total")
}

func TestRegisterDuplicateIsConflict(t *testing.T) {
	r := newTestRouter(t)
	signIn(t, r)
	c := &client{t: t, r: r}
	rec := c.do(stdhttp.MethodPost, "/api/register", map[string]string{
		"email": "ROUTER@example.com", "password": "another-pass", "first_name": "X", "last_name": "Y",
	})
	assert.Equal(t, stdhttp.StatusConflict, rec.Code)
}

func TestCheckInFlow(t *testing.T) {
	r := newTestRouter(t)
	c := signIn(t, r)

	rec := c.do(stdhttp.MethodPost, "/api/checkins", `{"mood":7,"stress":5,"sleep":3,"energy":5,"social":3}`)
	require.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
	var verr struct {
		Error struct {
			Code   string         `json:"code"`
			Detail map[string]any `json:"detail"`
		} `json:"error"`
	}
	decode(t, rec, &verr)
	assert.Equal(t, "validation_failed", verr.Error.Code)
	assert.Equal(t, "mood", verr.Error.Detail["field"])

	rec = c.do(stdhttp.MethodPost, "/api/checkins", `{"mood":2,"stress":"8","sleepQuality":2,"energy":3,"socialConnection":2,"timestamp":"2024-04-01T08:00:00Z"}`)
	require.Equal(t, stdhttp.StatusCreated, rec.Code, rec.Body.String())
	rec = c.do(stdhttp.MethodPost, "/api/checkins", `{"mood":4,"stress":2,"sleep":4,"energy":8,"social":4,"timestamp":"2024-04-02T08:00:00Z"}`)
	require.Equal(t, stdhttp.StatusCreated, rec.Code, rec.Body.String())
	var submitted struct {
		CheckIn struct {
			ID string `json:"id"`
		} `json:"check_in"`
		Insights struct {
			Score          int  `json:"score"`
			TrendAvailable bool `json:"trend_available"`
		} `json:"insights"`
	}
	decode(t, rec, &submitted)
	assert.Equal(t, 80, submitted.Insights.Score)
	assert.True(t, submitted.Insights.TrendAvailable)
	id := submitted.CheckIn.ID

	rec = c.do(stdhttp.MethodGet, "/api/checkins?limit=1", nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	var list struct {
		CheckIns []struct {
			ID string `json:"id"`
		} `json:"check_ins"`
	}
	decode(t, rec, &list)
	require.Len(t, list.CheckIns, 1)
	assert.Equal(t, id, list.CheckIns[0].ID)

	rec = c.do(stdhttp.MethodGet, "/api/checkins?limit=zero", nil)
	assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)

	rec = c.do(stdhttp.MethodGet, "/api/checkins/"+id+"/insights", nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"score":80`)

	rec = c.do(stdhttp.MethodGet, "/api/insights/latest", nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), id)

	rec = c.do(stdhttp.MethodGet, "/api/insights/history", nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	var hist struct {
		History []services.HistoryPoint `json:"history"`
	}
	decode(t, rec, &hist)
	require.Len(t, hist.History, 2)
	assert.Equal(t, 80, hist.History[0].Score)

	rec = c.do(stdhttp.MethodGet, "/api/checkins/not-a-uuid", nil)
	assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)
}

func TestReportExportAndShare(t *testing.T) {
	r := newTestRouter(t)
	c := signIn(t, r)

	rec := c.do(stdhttp.MethodPost, "/api/checkins", `{"mood":4,"stress":2,"sleep":4,"energy":8,"social":4,"timestamp":"2024-04-02T08:00:00Z"}`)
	require.Equal(t, stdhttp.StatusCreated, rec.Code)
	var submitted struct {
		CheckIn struct {
			ID string `json:"id"`
		} `json:"check_in"`
	}
	decode(t, rec, &submitted)

	rec = c.do(stdhttp.MethodGet, "/api/checkins/"+submitted.CheckIn.ID+"/report.png", nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "MindTrack-Wellness-Report-")

	rec = c.do(stdhttp.MethodPost, "/api/checkins/"+submitted.CheckIn.ID+"/report", nil)
	require.Equal(t, stdhttp.StatusCreated, rec.Code, rec.Body.String())
	var export services.ExportResult
	decode(t, rec, &export)
	require.True(t, strings.HasPrefix(export.ShareURL, "https://mindtrack.example.test/shared/"))

	rec = c.do(stdhttp.MethodGet, "/api/reports/"+export.ExportID.String(), nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.NotZero(t, rec.Body.Len())

	token := strings.TrimPrefix(export.ShareURL, "https://mindtrack.example.test/shared/")
	public := &client{t: t, r: r}
	rec = public.do(stdhttp.MethodGet, "/api/shared/"+token, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	var payload report.SharePayload
	decode(t, rec, &payload)
	assert.Equal(t, 80, payload.Score)
	assert.Equal(t, "Wellness Score: 80%, Latest assessment from 2024-04-02", payload.Summary)

	forged := base64.RawURLEncoding.EncodeToString([]byte(`{"score":100,"summary":"Wellness Score: 100%","timestamp":"2099-01-01T00:00:00Z"}`))
	rec = public.do(stdhttp.MethodGet, "/api/shared/"+forged, nil)
	assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	r := newTestRouter(t)
	c := signIn(t, r)

	rec := c.do(stdhttp.MethodGet, "/api/me", nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = c.do(stdhttp.MethodPatch, "/api/me", map[string]string{"timezone": "America/Chicago"})
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "America/Chicago")

	rec = c.do(stdhttp.MethodPost, "/api/logout", nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)

	rec = c.do(stdhttp.MethodGet, "/api/me", nil)
	assert.Equal(t, stdhttp.StatusUnauthorized, rec.Code)
}

func TestRefreshNeedsOnlyTheRefreshToken(t *testing.T) {
	r := newTestRouter(t)
	c := signIn(t, r)
	anon := &client{t: t, r: r}

	rec := anon.do(stdhttp.MethodPost, "/api/refresh", map[string]string{"refresh_token": c.refresh})
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())
	var tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	decode(t, rec, &tokens)
	require.NotEmpty(t, tokens.AccessToken)
	assert.NotEqual(t, c.refresh, tokens.RefreshToken)

	rec = anon.do(stdhttp.MethodPost, "/api/refresh", map[string]string{"refresh_token": c.refresh})
	assert.Equal(t, stdhttp.StatusUnauthorized, rec.Code)

	rec = anon.do(stdhttp.MethodPost, "/api/refresh", "not json")
	assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)

	next := &client{t: t, r: r, token: tokens.AccessToken}
	rec = next.do(stdhttp.MethodGet, "/api/me", nil)
	assert.Equal(t, stdhttp.StatusOK, rec.Code)
}
