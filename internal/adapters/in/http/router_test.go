package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouterConfig(rps float64, burst int) RouterConfig {
	return RouterConfig{
		Server:         NewServer(Handlers{}),
		Verifier:       NewJWTVerifier("s3cret"),
		Resolver:       &mockActorResolver{},
		RateLimitRPS:   rps,
		RateLimitBurst: burst,
	}
}

func TestNewEcho_Health(t *testing.T) {
	e := NewEcho(testRouterConfig(0, 0))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"junkos"}`, rec.Body.String())
}

func TestNewEcho_RateLimitsPerIP(t *testing.T) {
	e := NewEcho(testRouterConfig(0.001, 2))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.RemoteAddr = "203.0.113.9:4000"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.RemoteAddr = "198.51.100.4:4000"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewEcho_ProtectedRoutesRequireToken(t *testing.T) {
	e := NewEcho(testRouterConfig(0, 0))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"unauthorized"`)
}

var echoParam = regexp.MustCompile(`:([a-z_]+)`)

func TestOpenAPI_DescribesEveryRoute(t *testing.T) {
	doc, err := LoadOpenAPI(context.Background())
	require.NoError(t, err)

	e := NewEcho(testRouterConfig(0, 0))
	for _, route := range e.Routes() {
		if !strings.HasPrefix(route.Path, "/api/") {
			continue
		}
		path := echoParam.ReplaceAllString(route.Path, "{$1}")
		item := doc.Paths.Find(path)
		if !assert.NotNil(t, item, "missing path %s", path) {
			continue
		}
		assert.NotNil(t, item.GetOperation(route.Method), "missing %s %s", route.Method, path)
	}
}

func TestRegisterDocs_ServesDocument(t *testing.T) {
	doc, err := LoadOpenAPI(context.Background())
	require.NoError(t, err)
	cfg := testRouterConfig(0, 0)
	cfg.Doc = doc
	e := NewEcho(cfg)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"openapi":"3.0.3"`)
}

func TestRegisterDocs_ServesSwaggerDocument(t *testing.T) {
	doc, err := LoadOpenAPI(context.Background())
	require.NoError(t, err)
	cfg := testRouterConfig(0, 0)
	cfg.Doc = doc
	e := NewEcho(cfg)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/doc.json", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "JunkOS API")
}
