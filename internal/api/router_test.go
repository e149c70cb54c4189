package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projecthelena/greetpay/internal/config"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	router := NewRouter(&cfg, fixedClock)
	ts := httptest.NewServer(router)
	t.Cleanup(func() {
		ts.Close()
		router.Close()
	})
	return ts
}

func TestRouter_Endpoints(t *testing.T) {
	ts := newTestServer(t, nil)
	client := ts.Client()

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{"healthz", http.MethodGet, "/api/healthz", "", http.StatusOK, "ok"},
		{"greeting", http.MethodGet, "/api/user?name=Alice", "", http.StatusOK, `{"message":"Hello, Alice!","timestamp":"2024-01-01 12:00:00.000"}`},
		{"greeting without name", http.MethodGet, "/api/user", "", http.StatusBadRequest, `{"error":"missing required query parameter: name"}`},
		{"payment", http.MethodPost, "/api/payment", `{"amount":10}`, http.StatusOK, `{"amount":10,"timestamp":"2024-01-01 12:00:00.000"}`},
		{"payment malformed", http.MethodPost, "/api/payment", `{`, http.StatusBadRequest, `{"error":"request body is not valid JSON"}`},
		{"unknown route", http.MethodGet, "/api/nope", "", http.StatusNotFound, `{"error":"not found"}`},
		{"wrong method", http.MethodPost, "/api/healthz", "", http.StatusMethodNotAllowed, `{"error":"method not allowed"}`},
		{"payment via GET", http.MethodGet, "/api/payment", "", http.StatusMethodNotAllowed, `{"error":"method not allowed"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, ts.URL+tt.path, strings.NewReader(tt.body))
			require.NoError(t, err)
			resp, err := client.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			require.Equal(t, tt.wantStatus, resp.StatusCode, string(body))
			if strings.HasPrefix(tt.wantBody, "{") {
				assert.JSONEq(t, tt.wantBody, string(body))
			} else {
				assert.Equal(t, tt.wantBody, string(body))
			}
		})
	}
}

func TestRouter_RateLimitsAPI(t *testing.T) {
	ts := newTestServer(t, func(c *config.Config) {
		c.RateLimitRPS = 0.001
		c.RateLimitBurst = 1
	})
	client := ts.Client()

	resp, err := client.Get(ts.URL + "/api/user?name=a")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = client.Get(ts.URL + "/api/user?name=a")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestRouter_RateLimitDisabled(t *testing.T) {
	ts := newTestServer(t, func(c *config.Config) {
		c.RateLimitRPS = 0
		c.RateLimitBurst = 0
	})
	client := ts.Client()

	for i := 0; i < 20; i++ {
		resp, err := client.Post(ts.URL+"/api/payment", "application/json", bytes.NewBufferString(`{}`))
		require.NoError(t, err)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

func TestRouter_PaymentBodyLimit(t *testing.T) {
	ts := newTestServer(t, func(c *config.Config) { c.MaxBodyBytes = 32 })

	resp, err := ts.Client().Post(ts.URL+"/api/payment", "application/json",
		strings.NewReader(`{"memo":"`+strings.Repeat("x", 100)+`"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestRouter_Docs(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := ts.Client().Get(ts.URL + "/api/docs/doc.json")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc struct {
		BasePath string                    `json:"basePath"`
		Paths    map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Equal(t, "/api", doc.BasePath)
	assert.Contains(t, doc.Paths, "/healthz")
	assert.Contains(t, doc.Paths["/user"], "get")
	assert.Contains(t, doc.Paths["/payment"], "post")
}

func TestRouter_Metrics(t *testing.T) {
	cfg := config.Default()
	router := NewRouter(&cfg, fixedClock)
	defer router.Close()

	for i := 0; i < 2; i++ {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/healthz", nil))
	}
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/user", nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `greetpay_http_requests_total{method="GET",route="/api/healthz",status="200"} 2`)
	assert.Contains(t, body, `greetpay_http_requests_total{method="GET",route="/api/user",status="400"} 1`)
	assert.Contains(t, body, `greetpay_http_request_duration_seconds_bucket{method="GET",route="/api/healthz"`)
}

func TestRouter_TrustProxy(t *testing.T) {
	ts := newTestServer(t, func(c *config.Config) {
		c.TrustProxy = true
		c.RateLimitRPS = 0.001
		c.RateLimitBurst = 1
	})
	client := ts.Client()

	get := func(forwardedFor string) int {
		req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/user?name=a", nil)
		require.NoError(t, err)
		req.Header.Set("X-Forwarded-For", forwardedFor)
		resp, err := client.Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusOK, get("203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, get("203.0.113.1"))
	assert.Equal(t, http.StatusOK, get("203.0.113.2"), "buckets follow the forwarded client")
}
