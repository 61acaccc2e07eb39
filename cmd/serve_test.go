package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/people-analytics/mailing-cli/internal/config"
)

func setTestConfig(t *testing.T) {
	t.Helper()
	root := t.TempDir()

	prev := cfg
	t.Cleanup(func() { cfg = prev })

	cfg = &config.Config{}
	cfg.Paths.Input = filepath.Join(root, "input")
	cfg.Paths.Output = filepath.Join(root, "mailing")
	cfg.Paths.Central = filepath.Join(root, "central")
	cfg.Paths.Report = filepath.Join(root, "report")
	cfg.Server.Port = 0
}

func TestServeHealth(t *testing.T) {
	setTestConfig(t)
	mux := newServeMux(context.Background())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestServeTriggerBadBody(t *testing.T) {
	setTestConfig(t)
	mux := newServeMux(context.Background())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/runs", strings.NewReader("{not json"))
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServeTriggerAccepted(t *testing.T) {
	setTestConfig(t)
	mux := newServeMux(context.Background())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/runs", strings.NewReader(`{"group":"manha"}`))
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), `"accepted"`)
}
