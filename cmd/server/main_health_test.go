// Package main provides tests for the health check endpoints
package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakePinger struct {
	err error
}

func (f fakePinger) HealthCheck(context.Context) error {
	return f.err
}

func TestHealthzEndpoint(t *testing.T) {
	mux := newHealthMux("route-optimizer", fakePinger{err: errors.New("down")})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"healthy","service":"route-optimizer"}`, rec.Body.String())
}

func TestReadyzEndpoint(t *testing.T) {
	tests := []struct {
		name   string
		db     fakePinger
		code   int
		status string
	}{
		{"database reachable", fakePinger{}, http.StatusOK, `{"status":"ready","service":"route-optimizer"}`},
		{"database down", fakePinger{err: errors.New("connection refused")}, http.StatusServiceUnavailable,
			`{"status":"unavailable","service":"route-optimizer","error":"connection refused"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newHealthMux("route-optimizer", tt.db)

			req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			assert.Equal(t, tt.code, rec.Code)
			assert.JSONEq(t, tt.status, rec.Body.String())
		})
	}
}

func TestHealthEndpoint_MethodNotAllowed(t *testing.T) {
	mux := newHealthMux("route-optimizer", fakePinger{})

	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
