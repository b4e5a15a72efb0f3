// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/metrics"
	"github.com/tomtom215/reelmatch/internal/recommend"
)

type fakeEngine struct {
	status recommend.Status
}

func (f *fakeEngine) Status() recommend.Status {
	return f.status
}

func serve(t *testing.T, engine StatusProvider, method, path string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	router := NewRouter(NewHandler(engine, zerolog.Nop()))

	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp APIResponse
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid JSON body: %v\n%s", err, rec.Body.String())
		}
	}
	return rec, resp
}

func TestRouter_Health(t *testing.T) {
	ready := &fakeEngine{status: recommend.Status{Ready: true, SnapshotID: "snap-1", Builds: 1}}
	notReady := &fakeEngine{status: recommend.Status{Builds: 1, Failures: 1, LastError: "load: boom"}}

	tests := []struct {
		name       string
		engine     StatusProvider
		path       string
		wantCode   int
		wantStatus string
	}{
		{"live before build", notReady, "/healthz/live", http.StatusOK, "success"},
		{"ready before build", notReady, "/healthz/ready", http.StatusServiceUnavailable, "not_ready"},
		{"ready after build", ready, "/healthz/ready", http.StatusOK, "ready"},
		{"status", ready, "/api/v1/status", http.StatusOK, "success"},
		{"unknown route", ready, "/api/v1/recommend", http.StatusNotFound, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := serve(t, tt.engine, http.MethodGet, tt.path)
			if rec.Code != tt.wantCode {
				t.Errorf("status code = %d, want %d", rec.Code, tt.wantCode)
			}
			if resp.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", resp.Status, tt.wantStatus)
			}
			if resp.Metadata.RequestID == "" {
				t.Error("metadata.request_id is empty")
			}
			if rec.Header().Get("X-Request-Id") != resp.Metadata.RequestID {
				t.Errorf("X-Request-Id = %q, want %q", rec.Header().Get("X-Request-Id"), resp.Metadata.RequestID)
			}
			if rec.Header().Get("ETag") == "" {
				t.Error("ETag header missing")
			}
		})
	}
}

func TestRouter_ReadyReportsLastError(t *testing.T) {
	engine := &fakeEngine{status: recommend.Status{LastError: "load: boom"}}
	rec, _ := serve(t, engine, http.MethodGet, "/healthz/ready")
	if !strings.Contains(rec.Body.String(), `"last_error":"load: boom"`) {
		t.Errorf("body = %s, want last_error", rec.Body.String())
	}
}

func TestRouter_StatusBody(t *testing.T) {
	engine := &fakeEngine{status: recommend.Status{Ready: true, SnapshotID: "snap-1", Users: 943, Items: 1682}}
	rec, _ := serve(t, engine, http.MethodGet, "/api/v1/status")

	var body struct {
		Data recommend.Status `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Data.SnapshotID != "snap-1" || body.Data.Users != 943 || body.Data.Items != 1682 {
		t.Errorf("status data = %+v", body.Data)
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	rec, resp := serve(t, &fakeEngine{}, http.MethodPost, "/healthz/live")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status code = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
	if resp.Error == nil || resp.Error.Code != "METHOD_NOT_ALLOWED" {
		t.Errorf("error = %+v, want METHOD_NOT_ALLOWED", resp.Error)
	}
}

func TestRouter_Metrics(t *testing.T) {
	rec, _ := serve(t, &fakeEngine{}, http.MethodGet, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "reelmatch_") {
		t.Error("metrics output has no reelmatch_ series")
	}
}

func TestRouter_KeepsIncomingRequestID(t *testing.T) {
	router := NewRouter(NewHandler(&fakeEngine{}, zerolog.Nop()))
	req := httptest.NewRequest(http.MethodGet, "/healthz/live", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-Id"); got != "abc-123" {
		t.Errorf("X-Request-Id = %q, want abc-123", got)
	}
}

func TestRouter_RecordsRoutePattern(t *testing.T) {
	counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/status", "200")
	before := testutil.ToFloat64(counter)

	serve(t, &fakeEngine{status: recommend.Status{Ready: true}}, http.MethodGet, "/api/v1/status")

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("APIRequestsTotal{GET,/api/v1/status,200} delta = %v, want 1", got)
	}
}
