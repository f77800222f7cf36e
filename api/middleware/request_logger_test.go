// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/devshare/log"
)

// mockLogger is a simple logger implementation for testing purposes
type mockLogger struct {
	loggedData []any
}

func (m *mockLogger) With(_ ...any) log.Logger {
	return m
}

func (m *mockLogger) Log(_ slog.Level, _ string, _ ...any) {}

func (m *mockLogger) Trace(_ string, _ ...any) {}

func (m *mockLogger) Write(_ slog.Level, _ string, _ ...any) {}

func (m *mockLogger) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func (m *mockLogger) Handler() slog.Handler { return nil }

func (m *mockLogger) New(_ ...any) log.Logger { return m }

func (m *mockLogger) Debug(_ string, _ ...any) {}

func (m *mockLogger) Error(_ string, _ ...any) {}

func (m *mockLogger) Crit(_ string, _ ...any) {}

func (m *mockLogger) Info(_ string, ctx ...any) {
	m.loggedData = append(m.loggedData, ctx...)
}

func (m *mockLogger) Warn(_ string, ctx ...any) {
	m.loggedData = append(m.loggedData, ctx...)
}

func (m *mockLogger) GetLoggedData() []any {
	return m.loggedData
}

func TestRequestLoggerHandler(t *testing.T) {
	ok := func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
	status := func(code int) http.HandlerFunc {
		return func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(code)
		}
	}
	slow := func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(15 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}

	tests := []struct {
		name                 string
		handler              http.HandlerFunc
		enabled              bool
		slowQueriesThreshold time.Duration
		log5xxErrors         bool
		expectedStatusCode   int
		shouldLog            bool
	}{
		{"all logging enabled", ok, true, 0, false, http.StatusOK, true},
		{"all logging disabled", ok, false, 0, false, http.StatusOK, false},
		{"slow query over threshold", slow, false, 10 * time.Millisecond, false, http.StatusOK, true},
		{"fast query under threshold", ok, false, time.Second, false, http.StatusOK, false},
		{"5xx logged", status(http.StatusInternalServerError), false, 0, true, http.StatusInternalServerError, true},
		{"5xx not logged when disabled", status(http.StatusServiceUnavailable), false, 0, false, http.StatusServiceUnavailable, false},
		{"4xx not logged", status(http.StatusBadRequest), false, 0, true, http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockLog := &mockLogger{}
			var enabled atomic.Bool
			enabled.Store(tt.enabled)

			handler := RequestLoggerMiddleware(mockLog, &enabled, tt.slowQueriesThreshold, tt.log5xxErrors)(tt.handler)

			req := httptest.NewRequest(http.MethodPost, "http://example.com/calls", strings.NewReader("test body"))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatusCode, rr.Code)

			loggedData := mockLog.GetLoggedData()
			if !tt.shouldLog {
				assert.Empty(t, loggedData)
				return
			}
			assert.Contains(t, loggedData, "URI")
			assert.Contains(t, loggedData, "http://example.com/calls")
			assert.Contains(t, loggedData, "Method")
			assert.Contains(t, loggedData, http.MethodPost)
			assert.Contains(t, loggedData, "Body")
			assert.Contains(t, loggedData, "test body")
			assert.Contains(t, loggedData, "StatusCode")
			assert.Contains(t, loggedData, tt.expectedStatusCode)
		})
	}
}
