package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest_CountsByOpAndCode(t *testing.T) {
	m := New()

	m.ObserveRequest("projects.list", 200, 10*time.Millisecond)
	m.ObserveRequest("projects.list", 200, 20*time.Millisecond)
	m.ObserveRequest("projects.delete", 500, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("projects.list", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("projects.delete", "500")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.RequestDuration))
}

func TestRecordError(t *testing.T) {
	m := New()
	m.RecordError("auth.me", "auth")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("auth.me", "auth")))
}

func TestSetSessionState_OnlyOneActive(t *testing.T) {
	m := New()
	all := []string{"unknown", "authenticated", "anonymous"}

	m.SetSessionState("unknown", all...)
	m.SetSessionState("authenticated", all...)

	assert.Equal(t, 0.0, testutil.ToFloat64(m.SessionState.WithLabelValues("unknown")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionState.WithLabelValues("authenticated")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SessionState.WithLabelValues("anonymous")))
}

func TestHandler_ServesExposition(t *testing.T) {
	m := New()
	m.ObserveRequest("docs.list", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "docsmith_api_requests_total")
}
