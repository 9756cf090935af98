package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveOperation(t *testing.T) {
	m := New()
	start := time.Now()

	m.ObserveOperation("add_account", start, nil)
	m.ObserveOperation("add_account", start, nil)
	m.ObserveOperation("add_account", start, errors.New("disk full"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues("add_account", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("add_account", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.OperationDuration))
}

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodPost, "/api/v1/accounts", http.StatusNoContent, time.Now())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("POST", "/api/v1/accounts", "204")))
}

func TestInstancesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.ObserveOperation("lock_vault", time.Now(), nil)

	assert.Equal(t, 0.0, testutil.ToFloat64(b.Operations.WithLabelValues("lock_vault", "ok")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveOperation("get_vault", time.Now(), nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `credvault_backend_operations_total{op="get_vault",status="ok"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
