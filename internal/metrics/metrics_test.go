package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(PrometheusMiddleware)
	r.Get("/api/blogs/{slug}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/blogs/{slug}", "404"))

	for _, slug := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/blogs/"+slug, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/blogs/{slug}", "404"))
	assert.Equal(t, before+2, after)
}

func TestBusinessCounters(t *testing.T) {
	before := testutil.ToFloat64(formSubmissionsTotal.WithLabelValues("newsletter", "duplicate"))
	RecordFormSubmission("newsletter", "duplicate")
	assert.Equal(t, before+1, testutil.ToFloat64(formSubmissionsTotal.WithLabelValues("newsletter", "duplicate")))

	before = testutil.ToFloat64(authAttemptsTotal.WithLabelValues("failure"))
	RecordAuthAttempt(false)
	assert.Equal(t, before+1, testutil.ToFloat64(authAttemptsTotal.WithLabelValues("failure")))

	before = testutil.ToFloat64(adminExportsTotal.WithLabelValues("leads", "csv"))
	RecordExport("leads", "csv")
	assert.Equal(t, before+1, testutil.ToFloat64(adminExportsTotal.WithLabelValues("leads", "csv")))

	UpdateDBConnections(3, 2)
	assert.Equal(t, 3.0, testutil.ToFloat64(dbConnectionsActive))
	assert.Equal(t, 2.0, testutil.ToFloat64(dbConnectionsIdle))
}
