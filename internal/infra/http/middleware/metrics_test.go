package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/leads/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/leads/{id}", "404"))
	for _, id := range []string{"1", "2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leads/"+id, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/leads/{id}", "404"))
	assert.Equal(t, 2.0, after-before)
}

func TestRecordRemoteCall(t *testing.T) {
	before := testutil.ToFloat64(remoteCallsTotal.WithLabelValues("lead", "update", "error"))
	RecordRemoteCall("lead", "update", 20*time.Millisecond, errors.New("boom"))
	RecordRemoteCall("lead", "update", 10*time.Millisecond, nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(remoteCallsTotal.WithLabelValues("lead", "update", "error"))-before)
}

func TestAutosaveMetrics(t *testing.T) {
	before := testutil.ToFloat64(autosaveCommits.WithLabelValues("arr", "saved"))
	AutosaveMetrics{}.CommitFinished("arr", "saved")
	assert.Equal(t, 1.0, testutil.ToFloat64(autosaveCommits.WithLabelValues("arr", "saved"))-before)
}
