package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsMiddleware_RecordsStatus(t *testing.T) {
	metrics := &providerTestMetrics{}
	handler := MetricsMiddleware(metrics, &providerTestLogger{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))

	for _, path := range []string{"/interfaces", "/interfaces", "/missing"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2, metrics.requests["/interfaces:2xx"])
	assert.Equal(t, 1, metrics.requests["/missing:4xx"])
}
