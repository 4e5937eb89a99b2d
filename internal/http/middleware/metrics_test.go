package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_CountersInflightAndPathFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics())
	r.GET("/clientes/:id", func(c *gin.Context) {
		c.String(http.StatusOK, "hello")
	})
	r.GET("/notmodified", func(c *gin.Context) {
		c.Status(http.StatusNotModified)
	})

	baseRoute := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/clientes/:id", "200"))
	base404 := testutil.ToFloat64(httpReqs.WithLabelValues("GET", unmatchedRoute, "404"))

	for _, p := range []string{"/clientes/1", "/clientes/2"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("GET %s -> %d", p, w.Code)
		}
	}

	var w *httptest.ResponseRecorder
	for _, p := range []string{"/does-not-exist", "/wp-admin.php"} {
		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
		if w.Code != http.StatusNotFound {
			t.Fatalf("GET %s -> %d", p, w.Code)
		}
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notmodified", nil))
	if w.Code != http.StatusNotModified {
		t.Fatalf("GET /notmodified -> %d", w.Code)
	}

	// both ids collapse into the route label
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/clientes/:id", "200")); got != baseRoute+2 {
		t.Fatalf("route counter = %v; want %v", got, baseRoute+2)
	}
	// unmatched paths share one series
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", unmatchedRoute, "404")); got != base404+2 {
		t.Fatalf("404 fallback counter = %v; want %v", got, base404+2)
	}
	if inFlight := testutil.ToFloat64(httpInflight); inFlight != 0 {
		t.Fatalf("httpInflight = %v; want 0", inFlight)
	}
}

func TestCountAPIError(t *testing.T) {
	base := testutil.ToFloat64(apiErrors.WithLabelValues("CONFLICT"))
	CountAPIError("CONFLICT")
	CountAPIError("CONFLICT")
	if got := testutil.ToFloat64(apiErrors.WithLabelValues("CONFLICT")); got != base+2 {
		t.Fatalf("api_errors_total{CONFLICT} = %v; want %v", got, base+2)
	}
}

func TestAbortWithError_WritesEnvelopeAndCounts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		AbortWithError(c, http.StatusTooManyRequests, TypeRateLimited, "slow down")
	})

	base := testutil.ToFloat64(apiErrors.WithLabelValues(TypeRateLimited))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d", w.Code)
	}
	want := `{"error":{"message":"slow down","type":"RATE_LIMITED"},"success":false}`
	if w.Body.String() != want {
		t.Fatalf("body = %s; want %s", w.Body.String(), want)
	}
	if got := testutil.ToFloat64(apiErrors.WithLabelValues(TypeRateLimited)); got != base+1 {
		t.Fatalf("counter = %v; want %v", got, base+1)
	}
}
