package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_CountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/things/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/things/:id", "418"))
	for i := 0; i < 3; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/things/1", nil))
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/things/:id", "418"))
	assert.Equal(t, before+3, after)

	unmatchedBefore := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "unmatched", "404"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, unmatchedBefore+1, testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "unmatched", "404")))
}

func TestRecorders(t *testing.T) {
	before := testutil.ToFloat64(activityMutations.WithLabelValues(OpDelete))
	RecordActivityMutation(OpDelete)
	assert.Equal(t, before+1, testutil.ToFloat64(activityMutations.WithLabelValues(OpDelete)))

	before = testutil.ToFloat64(contactEmails.WithLabelValues(EmailRejected))
	RecordContactEmail(EmailRejected)
	assert.Equal(t, before+1, testutil.ToFloat64(contactEmails.WithLabelValues(EmailRejected)))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	RecordActivityMutation(OpCreate)

	r := gin.New()
	r.GET("/metrics", Handler())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "activities_api_activities_mutations_total")
}
