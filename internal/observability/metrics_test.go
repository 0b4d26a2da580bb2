package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsNilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/x", "200", time.Millisecond)
	m.ObserveAggregateOperation("op", "success", time.Millisecond)
	m.IncAggregateConflict("op")
	m.IncAggregateTxFailure("op")
	m.AddLessonsImported(3)
	m.IncProgressUpdate(true)
	m.IncEventPublished("ScheduleImported", nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("nil handler status: want=%d got=%d", http.StatusServiceUnavailable, rec.Code)
	}
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.AddLessonsImported(2)
	m.AddLessonsImported(0)
	m.IncAggregateTxFailure("Learning.Schedule.ImportLessons")
	m.IncEventPublished("ScheduleImported", errors.New("down"))

	if got := testutil.ToFloat64(m.lessonsImported); got != 2 {
		t.Fatalf("lessons imported: want=2 got=%v", got)
	}
	if got := testutil.ToFloat64(m.aggregateTxFailed.WithLabelValues("Learning.Schedule.ImportLessons")); got != 1 {
		t.Fatalf("tx failures: want=1 got=%v", got)
	}
	if got := testutil.ToFloat64(m.eventsPublished.WithLabelValues("ScheduleImported", "error")); got != 1 {
		t.Fatalf("event errors: want=1 got=%v", got)
	}
}

func TestMetricsHandlerExposesAPIRequests(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI("PUT", "/api/courses/:courseId/lessons/:lessonId/progress", "200", 20*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "classbridge_api_requests_total") {
		t.Fatalf("api counter missing from exposition")
	}
}
