package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "learning"

var (
	Enrollments = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "enrollments_total", Help: "Created enrollments",
	})
	Unenrollments = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "unenrollments_total", Help: "Deleted enrollments",
	})
	LessonCompletions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "lesson_completions_total", Help: "New lesson completion rows",
	})
	CertificatesIssued = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "certificates_issued_total", Help: "Issued certificates",
	})
	CertificateCollisions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "certificate_number_collisions_total", Help: "Certificate number collisions that were retried",
	})
	ProgressRepairs = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "progress_repairs_total", Help: "Stored progress values rewritten on read",
	})
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "http_requests_total", Help: "HTTP requests by route and status",
	}, []string{"route", "code"})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(
		Enrollments, Unenrollments, LessonCompletions,
		CertificatesIssued, CertificateCollisions, ProgressRepairs,
		HTTPRequests, DBPing,
	)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }

func ObserveRequest(route string, code int) {
	HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
