package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymdesk_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	PaymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_payments_total",
			Help: "Total number of payments by method and resulting status",
		},
		[]string{"method", "status"},
	)

	MembersByStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gymdesk_members",
			Help: "Active members by subscription status at the last dashboard refresh",
		},
		[]string{"status"},
	)

	NotificationsRaisedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_notifications_raised_total",
			Help: "Total number of expiry notifications raised",
		},
		[]string{"type"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gymdesk_email_queue_length",
			Help: "Current length of email queue",
		},
	)

	MigratedRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymdesk_migrated_rows_total",
			Help: "Rows copied by the store migration, per table",
		},
		[]string{"table"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordPayment(method, status string) {
	PaymentsTotal.WithLabelValues(method, status).Inc()
}

func SetMembersByStatus(active, expiringSoon, expired int) {
	MembersByStatus.WithLabelValues("active").Set(float64(active))
	MembersByStatus.WithLabelValues("expiring_soon").Set(float64(expiringSoon))
	MembersByStatus.WithLabelValues("expired").Set(float64(expired))
}

func RecordNotification(notificationType string) {
	NotificationsRaisedTotal.WithLabelValues(notificationType).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func RecordMigratedRows(table string, rows int64) {
	MigratedRowsTotal.WithLabelValues(table).Add(float64(rows))
}
