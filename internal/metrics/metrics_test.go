package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("GET", "/api/members", "200", 0.5)
	RecordHTTPRequest("GET", "/api/members", "200", 0.1)
	RecordHTTPRequest("GET", "/api/members", "401", 0.01)

	assert.Equal(t, float64(2), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/members", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/members", "401")))
	assert.Equal(t, 1, testutil.CollectAndCount(HTTPRequestDuration))
}

func TestRecordPayment(t *testing.T) {
	PaymentsTotal.Reset()

	RecordPayment("cash", "valid")
	RecordPayment("cash", "valid")
	RecordPayment("card", "refunded")

	assert.Equal(t, float64(2), testutil.ToFloat64(PaymentsTotal.WithLabelValues("cash", "valid")))
	assert.Equal(t, float64(1), testutil.ToFloat64(PaymentsTotal.WithLabelValues("card", "refunded")))
}

func TestSetMembersByStatus(t *testing.T) {
	MembersByStatus.Reset()

	SetMembersByStatus(40, 5, 3)
	assert.Equal(t, float64(40), testutil.ToFloat64(MembersByStatus.WithLabelValues("active")))
	assert.Equal(t, float64(5), testutil.ToFloat64(MembersByStatus.WithLabelValues("expiring_soon")))
	assert.Equal(t, float64(3), testutil.ToFloat64(MembersByStatus.WithLabelValues("expired")))

	SetMembersByStatus(41, 4, 3)
	assert.Equal(t, float64(41), testutil.ToFloat64(MembersByStatus.WithLabelValues("active")))
}

func TestRecordNotification(t *testing.T) {
	NotificationsRaisedTotal.Reset()

	RecordNotification("expiring")
	RecordNotification("expired")
	RecordNotification("expired")

	assert.Equal(t, float64(1), testutil.ToFloat64(NotificationsRaisedTotal.WithLabelValues("expiring")))
	assert.Equal(t, float64(2), testutil.ToFloat64(NotificationsRaisedTotal.WithLabelValues("expired")))
}

func TestRecordEmail(t *testing.T) {
	EmailsSentTotal.Reset()

	RecordEmail("expiry_reminder", "success")
	RecordEmail("expiry_reminder", "failed")

	assert.Equal(t, float64(1), testutil.ToFloat64(EmailsSentTotal.WithLabelValues("expiry_reminder", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(EmailsSentTotal.WithLabelValues("expiry_reminder", "failed")))
}

func TestEmailQueueLength(t *testing.T) {
	EmailQueueLength.Set(10)
	assert.Equal(t, float64(10), testutil.ToFloat64(EmailQueueLength))

	EmailQueueLength.Set(0)
	assert.Equal(t, float64(0), testutil.ToFloat64(EmailQueueLength))
}

func TestRecordMigratedRows(t *testing.T) {
	MigratedRowsTotal.Reset()

	RecordMigratedRows("members", 120)
	RecordMigratedRows("members", 5)
	RecordMigratedRows("payments", 0)

	assert.Equal(t, float64(125), testutil.ToFloat64(MigratedRowsTotal.WithLabelValues("members")))
	assert.Equal(t, float64(0), testutil.ToFloat64(MigratedRowsTotal.WithLabelValues("payments")))
}
