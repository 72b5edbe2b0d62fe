package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestIncBookingTransition(t *testing.T) {
	m := NewWithRegisterer("parking-test", prometheus.NewRegistry())

	m.IncBookingTransition("arrival", "ok")
	m.IncBookingTransition("arrival", "ok")
	m.IncBookingTransition("arrival", "conflict")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.bookingTransitions.WithLabelValues("arrival", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookingTransitions.WithLabelValues("arrival", "conflict")))
}

func TestObserveHTTPRequest(t *testing.T) {
	m := NewWithRegisterer("parking-test", prometheus.NewRegistry())

	m.ObserveHTTPRequest("GET", "/api/v1/bookings/{bookingId}", 404, 15*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/v1/bookings/{bookingId}", "404")))
}
