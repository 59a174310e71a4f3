package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_created_total",
		Help: "Total number of bookings persisted in pending state",
	})

	CheckoutSessionsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_sessions_created_total",
		Help: "Total number of payment checkout sessions created",
	})

	WebhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_events_total",
		Help: "Webhook events received, by event type and outcome",
	}, []string{"type", "outcome"})

	ConnectAccountsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "connect_accounts_created_total",
		Help: "Total number of connected sub-merchant accounts created",
	})
)
