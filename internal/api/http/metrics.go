package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	webhookRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lighthouse_webhook_requests_total",
		Help: "Inbound webhook events by input modality.",
	}, []string{"modality"})

	webhookIntents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lighthouse_webhook_intents_total",
		Help: "Resolved intents routed to command handlers.",
	}, []string{"intent"})
)
