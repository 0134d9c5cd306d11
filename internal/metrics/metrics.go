// Package metrics holds the process-wide Prometheus instruments. The
// webhook server exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "wizzybot"

var (
	// UpdatesTotal counts inbound updates by payload kind.
	UpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "updates_total",
		Help:      "Inbound Telegram updates by payload kind.",
	}, []string{"kind"})

	// RepliesTotal counts delivered replies by format.
	RepliesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "replies_total",
		Help:      "Delivered replies by format.",
	}, []string{"format"})

	// SendFailuresTotal counts replies that could not be delivered at all.
	SendFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "send_failures_total",
		Help:      "Replies that could not be delivered.",
	})

	// PurgedRowsTotal counts rows removed by retention purges.
	PurgedRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purged_rows_total",
		Help:      "Rows removed by retention purges, by table.",
	}, []string{"table"})
)
