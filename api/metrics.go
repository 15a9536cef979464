// metrics.go - Prometheus instrumentation for the API surface.
package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ledgerOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kintaraa_ledger_operations_total",
		Help: "Ledger operations by kind and result.",
	}, []string{"op", "result"})

	tokensGranted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kintaraa_tokens_granted_total",
		Help: "Tokens credited across all identities.",
	})

	tokensSpent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kintaraa_tokens_spent_total",
		Help: "Tokens debited across all identities.",
	})

	rewardFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kintaraa_reward_failures_total",
		Help: "Reward dispatches that did not credit (partial successes).",
	})
)

func observeOp(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	ledgerOps.WithLabelValues(op, result).Inc()
}
