// Package metrics records what the node does as prometheus metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
)

const namespace = "nxtnode"

var (
	peerRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "peer_client",
		Name:      "requests_total",
		Help:      "Count of requests sent to peers.",
	}, []string{"operation", "status"})
	peerRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "peer_client",
		Name:      "request_duration_seconds",
		Help:      "Duration of requests sent to peers.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "status"})

	syncRoundsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "chainsync",
		Name:      "rounds_total",
		Help:      "Count of sync rounds run against peers.",
	}, []string{"status"})
	syncRoundDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "chainsync",
		Name:      "round_duration_seconds",
		Help:      "Duration of sync rounds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})
	syncBlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "chainsync",
		Name:      "blocks_pushed_total",
		Help:      "Count of blocks pushed while syncing.",
	})

	blocksAppliedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "blocks_applied_total",
		Help:      "Count of blocks applied to the ledger.",
	})
	transactionsAppliedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "transactions_applied_total",
		Help:      "Count of transactions applied to the ledger by kind.",
	}, []string{"kind"})
	chainHeight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "chain_height",
		Help:      "Height of the latest applied block.",
	})

	mempoolSize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "mempool",
		Name:      "transactions",
		Help:      "Number of unconfirmed transactions waiting in the pool.",
	})
	mempoolExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "mempool",
		Name:      "expired_total",
		Help:      "Count of unconfirmed transactions dropped after their deadline.",
	})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Count of API requests handled.",
	}, []string{"method", "code"})
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duration of API requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "code"})
	httpErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "errors_total",
		Help:      "Count of API requests that returned an error.",
	})
	httpPanicsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "panics_total",
		Help:      "Count of API handlers that panicked.",
	})
)

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// =============================================================================

// PeerClient tracks metrics for requests sent to peers.
type PeerClient struct{}

// NewPeerClient constructs a metrics collector for peer requests.
func NewPeerClient() PeerClient {
	return PeerClient{}
}

// Observe records a single request outcome and duration.
func (PeerClient) Observe(operation string, err error, started time.Time) {
	peerRequestsTotal.WithLabelValues(operation, status(err)).Inc()
	peerRequestDuration.WithLabelValues(operation, status(err)).Observe(time.Since(started).Seconds())
}

// =============================================================================

// ChainSync tracks metrics for sync rounds.
type ChainSync struct{}

// NewChainSync constructs a metrics collector for sync rounds.
func NewChainSync() ChainSync {
	return ChainSync{}
}

// ObserveSync records a sync round and the blocks it pushed.
func (ChainSync) ObserveSync(err error, pushed int, started time.Time) {
	syncRoundsTotal.WithLabelValues(status(err)).Inc()
	syncRoundDuration.WithLabelValues(status(err)).Observe(time.Since(started).Seconds())
	syncBlocksTotal.Add(float64(pushed))
}

// =============================================================================

// Ledger tracks the blocks applied to the ledger. It is subscribed to the
// state as a block observer.
type Ledger struct{}

// NewLedger constructs a metrics collector for applied blocks.
func NewLedger() Ledger {
	return Ledger{}
}

// BeforeApply implements the state.BlockObserver interface.
func (Ledger) BeforeApply(block *database.Block) {}

// AfterApply implements the state.BlockObserver interface.
func (Ledger) AfterApply(block *database.Block) {
	blocksAppliedTotal.Inc()
	chainHeight.Set(float64(block.Height))

	for _, tx := range block.Transactions {
		transactionsAppliedTotal.WithLabelValues(tx.Kind.String()).Inc()
	}
}

// =============================================================================

// Mempool tracks the unconfirmed pool.
type Mempool struct{}

// NewMempool constructs a metrics collector for the unconfirmed pool.
func NewMempool() Mempool {
	return Mempool{}
}

// ObserveSize records how many transactions are waiting.
func (Mempool) ObserveSize(size int) {
	mempoolSize.Set(float64(size))
}

// ObserveExpired records transactions dropped after their deadline.
func (Mempool) ObserveExpired(count int) {
	mempoolExpiredTotal.Add(float64(count))
}

// =============================================================================

// Web tracks the API requests served by the node.
type Web struct{}

// NewWeb constructs a metrics collector for API requests.
func NewWeb() Web {
	return Web{}
}

// ObserveRequest records a served request with its final status code.
func (Web) ObserveRequest(method string, statusCode int, started time.Time) {
	code := strconv.Itoa(statusCode)
	httpRequestsTotal.WithLabelValues(method, code).Inc()
	httpRequestDuration.WithLabelValues(method, code).Observe(time.Since(started).Seconds())
}

// ObserveError records a request that returned an error.
func (Web) ObserveError() {
	httpErrorsTotal.Inc()
}

// ObservePanic records a recovered handler panic.
func (Web) ObservePanic() {
	httpPanicsTotal.Inc()
}
