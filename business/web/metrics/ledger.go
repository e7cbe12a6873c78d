package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Ledger represents the behavior required to report on the ledger.
type Ledger interface {
	QueryChainLength() int
	QueryMempoolLength() int
	QueryPeerCount() int
	RetrieveDifficulty() uint
}

// LedgerCollector collects the current size of the chain, the mempool and
// the set of known peers on every scrape.
type LedgerCollector struct {
	ledger         Ledger
	chainDesc      *prometheus.Desc
	mempoolDesc    *prometheus.Desc
	peersDesc      *prometheus.Desc
	difficultyDesc *prometheus.Desc
}

// NewLedgerCollector creates a new LedgerCollector.
func NewLedgerCollector(ledger Ledger) *LedgerCollector {
	return &LedgerCollector{
		ledger: ledger,
		chainDesc: prometheus.NewDesc(
			prometheus.BuildFQName("ledger", "chain", "length"),
			"Number of blocks in the chain including genesis.",
			nil, nil,
		),
		mempoolDesc: prometheus.NewDesc(
			prometheus.BuildFQName("ledger", "mempool", "length"),
			"Number of transactions waiting to be mined.",
			nil, nil,
		),
		peersDesc: prometheus.NewDesc(
			prometheus.BuildFQName("ledger", "peers", "known"),
			"Number of registered peer nodes.",
			nil, nil,
		),
		difficultyDesc: prometheus.NewDesc(
			prometheus.BuildFQName("ledger", "pow", "difficulty"),
			"Number of leading zero bits a block hash needs.",
			nil, nil,
		),
	}
}

// Describe implements the prometheus.Collector interface.
func (c *LedgerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.chainDesc
	ch <- c.mempoolDesc
	ch <- c.peersDesc
	ch <- c.difficultyDesc
}

// Collect implements the prometheus.Collector interface.
func (c *LedgerCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.chainDesc, prometheus.GaugeValue, float64(c.ledger.QueryChainLength()))
	ch <- prometheus.MustNewConstMetric(c.mempoolDesc, prometheus.GaugeValue, float64(c.ledger.QueryMempoolLength()))
	ch <- prometheus.MustNewConstMetric(c.peersDesc, prometheus.GaugeValue, float64(c.ledger.QueryPeerCount()))
	ch <- prometheus.MustNewConstMetric(c.difficultyDesc, prometheus.GaugeValue, float64(c.ledger.RetrieveDifficulty()))
}
