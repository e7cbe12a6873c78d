package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ardanlabs/ledger/business/web/metrics"
	"github.com/stretchr/testify/require"
)

type ledger struct{}

func (ledger) QueryChainLength() int    { return 3 }
func (ledger) QueryMempoolLength() int  { return 2 }
func (ledger) QueryPeerCount() int      { return 1 }
func (ledger) RetrieveDifficulty() uint { return 16 }

func TestMetrics(t *testing.T) {
	m := metrics.New()
	require.NoError(t, m.Register(metrics.NewLedgerCollector(ledger{})))

	m.AddRequest(http.MethodGet, "/chain")
	m.AddError(http.MethodGet, "/mine")
	m.AddPanic()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := string(body)
	require.Contains(t, out, `ledger_http_requests_total{method="GET",route="/chain"} 1`)
	require.Contains(t, out, `ledger_http_errors_total{method="GET",route="/mine"} 1`)
	require.Contains(t, out, "ledger_http_panics_total 1")
	require.Contains(t, out, "ledger_chain_length 3")
	require.Contains(t, out, "ledger_mempool_length 2")
	require.Contains(t, out, "ledger_peers_known 1")
	require.Contains(t, out, "ledger_pow_difficulty 16")
}
