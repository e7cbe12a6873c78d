package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/ledger/app/services/node/handlers"
	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/business/web/metrics"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type node struct {
	state    *state.State
	metrics  *metrics.Metrics
	shutdown chan os.Signal
	mux      http.Handler
	server   *httptest.Server
}

func newNode(t *testing.T) *node {
	t.Helper()

	st, err := state.New(state.Config{
		Host: "http://localhost:8080",
		Genesis: genesis.Genesis{
			Date:       time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
			Difficulty: 4,
		},
		FetchTimeout: time.Second,
	})
	require.NoError(t, err)

	m := metrics.New()
	require.NoError(t, m.Register(metrics.NewLedgerCollector(st)))

	shutdown := make(chan os.Signal, 1)

	mux := handlers.PublicMux(handlers.MuxConfig{
		Shutdown: shutdown,
		Log:      zap.NewNop().Sugar(),
		State:    st,
		Evts:     events.New(),
		Metrics:  m,
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		srv.Close()
		st.Shutdown()
	})

	return &node{state: st, metrics: m, shutdown: shutdown, mux: mux, server: srv}
}

func (n *node) do(t *testing.T, method string, path string, body any, result any) int {
	t.Helper()

	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = strings.NewReader(b)
		default:
			data, err := json.Marshal(body)
			require.NoError(t, err)
			r = bytes.NewReader(data)
		}
	}

	req, err := http.NewRequest(method, n.server.URL+path, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if result != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(result))
	}

	return resp.StatusCode
}

// =============================================================================

func TestSubmitAndMine(t *testing.T) {
	n := newNode(t)

	var msg struct {
		Message string `json:"message"`
	}
	status := n.do(t, http.MethodPost, "/transaction/new", map[string]any{"sender": "A", "recipient": "B", "amount": 10}, &msg)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, "Transaction added at block 1", msg.Message)

	var pending struct {
		Transactions []database.Tx `json:"transactions"`
		Length       int           `json:"length"`
	}
	status = n.do(t, http.MethodGet, "/transactions/pending", nil, &pending)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 1, pending.Length)

	var mined struct {
		Message      string        `json:"message"`
		Index        uint64        `json:"index"`
		Transactions []database.Tx `json:"transactions"`
		Proof        uint64        `json:"proof"`
		PreviousHash string        `json:"previous_hash"`
	}
	status = n.do(t, http.MethodGet, "/mine", nil, &mined)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "New block forged", mined.Message)
	require.Equal(t, uint64(1), mined.Index)
	require.Equal(t, []database.Tx{{Sender: "A", Recipient: "B", Amount: 10}}, mined.Transactions)

	var chain struct {
		Chain  []database.Block `json:"chain"`
		Length int              `json:"length"`
	}
	status = n.do(t, http.MethodGet, "/chain", nil, &chain)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 2, chain.Length)
	require.Len(t, chain.Chain, 2)
	require.Equal(t, chain.Chain[0].Hash(), mined.PreviousHash)
	require.NoError(t, n.state.ValidateChain(chain.Chain))
}

func TestSubmitValidation(t *testing.T) {
	n := newNode(t)

	tt := []struct {
		name string
		body any
	}{
		{name: "missing", body: map[string]any{"sender": "A", "amount": 10}},
		{name: "negative", body: map[string]any{"sender": "A", "recipient": "B", "amount": -1}},
		{name: "unknown", body: map[string]any{"sender": "A", "recipient": "B", "amount": 1, "fee": 2}},
		{name: "blank", body: map[string]any{"sender": " ", "recipient": "B", "amount": 1}},
		{name: "malformed", body: `{"sender":`},
	}

	for _, tst := range tt {
		t.Run(tst.name, func(t *testing.T) {
			var er errs.Response
			status := n.do(t, http.MethodPost, "/transaction/new", tst.body, &er)
			require.Equal(t, http.StatusBadRequest, status)
			require.NotEmpty(t, er.Error)
		})
	}

	require.Equal(t, 0, n.state.QueryMempoolLength())
}

func TestRegisterNodes(t *testing.T) {
	n := newNode(t)

	var er errs.Response
	status := n.do(t, http.MethodPost, "/nodes/register", map[string]any{"nodes": []string{"http://x/", "not a url"}}, &er)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, 0, n.state.QueryPeerCount())

	status = n.do(t, http.MethodPost, "/nodes/register", map[string]any{"nodes": []string{}}, &er)
	require.Equal(t, http.StatusBadRequest, status)

	var reg struct {
		Message    string `json:"message"`
		TotalNodes int    `json:"total_nodes"`
	}
	status = n.do(t, http.MethodPost, "/nodes/register", map[string]any{"nodes": []string{"http://192.168.0.5:5000", "http://192.168.0.6:5000/"}}, &reg)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, "New nodes have been added", reg.Message)
	require.Equal(t, 2, reg.TotalNodes)

	var list struct {
		Nodes      []string `json:"nodes"`
		TotalNodes int      `json:"total_nodes"`
	}
	status = n.do(t, http.MethodGet, "/nodes/list", nil, &list)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, []string{"http://192.168.0.5:5000", "http://192.168.0.6:5000"}, list.Nodes)
}

func TestResolve(t *testing.T) {
	local := newNode(t)
	remote := newNode(t)

	for i := 0; i < 2; i++ {
		status := remote.do(t, http.MethodGet, "/mine", nil, nil)
		require.Equal(t, http.StatusOK, status)
	}

	var reg struct {
		TotalNodes int `json:"total_nodes"`
	}
	status := local.do(t, http.MethodPost, "/nodes/register", map[string]any{"nodes": []string{remote.server.URL, "http://127.0.0.1:1"}}, &reg)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, 2, reg.TotalNodes)

	var replaced struct {
		Message  string           `json:"message"`
		NewChain []database.Block `json:"new_chain"`
	}
	status = local.do(t, http.MethodGet, "/nodes/resolve", nil, &replaced)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Our chain was replaced", replaced.Message)
	require.Len(t, replaced.NewChain, 3)

	var authoritative struct {
		Message string           `json:"message"`
		Chain   []database.Block `json:"chain"`
	}
	status = local.do(t, http.MethodGet, "/nodes/resolve", nil, &authoritative)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Our chain is authoritative", authoritative.Message)
	require.Len(t, authoritative.Chain, 3)
}

func TestTxProof(t *testing.T) {
	n := newNode(t)

	for _, rcpt := range []string{"B", "C", "D"} {
		status := n.do(t, http.MethodPost, "/transaction/new", map[string]any{"sender": "A", "recipient": rcpt, "amount": 1}, nil)
		require.Equal(t, http.StatusCreated, status)
	}
	require.Equal(t, http.StatusOK, n.do(t, http.MethodGet, "/mine", nil, nil))

	var proof struct {
		Block uint64      `json:"block"`
		Tx    database.Tx `json:"transaction"`
		Root  string      `json:"merkle_root"`
	}
	status := n.do(t, http.MethodGet, "/blocks/1/proof/1", nil, &proof)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, database.Tx{Sender: "A", Recipient: "C", Amount: 1}, proof.Tx)
	require.Equal(t, n.state.RetrieveLatestBlock().TransRoot(), proof.Root)

	require.Equal(t, http.StatusNotFound, n.do(t, http.MethodGet, "/blocks/7/proof/0", nil, nil))
	require.Equal(t, http.StatusBadRequest, n.do(t, http.MethodGet, "/blocks/x/proof/0", nil, nil))
}

// brokenWriter fails every write like a client that hung up.
type brokenWriter struct {
	header http.Header
	status int
}

func (bw *brokenWriter) Header() http.Header {
	if bw.header == nil {
		bw.header = make(http.Header)
	}
	return bw.header
}

func (bw *brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("write: broken pipe")
}

func (bw *brokenWriter) WriteHeader(status int) {
	bw.status = status
}

func TestClientWriteFailure(t *testing.T) {
	n := newNode(t)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/chain", nil)
		bw := brokenWriter{}

		done := make(chan struct{})
		go func() {
			n.mux.ServeHTTP(&bw, req)
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("request with a failing client write never returned")
		}
	}

	select {
	case sig := <-n.shutdown:
		t.Fatalf("client write failure signalled a shutdown: %v", sig)
	default:
	}

	require.Equal(t, 1, n.state.QueryChainLength())
	require.Equal(t, http.StatusOK, n.do(t, http.MethodGet, "/chain", nil, nil))
}

func TestDebugMux(t *testing.T) {
	n := newNode(t)
	require.Equal(t, http.StatusOK, n.do(t, http.MethodGet, "/chain", nil, nil))

	debug := httptest.NewServer(handlers.DebugMux("test", zap.NewNop().Sugar(), n.state, n.metrics))
	defer debug.Close()

	resp, err := http.Get(debug.URL + "/debug/readiness")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(debug.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `ledger_http_requests_total{method="GET",route="/chain"} 1`)
	require.Contains(t, string(body), "ledger_chain_length 1")
}
