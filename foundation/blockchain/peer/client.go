package peer

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/go-resty/resty/v2"
)

// Chain is the document a node returns when asked for its chain.
type Chain struct {
	Length int              `json:"length"`
	Blocks []database.Block `json:"chain"`
}

// Client provides access to the public api of other nodes.
type Client struct {
	http *resty.Client
}

// NewClient constructs a client where each request is bounded by the
// specified timeout.
func NewClient(timeout time.Duration) *Client {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		http: client,
	}
}

// FetchChain asks the peer for its full chain.
func (c *Client) FetchChain(ctx context.Context, pr Peer) (Chain, error) {
	url := fmt.Sprintf("%s/chain", pr.Host)

	var chain Chain
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&chain).
		Get(url)
	if err != nil {
		return Chain{}, fmt.Errorf("fetch chain from %s: %w", pr.Host, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return Chain{}, fmt.Errorf("fetch chain from %s: status %d", pr.Host, resp.StatusCode())
	}

	return chain, nil
}
