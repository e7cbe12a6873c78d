package mid

import (
	"context"
	"net/http"

	"github.com/ardanlabs/ledger/business/web/metrics"
	"github.com/ardanlabs/ledger/foundation/web"
)

// Metrics updates program counters.
func Metrics(m *metrics.Metrics) web.Middleware {

	// This is the actual middleware function to be executed.
	mw := func(handler web.Handler) web.Handler {

		// Create the handler that will be attached in the middleware chain.
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			// Increment the request counter.
			route := web.Route(r)
			m.AddRequest(r.Method, route)

			// Call the next handler.
			err := handler(ctx, w, r)

			// Increment the errors counter.
			if err != nil {
				m.AddError(r.Method, route)
			}

			// Return the error so it can be handled further up the chain.
			return err
		}

		return h
	}

	return mw
}
