package worker

import (
	"context"
	"time"
)

// consensusOperations handles resolving conflicts with the known peers on
// the configured interval.
func (w *Worker) consensusOperations() {
	w.evHandler("worker: consensusOperations: G started")
	defer w.evHandler("worker: consensusOperations: G completed")

	// A nil channel blocks forever which turns the operation off.
	var tick <-chan time.Time
	if w.ticker != nil {
		tick = w.ticker.C
	}

	for {
		select {
		case <-tick:
			if !w.isShutdown() {
				w.runConsensusOperation()
			}
		case <-w.shut:
			w.evHandler("worker: consensusOperations: received shut signal")
			return
		}
	}
}

// runConsensusOperation asks the peers for their chains and adopts the
// longest valid chain.
func (w *Worker) runConsensusOperation() {
	w.evHandler("worker: runConsensusOperation: started")
	defer w.evHandler("worker: runConsensusOperation: completed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Stop asking peers when the node is shutting down.
	go func() {
		select {
		case <-w.shut:
			cancel()
		case <-ctx.Done():
		}
	}()

	res, err := w.state.Resolve(ctx)
	if err != nil {
		w.evHandler("worker: runConsensusOperation: ERROR: %s", err)
		return
	}

	w.evHandler("worker: runConsensusOperation: replaced[%v]: length[%d]", res.Replaced, len(res.Chain))
}
