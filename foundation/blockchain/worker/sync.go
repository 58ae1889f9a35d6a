package worker

// Sync brings this node up to date with the longest valid chain known by
// its peers. It runs once when the resolve goroutine starts and is bound
// by the worker's context, so Shutdown releases a peer that never answers.
func (w *Worker) Sync() {
	w.evHandler("worker: sync: started")
	defer w.evHandler("worker: sync: completed")

	if len(w.state.RetrieveKnownPeers()) == 0 {
		w.evHandler("worker: sync: no known peers")
		return
	}

	adopted, chain, err := w.state.Resolve(w.ctx)
	if err != nil {
		w.evHandler("worker: sync: ERROR: %s", err)
		return
	}

	w.evHandler("worker: sync: adopted[%t]: length[%d]", adopted, len(chain))
}
