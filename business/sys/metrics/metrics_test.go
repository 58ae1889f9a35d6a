package metrics_test

import (
	"context"
	"expvar"
	"testing"

	"github.com/ardanlabs/ledger/business/sys/metrics"
)

func value(t *testing.T, name string) int64 {
	t.Helper()

	v, ok := expvar.Get(name).(*expvar.Int)
	if !ok {
		t.Fatalf("Should have the %s metric registered.", name)
	}
	return v.Value()
}

func Test_Metrics(t *testing.T) {
	requests := value(t, "requests")
	errs := value(t, "errors")
	mined := value(t, "blocks_mined")

	metrics.AddRequests(context.Background())
	if value(t, "requests") != requests {
		t.Fatalf("Should not count without the metrics in the context.")
	}

	ctx := metrics.Set(context.Background())
	metrics.AddRequests(ctx)
	metrics.AddErrors(ctx)
	metrics.AddBlocksMined()

	if value(t, "requests") != requests+1 || value(t, "errors") != errs+1 || value(t, "blocks_mined") != mined+1 {
		t.Fatalf("Should count the requests, errors and blocks mined.")
	}
}
