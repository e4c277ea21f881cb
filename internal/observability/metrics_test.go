package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type stubDeliverer struct{ err error }

func (s stubDeliverer) Deliver(context.Context, string) error { return s.err }

func TestMeteredDelivererCountsStatus(t *testing.T) {
	okBefore := testutil.ToFloat64(deliveriesTotal.WithLabelValues("success"))
	errBefore := testutil.ToFloat64(deliveriesTotal.WithLabelValues("error"))

	if err := NewMeteredDeliverer(stubDeliverer{}).Deliver(context.Background(), "hi"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cause := errors.New("refused")
	if err := NewMeteredDeliverer(stubDeliverer{err: cause}).Deliver(context.Background(), "hi"); !errors.Is(err, cause) {
		t.Fatalf("expected cause to pass through, got %v", err)
	}

	if got := testutil.ToFloat64(deliveriesTotal.WithLabelValues("success")) - okBefore; got != 1 {
		t.Errorf("expected 1 success, got %v", got)
	}
	if got := testutil.ToFloat64(deliveriesTotal.WithLabelValues("error")) - errBefore; got != 1 {
		t.Errorf("expected 1 error, got %v", got)
	}
}

func TestRecordEvent(t *testing.T) {
	before := testutil.ToFloat64(eventsTotal.WithLabelValues("filtered"))
	RecordEvent("filtered")
	RecordEvent("filtered")
	if got := testutil.ToFloat64(eventsTotal.WithLabelValues("filtered")) - before; got != 2 {
		t.Errorf("expected 2 filtered events, got %v", got)
	}
}
