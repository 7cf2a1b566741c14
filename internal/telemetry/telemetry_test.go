package telemetry

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestTransportCountsRequests(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/ok", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) { http.Error(w, "boom", http.StatusInternalServerError) })
	srv := httptest.NewServer(r)
	defer srv.Close()

	client := Client(slog.New(slog.NewTextHandler(io.Discard, nil)), time.Second)

	ok := outboundRequestsTotal.WithLabelValues(http.MethodGet, "/ok", http.StatusText(http.StatusNoContent))
	boom := outboundRequestsTotal.WithLabelValues(http.MethodGet, "/boom", http.StatusText(http.StatusInternalServerError))
	beforeOK, beforeBoom := testutil.ToFloat64(ok), testutil.ToFloat64(boom)

	for _, path := range []string{"/ok", "/ok", "/boom"} {
		resp, err := client.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
	}

	if got := testutil.ToFloat64(ok) - beforeOK; got != 2 {
		t.Errorf("ok requests counted %v, want 2", got)
	}
	if got := testutil.ToFloat64(boom) - beforeBoom; got != 1 {
		t.Errorf("failed requests counted %v, want 1", got)
	}
}

func TestTransportCountsTransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/gone"
	srv.Close()

	errs := outboundRequestsTotal.WithLabelValues(http.MethodGet, "/gone", "error")
	before := testutil.ToFloat64(errs)

	client := Client(slog.New(slog.NewTextHandler(io.Discard, nil)), time.Second)
	if _, err := client.Get(url); err == nil {
		t.Fatal("expected an error from a closed server")
	}
	if got := testutil.ToFloat64(errs) - before; got != 1 {
		t.Errorf("transport errors counted %v, want 1", got)
	}
}
