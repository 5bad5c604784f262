package sink

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestHTTPSinkWrite covers posting a JSON batch to the logging endpoint
func TestHTTPSinkWrite(t *testing.T) {

	var got []Record

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		if r.Method != http.MethodPost {
			t.Errorf("method got %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type got %q, want application/json", ct)
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("reading body: %v", err)
		}
		if err := json.Unmarshal(body, &got); err != nil {
			t.Fatalf("decoding body: %v", err)
		}

		w.WriteHeader(http.StatusOK)
	}))

	defer srv.Close()

	sink := NewHTTPSink(srv.URL, nil)

	batch := []Record{record(7, 42), record(8, 42)}

	if err := sink.Write(context.Background(), batch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("endpoint received %d records, want 2", len(got))
	}
	if got[0].TrackID != 7 || got[0].FrameIndex != 42 {
		t.Errorf("first record got %+v", got[0])
	}
	if got[1].ClassName != "person" {
		t.Errorf("class name got %q, want person", got[1].ClassName)
	}
}

// TestHTTPSinkErrorStatus covers a non 2xx response being reported as an
// error
func TestHTTPSinkErrorStatus(t *testing.T) {

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	defer srv.Close()

	sink := NewHTTPSink(srv.URL, nil)

	if err := sink.Write(context.Background(), []Record{record(1, 1)}); err == nil {
		t.Errorf("expected error for status 500")
	}
}

// TestHTTPSinkUnreachable covers a connection failure being reported
func TestHTTPSinkUnreachable(t *testing.T) {

	sink := NewHTTPSink("http://127.0.0.1:1/log", nil)

	if err := sink.Write(context.Background(), []Record{record(1, 1)}); err == nil {
		t.Errorf("expected error for unreachable endpoint")
	}
}
