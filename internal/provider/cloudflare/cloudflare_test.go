package cloudflare

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kvanhattum/aaaa-sync/internal/metrics"
	"github.com/kvanhattum/aaaa-sync/internal/provider"
)

func fakeAPI(t *testing.T, handler http.HandlerFunc) *CloudflareProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := New("test-token", srv.Client(), srv.URL, metrics.New(false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func writeResult(w http.ResponseWriter, result string) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"success":true,"errors":[],"messages":[],"result":%s}`, result)
}

func TestZoneID(t *testing.T) {
	p := fakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected authorization header %q", got)
		}
		if r.URL.Path != "/zones" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("name"); got != "example.com" {
			t.Errorf("expected zone name filter, got %q", got)
		}
		writeResult(w, `[{"id":"z1","name":"example.com"}]`)
	})

	id, err := p.ZoneID(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "z1" {
		t.Errorf("expected zone id z1, got %q", id)
	}
}

func TestZoneIDNotFound(t *testing.T) {
	p := fakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		writeResult(w, `[]`)
	})

	_, err := p.ZoneID(context.Background(), "missing.example")
	if !errors.Is(err, provider.ErrZoneNotFound) {
		t.Fatalf("expected ErrZoneNotFound, got %v", err)
	}
}

func TestFindRecord(t *testing.T) {
	p := fakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/zones/z1/dns_records" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("type") != "AAAA" || q.Get("name") != "home.example.com" {
			t.Errorf("expected type and name filters, got %v", q)
		}
		writeResult(w, `[{"id":"r1","type":"AAAA","name":"home.example.com","content":"2001:db8::1","ttl":300,"proxied":false}]`)
	})

	rec, err := p.FindRecord(context.Background(), "z1", "home.example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec == nil {
		t.Fatal("expected a record")
	}
	want := provider.Record{ID: "r1", Type: "AAAA", Name: "home.example.com", Content: "2001:db8::1", TTL: 300}
	if *rec != want {
		t.Errorf("expected %+v, got %+v", want, *rec)
	}
}

func TestFindRecordMissing(t *testing.T) {
	p := fakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		writeResult(w, `[]`)
	})

	rec, err := p.FindRecord(context.Background(), "z1", "home.example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec != nil {
		t.Errorf("expected nil for missing record, got %+v", rec)
	}
}

func TestCreateRecord(t *testing.T) {
	p := fakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/zones/z1/dns_records" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if body["type"] != "AAAA" || body["name"] != "home.example.com" || body["content"] != "2001:db8::2" {
			t.Errorf("unexpected body %v", body)
		}
		if body["ttl"] != float64(300) {
			t.Errorf("expected ttl 300, got %v", body["ttl"])
		}
		writeResult(w, `{"id":"r1","type":"AAAA","name":"home.example.com","content":"2001:db8::2","ttl":300}`)
	})

	record := provider.Record{Type: "AAAA", Name: "home.example.com", Content: "2001:db8::2", TTL: 300}
	if err := p.CreateRecord(context.Background(), "z1", record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateRecord(t *testing.T) {
	p := fakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/zones/z1/dns_records/r1") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if body["content"] != "2001:db8::2" {
			t.Errorf("expected new content, got %v", body["content"])
		}
		writeResult(w, `{"id":"r1","type":"AAAA","name":"home.example.com","content":"2001:db8::2","ttl":300}`)
	})

	record := provider.Record{ID: "r1", Type: "AAAA", Name: "home.example.com", Content: "2001:db8::2", TTL: 300}
	if err := p.UpdateRecord(context.Background(), "z1", record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpstreamErrorClassification(t *testing.T) {
	p := fakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"success":false,"errors":[{"code":9109,"message":"Invalid access token"}],"messages":[],"result":null}`)
	})

	_, err := p.ZoneID(context.Background(), "example.com")
	var upstream *provider.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
}

func TestTransportErrorClassification(t *testing.T) {
	// Nothing listens on this port, so the request fails before the API
	// can answer.
	p, err := New("test-token", nil, "http://127.0.0.1:1", metrics.New(false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = p.ZoneID(context.Background(), "example.com")
	var transport *provider.TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}
