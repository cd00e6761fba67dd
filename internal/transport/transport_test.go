package transport

import (
	"net/http"
	"testing"
	"time"
)

func TestNewEnforcesTimeoutFloor(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		want    time.Duration
	}{
		{name: "below floor", timeout: time.Second, want: MinTimeout},
		{name: "zero", timeout: 0, want: MinTimeout},
		{name: "above floor", timeout: 30 * time.Second, want: 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New("", tt.timeout)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if client.Timeout != tt.want {
				t.Errorf("expected timeout %s, got %s", tt.want, client.Timeout)
			}
		})
	}
}

func TestNewWithProxy(t *testing.T) {
	client, err := New("http://proxy.internal:3128", 10*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tr, ok := client.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("expected *http.Transport, got %T", client.Transport)
	}
	req, _ := http.NewRequest(http.MethodGet, "https://api.cloudflare.com/client/v4/zones", nil)
	u, err := tr.Proxy(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u == nil || u.Host != "proxy.internal:3128" {
		t.Errorf("expected configured proxy, got %v", u)
	}
}

func TestNewRejectsBadProxy(t *testing.T) {
	if _, err := New("://not-a-url", 10*time.Second); err == nil {
		t.Fatal("expected error for malformed proxy url")
	}
}
