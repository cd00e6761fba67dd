package transport

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// MinTimeout is the floor for the outbound request timeout. Values below it
// are raised so no endpoint or provider call can stall a run for long.
const MinTimeout = 5 * time.Second

// New builds the HTTP client shared by the fallback resolver and the DNS
// provider. An explicit proxy URL wins over the environment; empty means
// honor HTTP_PROXY and friends.
func New(proxyURL string, timeout time.Duration) (*http.Client, error) {
	if timeout < MinTimeout {
		timeout = MinTimeout
	}

	tr := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url %q: %w", proxyURL, err)
		}
		tr.Proxy = http.ProxyURL(u)
	}

	return &http.Client{Transport: tr, Timeout: timeout}, nil
}
