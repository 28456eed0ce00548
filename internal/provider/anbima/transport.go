package anbima

import (
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// baseTransportConfig returns the HTTP transport used for provider downloads.
func baseTransportConfig() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.TLSHandshakeTimeout = 10 * time.Second
	t.MaxIdleConnsPerHost = 1
	return t
}

// newHTTPClient creates the underlying client. A zero timeout leaves requests unbounded.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: baseTransportConfig(),
		Timeout:   timeout,
	}
}

// newRestyClient wraps the HTTP client. Retries stay disabled: a failed download aborts the run.
func newRestyClient(timeout time.Duration) *resty.Client {
	return resty.NewWithClient(newHTTPClient(timeout)).
		SetRetryCount(0).
		SetHeader("Accept", "text/csv, text/plain, */*")
}
