package source

import (
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

// NewClient returns an HTTP client for bulk downloads. The timeout bounds the
// whole request including the body transfer.
func NewClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ResponseHeaderTimeout: time.Minute,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   4,
	}
	http2.ConfigureTransport(transport)
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}
